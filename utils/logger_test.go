package utils

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// Mutates the global logger, so no t.Parallel
func TestSetLevel_GatesDebug(t *testing.T) {
	hook := test.NewLocal(log.StandardLogger())
	previous := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(previous) })

	require.NoError(t, SetLevel("info"))
	Debug("hidden", nil)
	require.Empty(t, hook.AllEntries())

	require.NoError(t, SetLevel("debug"))
	Debug("bid funds check", map[string]any{"available": int64(900)})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, log.DebugLevel, entry.Level)
	require.Equal(t, "bid funds check", entry.Message)
	require.Equal(t, int64(900), entry.Data["available"])

	require.Error(t, SetLevel("loud"))
	require.Equal(t, log.DebugLevel, log.GetLevel())
}
