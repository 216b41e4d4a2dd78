package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	bidding "auction-coordinator/internal/biddingService"
	model "auction-coordinator/internal/models"
	"auction-coordinator/internal/repository"
	"auction-coordinator/internal/server"
	"auction-coordinator/internal/store"

	"github.com/gin-gonic/gin"
)

// defaultItems mirrors a freshly seeded catalogue
func defaultItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Reloj antiguo", BasePrice: 50, HighestBid: 50},
		{ID: 2, Name: "Guitarra clásica", BasePrice: 120, HighestBid: 120},
		{ID: 3, Name: "Cuadro al óleo", BasePrice: 200, HighestBid: 200},
	}
}

// SetupTestRouterWithItems initializes the router over an in-memory repository seeded with items.
func SetupTestRouterWithItems(items ...model.Item) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()

	for _, item := range items {
		repo.AddItem(item)
	}

	service := bidding.NewBiddingService(repo)
	return server.SetupRouter(service)
}

// SetupFileRouter initializes the router over a JSON file store at path.
func SetupFileRouter(t *testing.T, path string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs, err := store.NewFileStore(path)
	if err != nil {
		t.Fatalf("failed to open file store: %v", err)
	}
	service := bidding.NewBiddingService(repository.NewStoreRepo(fs))
	return server.SetupRouter(service)
}

func tempStorePath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "auction.json")
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the response body into out.
func Decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
}
