// Package scheduler runs background jobs against the auction service.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-coordinator/internal/biddingerrors"
	"auction-coordinator/internal/models"
	"auction-coordinator/utils"
)

// AuctionCloser is the part of the bidding service the auto-closer drives
type AuctionCloser interface {
	AuctionStatus(ctx context.Context) (models.Auction, error)
	CloseAuctionStartedAt(ctx context.Context, startTime time.Time) ([]models.SaleResult, error)
}

// AutoCloser closes an open auction once it has run for the configured duration
type AutoCloser struct {
	service  AuctionCloser
	duration time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewAutoCloser creates an auto-closer polling every interval
func NewAutoCloser(service AuctionCloser, duration, interval time.Duration) *AutoCloser {
	if interval <= 0 {
		interval = time.Second
	}
	return &AutoCloser{
		service:  service,
		duration: duration,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run starts the polling loop and returns when ctx is cancelled
func (a *AutoCloser) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	utils.Info("auto-close scheduler started", map[string]any{
		"duration": a.duration.String(),
		"interval": a.interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := a.Tick(ctx); err != nil {
				utils.Error("auto-close: tick failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Tick closes the auction if it is open and its time is up. It reports
// whether this call closed the auction.
func (a *AutoCloser) Tick(ctx context.Context) (bool, error) {
	auction, err := a.service.AuctionStatus(ctx)
	if err != nil {
		return false, fmt.Errorf("auto-close: load auction: %w", err)
	}
	if !auction.IsOpen || auction.StartTime == nil {
		return false, nil
	}
	if a.now().Before(auction.StartTime.Add(a.duration)) {
		return false, nil
	}

	// only the run observed above may be closed; a manual close and reopen
	// in between must not end the new run early
	results, err := a.service.CloseAuctionStartedAt(ctx, *auction.StartTime)
	if errors.Is(err, biddingerrors.ErrAlreadyClosed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("auto-close: close auction: %w", err)
	}

	utils.Info("auto-close: auction closed", map[string]any{"items_sold": len(results)})
	return true, nil
}
