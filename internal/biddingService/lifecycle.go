package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-coordinator/internal/biddingerrors"
	"auction-coordinator/internal/events"
	"auction-coordinator/internal/models"
	"auction-coordinator/utils"
)

// OpenAuction moves the auction from closed to open and returns the start time
func (s *BiddingService) OpenAuction(ctx context.Context) (time.Time, error) {
	startTime, err := s.openAuction(ctx)
	if err != nil {
		return time.Time{}, err
	}

	utils.Info("auction opened", map[string]any{"start_time": startTime.Format(time.RFC3339)})
	s.publish(ctx, events.NewAuctionOpened(startTime))
	return startTime, nil
}

func (s *BiddingService) openAuction(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, err := s.repo.LoadAuction(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("service: failed to load auction: %w", err)
	}
	if auction.IsOpen {
		return time.Time{}, fmt.Errorf("service: %w", biddingerrors.ErrAlreadyOpen)
	}

	startTime := s.now()
	auction.IsOpen = true
	auction.StartTime = &startTime
	auction.EndTime = nil

	if err := s.repo.SaveAuction(ctx, auction); err != nil {
		return time.Time{}, fmt.Errorf("service: failed to open auction: %w", err)
	}
	return startTime, nil
}

// CloseAuction closes the auction and settles every item that has a leader.
// The closed state is persisted before settlement so a failure part way
// through can never leave the auction accepting bids.
func (s *BiddingService) CloseAuction(ctx context.Context) ([]models.SaleResult, error) {
	return s.closeAndPublish(ctx, nil)
}

// CloseAuctionStartedAt closes the auction only while it is still the run
// that opened at startTime. If that run was closed, even if a new one has
// since been opened, it fails with ErrAlreadyClosed.
func (s *BiddingService) CloseAuctionStartedAt(ctx context.Context, startTime time.Time) ([]models.SaleResult, error) {
	return s.closeAndPublish(ctx, &startTime)
}

func (s *BiddingService) closeAndPublish(ctx context.Context, startedAt *time.Time) ([]models.SaleResult, error) {
	endTime, results, err := s.closeAuction(ctx, startedAt)
	if err != nil {
		return nil, err
	}

	utils.Info("auction closed", map[string]any{"items_sold": len(results)})
	s.publish(ctx, events.NewAuctionClosed(endTime, results))
	return results, nil
}

func (s *BiddingService) closeAuction(ctx context.Context, startedAt *time.Time) (time.Time, []models.SaleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, err := s.repo.LoadAuction(ctx)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("service: failed to load auction: %w", err)
	}
	if !auction.IsOpen {
		return time.Time{}, nil, fmt.Errorf("service: %w", biddingerrors.ErrAlreadyClosed)
	}
	if startedAt != nil && (auction.StartTime == nil || !auction.StartTime.Equal(*startedAt)) {
		return time.Time{}, nil, fmt.Errorf("service: %w - run started at %s was reopened", biddingerrors.ErrAlreadyClosed, startedAt.Format(time.RFC3339Nano))
	}

	endTime := s.now()
	auction.IsOpen = false
	auction.EndTime = &endTime
	if err := s.repo.SaveAuction(ctx, auction); err != nil {
		return time.Time{}, nil, fmt.Errorf("service: failed to close auction: %w", err)
	}

	items, err := s.repo.LoadItems(ctx)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("service: failed to load items for settlement: %w", err)
	}
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("service: failed to load users for settlement: %w", err)
	}

	results := settle(items, users)

	if err := s.repo.SaveLedger(ctx, items, users); err != nil {
		return time.Time{}, nil, fmt.Errorf("service: failed to save settlement: %w", err)
	}
	return endTime, results, nil
}

// settle marks led items sold and charges their winners in place. A leader
// name that matches no user is reported but not charged.
func settle(items []models.Item, users []models.User) []models.SaleResult {
	results := []models.SaleResult{}
	for i := range items {
		item := &items[i]
		if item.HighestBidder == nil {
			continue
		}
		winner := *item.HighestBidder
		item.Sold = true

		if idx := findUserByName(users, winner); idx >= 0 {
			users[idx].Balance -= item.HighestBid
			utils.Info("winner charged", map[string]any{
				"item_id": item.ID,
				"item":    item.Name,
				"winner":  winner,
				"amount":  item.HighestBid,
			})
		} else {
			utils.Warn("settlement: winner not found, balance not charged", map[string]any{
				"item_id": item.ID,
				"winner":  winner,
			})
		}

		results = append(results, models.SaleResult{
			ItemID:   item.ID,
			Item:     item.Name,
			Winner:   winner,
			FinalBid: item.HighestBid,
		})
	}
	return results
}

// AuctionStatus returns the current auction state
func (s *BiddingService) AuctionStatus(ctx context.Context) (models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, err := s.repo.LoadAuction(ctx)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to load auction: %w", err)
	}
	return auction, nil
}

// SeedItems stores the catalogue when no items exist yet
func (s *BiddingService) SeedItems(ctx context.Context, items []models.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeded, err := s.repo.SeedItems(ctx, items)
	if err != nil {
		return false, fmt.Errorf("service: failed to seed items: %w", err)
	}
	return seeded, nil
}

func findUserByName(users []models.User, name string) int {
	for i := range users {
		if users[i].Name == name {
			return i
		}
	}
	return -1
}
