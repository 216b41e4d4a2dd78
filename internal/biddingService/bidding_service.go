package bidding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-coordinator/internal/biddingerrors"
	"auction-coordinator/internal/events"
	"auction-coordinator/internal/models"
	"auction-coordinator/internal/repository"
	"auction-coordinator/utils"
)

// BiddingService defines the business logic for auction bidding.
// Mutating operations hold mu for their whole load-validate-mutate-save
// sequence; reads hold the read side so they see a consistent snapshot.
type BiddingService struct {
	mu        sync.RWMutex
	repo      repository.AuctionDB
	publisher events.Publisher
	now       func() time.Time
}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithPublisher sets the publisher used for auction events
func WithPublisher(p events.Publisher) Option {
	return func(s *BiddingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:      repo,
		publisher: events.LogPublisher{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates and applies a user's bid for an item
func (s *BiddingService) PlaceBid(ctx context.Context, itemID, userID int, amount int64) (models.BidResult, error) {
	result, err := s.placeBid(ctx, itemID, userID, amount)
	if err != nil {
		return models.BidResult{}, err
	}

	utils.Info("bid accepted", map[string]any{
		"item_id": itemID,
		"user_id": userID,
		"bidder":  result.HighestBidder,
		"amount":  amount,
	})
	s.publish(ctx, events.NewBidPlaced(userID, result))
	return result, nil
}

func (s *BiddingService) placeBid(ctx context.Context, itemID, userID int, amount int64) (models.BidResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, err := s.repo.LoadAuction(ctx)
	if err != nil {
		return models.BidResult{}, fmt.Errorf("service: failed to load auction: %w", err)
	}
	if !auction.IsOpen {
		return models.BidResult{}, fmt.Errorf("service: %w", biddingerrors.ErrAuctionClosed)
	}

	items, err := s.repo.LoadItems(ctx)
	if err != nil {
		return models.BidResult{}, fmt.Errorf("service: failed to load items: %w", err)
	}
	itemIdx := findItem(items, itemID)
	if itemIdx < 0 {
		return models.BidResult{}, fmt.Errorf("service: %w - id %d", biddingerrors.ErrItemNotFound, itemID)
	}

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return models.BidResult{}, fmt.Errorf("service: failed to load users: %w", err)
	}
	userIdx := findUser(users, userID)
	if userIdx < 0 {
		return models.BidResult{}, fmt.Errorf("service: %w - id %d", biddingerrors.ErrUserNotFound, userID)
	}

	item := &items[itemIdx]
	user := &users[userIdx]

	if err := validateBidAmount(amount, item.HighestBid); err != nil {
		return models.BidResult{}, err
	}

	available := user.Balance - reservedExcluding(items, user.Name, itemID)
	utils.Debug("bid funds check", map[string]any{
		"item_id":   itemID,
		"user":      user.Name,
		"balance":   user.Balance,
		"available": available,
		"amount":    amount,
	})
	if amount > available {
		return models.BidResult{}, fmt.Errorf("service: %w - available balance is %d", biddingerrors.ErrInsufficientFunds, available)
	}

	bidder := user.Name
	item.HighestBid = amount
	item.HighestBidder = &bidder
	user.Bids = append(user.Bids, models.BidEntry{ItemID: itemID, Amount: amount})

	if err := s.repo.SaveLedger(ctx, items, users); err != nil {
		return models.BidResult{}, fmt.Errorf("service: failed to record bid for item %d by user %d: %w", itemID, userID, err)
	}

	return models.BidResult{
		ItemID:        itemID,
		HighestBid:    amount,
		HighestBidder: bidder,
	}, nil
}

// validateBidAmount checks that the bid strictly exceeds the current highest bid
func validateBidAmount(amount, currentHighest int64) error {
	if amount <= currentHighest {
		return fmt.Errorf("service: %w - current highest bid is %d", biddingerrors.ErrInvalidBid, currentHighest)
	}
	return nil
}

// publish sends an event and logs, rather than returns, any failure
func (s *BiddingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		utils.Warn("failed to publish event", map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type.String(),
			"error":      err.Error(),
		})
	}
}

func findItem(items []models.Item, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func findUser(users []models.User, id int) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
