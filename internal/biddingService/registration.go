package bidding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"auction-coordinator/internal/biddingerrors"
	"auction-coordinator/internal/models"
	"auction-coordinator/utils"
)

// Register creates a user with the initial balance. Names are trimmed and
// must be unique by exact, case-sensitive match.
func (s *BiddingService) Register(ctx context.Context, name string) (models.RegisteredUser, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.RegisteredUser{}, fmt.Errorf("service: %w - name is required", biddingerrors.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return models.RegisteredUser{}, fmt.Errorf("service: failed to load users: %w", err)
	}
	for _, u := range users {
		if u.Name == name {
			return models.RegisteredUser{}, fmt.Errorf("service: %w - %q", biddingerrors.ErrConflict, name)
		}
	}

	user := models.User{
		ID:      len(users) + 1,
		Name:    name,
		Balance: models.InitialBalance,
		Bids:    []models.BidEntry{},
	}
	if err := s.repo.AppendUser(ctx, user); err != nil {
		return models.RegisteredUser{}, fmt.Errorf("service: failed to register user %q: %w", name, err)
	}

	utils.Info("user registered", map[string]any{"user_id": user.ID, "name": user.Name})
	return models.RegisteredUser{ID: user.ID, Name: user.Name, Balance: user.Balance}, nil
}

// GetUser returns the user with its balance reported as available balance
func (s *BiddingService) GetUser(ctx context.Context, id int) (models.UserView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return models.UserView{}, fmt.Errorf("service: failed to load users: %w", err)
	}
	idx := findUser(users, id)
	if idx < 0 {
		return models.UserView{}, fmt.Errorf("service: %w - id %d", biddingerrors.ErrUserNotFound, id)
	}

	items, err := s.repo.LoadItems(ctx)
	if err != nil {
		return models.UserView{}, fmt.Errorf("service: failed to load items: %w", err)
	}

	user := users[idx]
	bids := user.Bids
	if bids == nil {
		bids = []models.BidEntry{}
	}
	return models.UserView{
		ID:      user.ID,
		Name:    user.Name,
		Balance: availableBalance(user, items),
		Bids:    bids,
	}, nil
}

// ListUsers returns every stored user as is
func (s *BiddingService) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load users: %w", err)
	}
	return users, nil
}

// ListItems returns all items, optionally ordered by highest bid descending
// with ties broken by ascending id
func (s *BiddingService) ListItems(ctx context.Context, sortByHighestBid bool) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.repo.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load items: %w", err)
	}

	if sortByHighestBid {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].HighestBid != items[j].HighestBid {
				return items[i].HighestBid > items[j].HighestBid
			}
			return items[i].ID < items[j].ID
		})
	}
	return items, nil
}
