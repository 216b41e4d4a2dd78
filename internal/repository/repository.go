package repository

import (
	"context"
	"sync"

	model "auction-coordinator/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository auction-coordinator/internal/repository AuctionDB

// AuctionDB defines the ledger storage interface for the auction system.
// Every load returns a fresh copy; callers mutate it and hand it back to a save.
type AuctionDB interface {
	LoadUsers(ctx context.Context) ([]model.User, error)
	LoadItems(ctx context.Context) ([]model.Item, error)
	LoadAuction(ctx context.Context) (model.Auction, error)
	AppendUser(ctx context.Context, user model.User) error
	SaveAuction(ctx context.Context, auction model.Auction) error
	// SaveLedger replaces items and users together; either both land or neither does
	SaveLedger(ctx context.Context, items []model.Item, users []model.User) error
	SeedItems(ctx context.Context, items []model.Item) (bool, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu      sync.RWMutex
	users   []model.User
	items   []model.Item
	auction model.Auction
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: []model.User{},
		items: []model.Item{},
	}
}

// LoadUsers returns a copy of all users in registration order
func (r *MemoryRepo) LoadUsers(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyUsers(r.users), nil
}

// LoadItems returns a copy of all items in storage order
func (r *MemoryRepo) LoadItems(_ context.Context) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyItems(r.items), nil
}

// LoadAuction returns the auction state
func (r *MemoryRepo) LoadAuction(_ context.Context) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyAuction(r.auction), nil
}

// AppendUser adds a user at the end of the collection
func (r *MemoryRepo) AppendUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, copyUsers([]model.User{user})...)
	return nil
}

// SaveAuction replaces the auction state
func (r *MemoryRepo) SaveAuction(_ context.Context, auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auction = copyAuction(auction)
	return nil
}

// SaveLedger replaces items and users under one lock
func (r *MemoryRepo) SaveLedger(_ context.Context, items []model.Item, users []model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = copyItems(items)
	r.users = copyUsers(users)
	return nil
}

// SeedItems stores items only when the collection is empty and reports whether it did
func (r *MemoryRepo) SeedItems(_ context.Context, items []model.Item) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) > 0 {
		return false, nil
	}
	r.items = copyItems(items)
	return true, nil
}

// AddItem adds an item to the repository. This method is intended for tests only.
func (r *MemoryRepo) AddItem(item model.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, copyItems([]model.Item{item})...)
}

func copyUsers(in []model.User) []model.User {
	out := make([]model.User, len(in))
	for i, u := range in {
		out[i] = u
		out[i].Bids = append([]model.BidEntry{}, u.Bids...)
	}
	return out
}

func copyItems(in []model.Item) []model.Item {
	out := make([]model.Item, len(in))
	for i, it := range in {
		out[i] = it
		if it.HighestBidder != nil {
			name := *it.HighestBidder
			out[i].HighestBidder = &name
		}
	}
	return out
}

func copyAuction(a model.Auction) model.Auction {
	out := model.Auction{IsOpen: a.IsOpen}
	if a.StartTime != nil {
		t := *a.StartTime
		out.StartTime = &t
	}
	if a.EndTime != nil {
		t := *a.EndTime
		out.EndTime = &t
	}
	return out
}
