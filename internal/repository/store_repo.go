package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"auction-coordinator/internal/biddingerrors"
	model "auction-coordinator/internal/models"
	"auction-coordinator/internal/store"
)

// StoreRepo implements AuctionDB on top of any raw collection store by
// encoding each collection as a JSON document
type StoreRepo struct {
	store store.CollectionStore
}

// NewStoreRepo creates a repository backed by s
func NewStoreRepo(s store.CollectionStore) *StoreRepo {
	return &StoreRepo{store: s}
}

// LoadUsers returns all users; a missing or non-array collection reads as empty
func (r *StoreRepo) LoadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.load(ctx, store.Users, &users); err != nil {
		if !errors.Is(err, errNotArray) {
			return nil, err
		}
		users = nil
	}
	if users == nil {
		users = []model.User{}
	}
	for i := range users {
		if users[i].Bids == nil {
			users[i].Bids = []model.BidEntry{}
		}
	}
	return users, nil
}

// LoadItems returns all items in storage order
func (r *StoreRepo) LoadItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.load(ctx, store.Items, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// LoadAuction returns the auction state; a missing record reads as closed
func (r *StoreRepo) LoadAuction(ctx context.Context) (model.Auction, error) {
	var auction model.Auction
	if err := r.load(ctx, store.Auction, &auction); err != nil {
		return model.Auction{}, err
	}
	return auction, nil
}

// AppendUser loads the users collection, appends user and saves it back
func (r *StoreRepo) AppendUser(ctx context.Context, user model.User) error {
	users, err := r.LoadUsers(ctx)
	if err != nil {
		return err
	}
	if user.Bids == nil {
		user.Bids = []model.BidEntry{}
	}
	users = append(users, user)

	data, err := encode(store.Users, users)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.Users, data); err != nil {
		return fmt.Errorf("append user %d: %w: %v", user.ID, biddingerrors.ErrStore, err)
	}
	return nil
}

// SaveAuction replaces the auction record
func (r *StoreRepo) SaveAuction(ctx context.Context, auction model.Auction) error {
	data, err := encode(store.Auction, auction)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.Auction, data); err != nil {
		return fmt.Errorf("save auction: %w: %v", biddingerrors.ErrStore, err)
	}
	return nil
}

// SaveLedger replaces items and users in a single store batch
func (r *StoreRepo) SaveLedger(ctx context.Context, items []model.Item, users []model.User) error {
	itemsData, err := encode(store.Items, items)
	if err != nil {
		return err
	}
	usersData, err := encode(store.Users, users)
	if err != nil {
		return err
	}

	batch := map[string][]byte{
		store.Items: itemsData,
		store.Users: usersData,
	}
	if err := r.store.SaveAll(ctx, batch); err != nil {
		return fmt.Errorf("save ledger: %w: %v", biddingerrors.ErrStore, err)
	}
	return nil
}

// SeedItems writes items only when the items collection is empty
func (r *StoreRepo) SeedItems(ctx context.Context, items []model.Item) (bool, error) {
	existing, err := r.LoadItems(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	data, err := encode(store.Items, items)
	if err != nil {
		return false, err
	}
	if err := r.store.Save(ctx, store.Items, data); err != nil {
		return false, fmt.Errorf("seed items: %w: %v", biddingerrors.ErrStore, err)
	}
	return true, nil
}

func (r *StoreRepo) load(ctx context.Context, name string, dst any) error {
	data, err := r.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load %s: %w: %v", name, biddingerrors.ErrStore, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if name != store.Auction && data[0] != '[' {
		return fmt.Errorf("decode %s: %w: %w", name, biddingerrors.ErrStore, errNotArray)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w: %w", name, biddingerrors.ErrStore, err)
	}
	return nil
}

// errNotArray marks a list collection whose document is not a JSON array
var errNotArray = errors.New("collection is not an array")

func encode(name string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w: %v", name, biddingerrors.ErrStore, err)
	}
	return data, nil
}
