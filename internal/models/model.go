package models

import "time"

// InitialBalance is the balance every newly registered user starts with
const InitialBalance int64 = 1000

// BidEntry is one accepted bid in a user's history
type BidEntry struct {
	ItemID int   `json:"itemId"`
	Amount int64 `json:"amount"`
}

// User represents a participant in the auction
type User struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Balance int64      `json:"balance"`
	Bids    []BidEntry `json:"bids"`
}

// Item represents an auction item
type Item struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	BasePrice     int64   `json:"basePrice"`
	HighestBid    int64   `json:"highestBid"`
	HighestBidder *string `json:"highestBidder"`
	Sold          bool    `json:"sold"`
}

// LedBy reports whether the named user currently leads the item
func (i Item) LedBy(name string) bool {
	return i.HighestBidder != nil && *i.HighestBidder == name
}

// Auction is the singleton state of the global auction window
type Auction struct {
	IsOpen    bool       `json:"isOpen"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// RegisteredUser is the public view returned on registration
type RegisteredUser struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// UserView is a user with the balance reported as available balance
type UserView struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Balance int64      `json:"balance"`
	Bids    []BidEntry `json:"bids"`
}

// BidResult describes the new standing of an item after an accepted bid
type BidResult struct {
	ItemID        int    `json:"itemId"`
	HighestBid    int64  `json:"highestBid"`
	HighestBidder string `json:"highestBidder"`
}

// SaleResult is one settled item in the close report
type SaleResult struct {
	ItemID   int    `json:"itemId"`
	Item     string `json:"item"`
	Winner   string `json:"winner"`
	FinalBid int64  `json:"finalBid"`
}
