// Package events publishes auction domain events to a message broker.
// Publishing happens after the ledger is committed; failures are logged
// by callers and never roll back an accepted operation.
package events

import (
	"context"
	"time"

	model "auction-coordinator/internal/models"
	"auction-coordinator/utils"
)

//go:generate mockgen -destination=mock_publisher.go -package=events auction-coordinator/internal/events Publisher

// EventType is the routing key of an event
type EventType string

const (
	EventTypeAuctionOpened EventType = "auction.opened"
	EventTypeBidPlaced     EventType = "bid.placed"
	EventTypeAuctionClosed EventType = "auction.closed"
)

// String returns the string representation of the event type
func (e EventType) String() string {
	return string(e)
}

// Event is the JSON envelope sent to the broker
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// AuctionOpenedPayload is carried by auction.opened
type AuctionOpenedPayload struct {
	StartTime time.Time `json:"startTime"`
}

// BidPlacedPayload is carried by bid.placed
type BidPlacedPayload struct {
	UserID int `json:"userId"`
	model.BidResult
}

// AuctionClosedPayload is carried by auction.closed
type AuctionClosedPayload struct {
	EndTime time.Time          `json:"endTime"`
	Results []model.SaleResult `json:"results"`
}

// Publisher sends events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

func newEvent(t EventType, payload any) Event {
	return Event{
		ID:         utils.GenerateID(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// NewAuctionOpened builds an auction.opened event
func NewAuctionOpened(startTime time.Time) Event {
	return newEvent(EventTypeAuctionOpened, AuctionOpenedPayload{StartTime: startTime})
}

// NewBidPlaced builds a bid.placed event
func NewBidPlaced(userID int, result model.BidResult) Event {
	return newEvent(EventTypeBidPlaced, BidPlacedPayload{UserID: userID, BidResult: result})
}

// NewAuctionClosed builds an auction.closed event with the settlement results
func NewAuctionClosed(endTime time.Time, results []model.SaleResult) Event {
	if results == nil {
		results = []model.SaleResult{}
	}
	return newEvent(EventTypeAuctionClosed, AuctionClosedPayload{EndTime: endTime, Results: results})
}

// LogPublisher writes events to the application log. It is used when no broker is configured.
type LogPublisher struct{}

// Publish logs the event at info level
func (LogPublisher) Publish(_ context.Context, event Event) error {
	utils.Info("event published", map[string]any{
		"event_id":   event.ID,
		"event_type": event.Type.String(),
		"payload":    event.Payload,
	})
	return nil
}
