package helpers

import model "auction-coordinator/internal/models"

// Auction state labels reported by the lifecycle endpoints
const (
	AuctionOpenLabel   = "abierta"
	AuctionClosedLabel = "cerrada"
)

// Request/Response DTOs
type RegisterRequest struct {
	Name string `json:"name"`
}

// PlaceBidRequest leaves amount unvalidated; a closed auction must reject
// the bid before the amount is judged. Bodies that fail to bind are checked
// against the auction state by the handler for the same reason.
type PlaceBidRequest struct {
	UserID int   `json:"userId" binding:"required"`
	Amount int64 `json:"amount"`
}

type OpenAuctionResponse struct {
	Auction   string `json:"auction"`
	StartTime string `json:"startTime"`
}

type CloseAuctionResponse struct {
	Auction string             `json:"auction"`
	Results []model.SaleResult `json:"results"`
}
