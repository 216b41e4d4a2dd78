package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"auction-coordinator/internal/biddingerrors"
	model "auction-coordinator/internal/models"
	"auction-coordinator/services/bidding/helpers"
	"auction-coordinator/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_bidding_service.go -package=handler auction-coordinator/services/bidding/handler BiddingServiceInterface

type BiddingServiceInterface interface {
	Register(ctx context.Context, name string) (model.RegisteredUser, error)
	GetUser(ctx context.Context, id int) (model.UserView, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListItems(ctx context.Context, sortByHighestBid bool) ([]model.Item, error)
	PlaceBid(ctx context.Context, itemID, userID int, amount int64) (model.BidResult, error)
	OpenAuction(ctx context.Context) (time.Time, error)
	CloseAuction(ctx context.Context) ([]model.SaleResult, error)
	AuctionStatus(ctx context.Context) (model.Auction, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RegisterHandler handles POST /users/register
func (h *BiddingHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name)
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, user)
	helpers.LogSuccess("RegisterHandler", "user registered", map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
	})
}

// GetUserHandler handles GET /users/:id
func (h *BiddingHandler) GetUserHandler(c *gin.Context) {
	userID, ok := helpers.ParseIDParam(c, "GetUserHandler", "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, user)
}

// ListUsersHandler handles GET /users
func (h *BiddingHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		// this endpoint always answers with an array
		utils.Warn("ListUsersHandler: error retrieving users", map[string]any{"error": err.Error()})
		users = nil
	}
	if users == nil {
		users = []model.User{}
	}

	utils.JSONResponse(c, http.StatusOK, users)
}

// ListItemsHandler handles GET /items?sort=highestBid
func (h *BiddingHandler) ListItemsHandler(c *gin.Context) {
	sortByHighestBid := c.Query("sort") == "highestBid"

	items, err := h.service.ListItems(c.Request.Context(), sortByHighestBid)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err, "server error while listing items")
		utils.Error("ListItemsHandler: error retrieving items", map[string]any{"error": err.Error()})
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	utils.JSONResponse(c, http.StatusOK, items)
}

// PlaceBidHandler handles POST /items/:id/bid
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	itemID, ok := helpers.ParseIDParam(c, "PlaceBidHandler", "id")
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectMalformedBid(c, itemID, err)
		return
	}

	result, err := h.service.PlaceBid(c.Request.Context(), itemID, req.UserID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"item_id": itemID,
			"user_id": req.UserID,
			"amount":  req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, result)
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"item_id": result.ItemID,
		"bidder":  result.HighestBidder,
		"amount":  result.HighestBid,
	})
}

// rejectMalformedBid answers a bid whose body failed to bind. A closed
// auction rejects every bid, so that state wins over the payload error.
func (h *BiddingHandler) rejectMalformedBid(c *gin.Context, itemID int, bindErr error) {
	auction, err := h.service.AuctionStatus(c.Request.Context())
	if err == nil && !auction.IsOpen {
		helpers.RespondError(c, "PlaceBidHandler", fmt.Errorf("handler: %w", biddingerrors.ErrAuctionClosed), map[string]any{
			"item_id":    itemID,
			"bind_error": bindErr.Error(),
		})
		return
	}
	if err != nil {
		utils.Warn("PlaceBidHandler: could not check auction state", map[string]any{"error": err.Error()})
	}
	helpers.HandleBindError(c, "PlaceBidHandler", bindErr)
}
