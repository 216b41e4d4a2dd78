package handler

import (
	"net/http"
	"time"

	model "auction-coordinator/internal/models"
	"auction-coordinator/services/bidding/helpers"
	"auction-coordinator/utils"

	"github.com/gin-gonic/gin"
)

// OpenAuctionHandler handles POST /auction/openAll
func (h *BiddingHandler) OpenAuctionHandler(c *gin.Context) {
	startTime, err := h.service.OpenAuction(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "OpenAuctionHandler", err, nil)
		return
	}

	resp := helpers.OpenAuctionResponse{
		Auction:   helpers.AuctionOpenLabel,
		StartTime: startTime.UTC().Format(time.RFC3339Nano),
	}
	utils.JSONResponse(c, http.StatusOK, resp)
	helpers.LogSuccess("OpenAuctionHandler", "auction opened", map[string]any{"start_time": resp.StartTime})
}

// CloseAuctionHandler handles POST /auction/closeAll
func (h *BiddingHandler) CloseAuctionHandler(c *gin.Context) {
	results, err := h.service.CloseAuction(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "CloseAuctionHandler", err, nil)
		return
	}
	if results == nil {
		results = []model.SaleResult{}
	}

	utils.JSONResponse(c, http.StatusOK, helpers.CloseAuctionResponse{
		Auction: helpers.AuctionClosedLabel,
		Results: results,
	})
	helpers.LogSuccess("CloseAuctionHandler", "auction closed", map[string]any{"items_sold": len(results)})
}

// AuctionStatusHandler handles GET /auction
func (h *BiddingHandler) AuctionStatusHandler(c *gin.Context) {
	auction, err := h.service.AuctionStatus(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "AuctionStatusHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction)
}
