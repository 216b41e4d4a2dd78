package server

import (
	"net/http"

	handler "auction-coordinator/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService handler.BiddingServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	users := router.Group("/users")
	{
		users.GET("", biddingHandler.ListUsersHandler)
		users.POST("/register", biddingHandler.RegisterHandler)
		users.GET("/:id", biddingHandler.GetUserHandler)
	}

	items := router.Group("/items")
	{
		items.GET("", biddingHandler.ListItemsHandler)
		items.POST("/:id/bid", biddingHandler.PlaceBidHandler)
	}

	auction := router.Group("/auction")
	{
		auction.GET("", biddingHandler.AuctionStatusHandler)
		auction.POST("/openAll", biddingHandler.OpenAuctionHandler)
		auction.POST("/closeAll", biddingHandler.CloseAuctionHandler)
	}

	return router
}
