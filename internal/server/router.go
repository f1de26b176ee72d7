package server

import (
	handler "github.com/FireRedDev/ebayklon/services/catalog/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes of the REST backend
func SetupRouter(auctionService handler.AuctionServiceInterface, offerService handler.OfferServiceInterface, appName string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging
	Use(router)

	auctionHandler := handler.NewAuctionHandler(auctionService, appName)
	offerHandler := handler.NewOfferHandler(offerService, appName)

	router.GET("/health", HealthHandler)

	api := router.Group("/api")

	auctions := api.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:id", auctionHandler.GetAuctionHandler)
		auctions.PUT("/:id", auctionHandler.UpdateAuctionHandler)
		auctions.PATCH("/:id", auctionHandler.PatchAuctionHandler)
		auctions.DELETE("/:id", auctionHandler.DeleteAuctionHandler)
	}

	offers := api.Group("/offers")
	{
		offers.POST("", offerHandler.CreateOfferHandler)
		offers.GET("", offerHandler.ListOffersHandler)
		offers.GET("/:id", offerHandler.GetOfferHandler)
		offers.PUT("/:id", offerHandler.UpdateOfferHandler)
		offers.PATCH("/:id", offerHandler.PatchOfferHandler)
		offers.DELETE("/:id", offerHandler.DeleteOfferHandler)
	}

	return router
}
