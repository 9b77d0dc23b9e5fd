package handler

import (
	"net/http"

	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/service"

	"github.com/gin-gonic/gin"
)

func NewRouter(venues service.VenueService, selections service.SelectionService, seatFeed feed.SeatFeed) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	NewVenueHandler(venues, seatFeed).RegisterRoutes(router)
	NewPricingHandler().RegisterRoutes(router)
	NewSelectionHandler(selections).RegisterRoutes(router)
	return router
}
