package handler

import (
	"net/http"

	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/service"

	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	service service.VenueService
	feed    feed.SeatFeed
}

func NewVenueHandler(service service.VenueService, seatFeed feed.SeatFeed) *VenueHandler {
	return &VenueHandler{service: service, feed: seatFeed}
}

func (h *VenueHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/venue")
	{
		router.GET("", h.GetVenue)
		router.GET("seats", h.ListSeats)
		router.GET("adjacent", h.FindAdjacent)
		router.GET("updates/recent", h.RecentUpdates)
		router.POST("seat-updates", h.PublishSeatUpdate)
	}
}

// AdjacentQuery 相鄰座位查詢
type AdjacentQuery struct {
	Count int `form:"count"`
}

// SeatUpdateRequest 座位狀態推播
type SeatUpdateRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	venue, err := h.service.Snapshot()
	if err != nil {
		handleError(c, err, "GetVenue")
		return
	}
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) ListSeats(c *gin.Context) {
	seats, err := h.service.Seats()
	if err != nil {
		handleError(c, err, "ListSeats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": toSeatViews(seats)})
}

func (h *VenueHandler) FindAdjacent(c *gin.Context) {
	var query AdjacentQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	block, err := h.service.FindAdjacent(query.Count)
	if err != nil {
		handleError(c, err, "FindAdjacent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": toSeatViews(block)})
}

func (h *VenueHandler) RecentUpdates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"seatIds": h.service.RecentlyUpdated()})
}

// PublishSeatUpdate only enqueues the update; the worker applies it.
func (h *VenueHandler) PublishSeatUpdate(c *gin.Context) {
	var req SeatUpdateRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	status, err := model.ParseSeatStatus(req.Status)
	if err != nil {
		handleError(c, err, "PublishSeatUpdate")
		return
	}
	update := model.SeatUpdate{ID: req.ID, Status: status}
	if err := h.feed.Publish(c.Request.Context(), update); err != nil {
		handleError(c, err, "PublishSeatUpdate")
		return
	}
	c.JSON(http.StatusAccepted, update)
}
