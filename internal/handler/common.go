package handler

import (
	"errors"
	"net/http"

	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/pricing"
	apperrors "go-gin-seat-map/pkg/app_errors"
	"go-gin-seat-map/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// SessionUri binds the :id segment of the session routes.
type SessionUri struct {
	ID string `uri:"id" binding:"required,uuid"`
}

func bindSession(c *gin.Context) (string, bool) {
	var uri SessionUri
	if err := BindUri(c, &uri); err != nil {
		return "", false
	}
	return uuid.MustParse(uri.ID).String(), true
}

// SeatView is the flat wire shape of a seat with its section and row.
type SeatView struct {
	ID           string           `json:"id"`
	SectionID    string           `json:"sectionId"`
	SectionLabel string           `json:"sectionLabel"`
	Row          int              `json:"row"`
	Col          int              `json:"col"`
	X            float64          `json:"x"`
	Y            float64          `json:"y"`
	PriceTier    int              `json:"priceTier"`
	Price        decimal.Decimal  `json:"price"`
	Status       model.SeatStatus `json:"status"`
}

func toSeatView(s model.SelectionSummary) SeatView {
	return SeatView{
		ID:           s.Seat.ID,
		SectionID:    s.Section.ID,
		SectionLabel: s.Section.Label,
		Row:          s.Row.Index,
		Col:          s.Seat.Col,
		X:            s.Seat.X,
		Y:            s.Seat.Y,
		PriceTier:    s.Seat.PriceTier,
		Price:        pricing.SeatPrice(s.Seat.PriceTier),
		Status:       s.Seat.Status,
	}
}

func toSeatViews(summaries []model.SelectionSummary) []SeatView {
	views := make([]SeatView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, toSeatView(s))
	}
	return views
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidSeatCount):
		log.Warn("Invalid seat count")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seat count must be greater than zero"})
	case errors.Is(err, apperrors.ErrSelectionTooLarge):
		log.Warn("Selection too large")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selection exceeds the seat limit"})
	case errors.Is(err, apperrors.ErrInvalidSeatStatus):
		log.Warn("Invalid seat status")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seat status"})
	case errors.Is(err, apperrors.ErrInvalidTheme):
		log.Warn("Invalid theme")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrSeatNotFound):
		log.Warn("Seat not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Seat not found"})
	case errors.Is(err, apperrors.ErrAdjacentSeatsNotFound):
		log.Info("No adjacent seats")
		c.JSON(http.StatusNotFound, gin.H{"error": "No block of adjacent seats available"})
	case errors.Is(err, apperrors.ErrVenueNotFound):
		log.Warn("Venue not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
	case errors.Is(err, apperrors.ErrSeatUnavailable):
		log.Warn("Seat unavailable")
		c.JSON(http.StatusConflict, gin.H{"error": "Seat not available"})
	case errors.Is(err, apperrors.ErrSelectionConflict):
		log.Warn("Selection conflict")
		c.JSON(http.StatusConflict, gin.H{"error": "Selection changed concurrently, retry"})
	case errors.Is(err, apperrors.ErrVenueNotLoaded):
		log.Error("Venue not loaded")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Venue not loaded"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
