package handler

import (
	"net/http"

	"go-gin-seat-map/internal/pricing"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct{}

func NewPricingHandler() *PricingHandler {
	return &PricingHandler{}
}

func (h *PricingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/pricing")
	{
		router.GET("tiers", h.ListTiers)
		router.GET("tiers/:tier", h.GetTier)
	}
}

type TierUri struct {
	Tier int `uri:"tier"`
}

func (h *PricingHandler) ListTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": pricing.Tiers()})
}

// GetTier answers unknown tiers with a zero price rather than an error.
func (h *PricingHandler) GetTier(c *gin.Context) {
	var uri TierUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	c.JSON(http.StatusOK, pricing.Tier{Tier: uri.Tier, Price: pricing.SeatPrice(uri.Tier)})
}
