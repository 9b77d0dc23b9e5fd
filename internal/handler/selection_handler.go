package handler

import (
	"net/http"

	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SelectionHandler struct {
	service service.SelectionService
}

func NewSelectionHandler(service service.SelectionService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

func (h *SelectionHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/sessions")
	{
		router.POST("", h.CreateSession)
		router.GET(":id/selection", h.GetSelection)
		router.POST(":id/selection/toggle", h.ToggleSeat)
		router.POST(":id/selection/adjacent", h.SelectAdjacent)
		router.POST(":id/selection/reconcile", h.Reconcile)
		router.DELETE(":id/selection", h.ClearSelection)
		router.GET(":id/theme", h.GetTheme)
		router.PUT(":id/theme", h.SetTheme)
	}
}

// ToggleSeatRequest 切換座位
type ToggleSeatRequest struct {
	SeatID string `json:"seatId" binding:"required"`
}

// SelectAdjacentRequest 選取相鄰座位
type SelectAdjacentRequest struct {
	Count int `json:"count"`
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

type SelectionResponse struct {
	SessionID string          `json:"sessionId"`
	SeatIDs   []string        `json:"seatIds"`
	Seats     []SeatView      `json:"seats"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type ThemeResponse struct {
	SessionID string      `json:"sessionId"`
	Theme     model.Theme `json:"theme"`
}

func toSelectionResponse(view *service.SelectionView) SelectionResponse {
	return SelectionResponse{
		SessionID: view.SessionID,
		SeatIDs:   view.SeatIDs,
		Seats:     toSeatViews(view.Seats),
		Subtotal:  view.Subtotal,
	}
}

func (h *SelectionHandler) CreateSession(c *gin.Context) {
	sessionID, err := h.service.NewSession(c.Request.Context())
	if err != nil {
		handleError(c, err, "CreateSession")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionId": sessionID})
}

func (h *SelectionHandler) GetSelection(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), sessionID)
	if err != nil {
		handleError(c, err, "GetSelection")
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(view))
}

func (h *SelectionHandler) ToggleSeat(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	var req ToggleSeatRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	view, err := h.service.Toggle(c.Request.Context(), sessionID, req.SeatID)
	if err != nil {
		handleError(c, err, "ToggleSeat")
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(view))
}

func (h *SelectionHandler) SelectAdjacent(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	var req SelectAdjacentRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	view, err := h.service.SelectAdjacent(c.Request.Context(), sessionID, req.Count)
	if err != nil {
		handleError(c, err, "SelectAdjacent")
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(view))
}

func (h *SelectionHandler) Reconcile(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	view, err := h.service.Reconcile(c.Request.Context(), sessionID)
	if err != nil {
		handleError(c, err, "Reconcile")
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(view))
}

func (h *SelectionHandler) ClearSelection(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	view, err := h.service.Clear(c.Request.Context(), sessionID)
	if err != nil {
		handleError(c, err, "ClearSelection")
		return
	}
	c.JSON(http.StatusOK, toSelectionResponse(view))
}

func (h *SelectionHandler) GetTheme(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	theme, err := h.service.Theme(c.Request.Context(), sessionID)
	if err != nil {
		handleError(c, err, "GetTheme")
		return
	}
	c.JSON(http.StatusOK, ThemeResponse{SessionID: sessionID, Theme: theme})
}

func (h *SelectionHandler) SetTheme(c *gin.Context) {
	sessionID, ok := bindSession(c)
	if !ok {
		return
	}
	var req ThemeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	theme, err := h.service.SetTheme(c.Request.Context(), sessionID, model.Theme(req.Theme))
	if err != nil {
		handleError(c, err, "SetTheme")
		return
	}
	c.JSON(http.StatusOK, ThemeResponse{SessionID: sessionID, Theme: theme})
}
