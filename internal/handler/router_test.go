package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-gin-seat-map/internal/cache"
	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/handler"
	"go-gin-seat-map/internal/service"
	"go-gin-seat-map/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRouter_Flow drives the API end to end: a seat is selected, then sold
// through the feed, after which the selection still holds it until an
// explicit reconcile.
func TestRouter_Flow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	gin.SetMode(gin.TestMode)

	venues, err := service.NewGeneratedVenueService(3, 4, 10*time.Second)
	require.NoError(t, err)
	selections := service.NewSelectionService(venues, cache.NewMemorySessionStore(), 8)
	seatFeed := feed.NewMemorySeatFeed(8)
	require.NoError(t, worker.NewSeatUpdateWorker(venues, seatFeed).Start(ctx))
	router := handler.NewRouter(venues, selections, seatFeed)

	do := func(method, url string, body interface{}) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest(method, url, body))
		return w
	}

	w := do(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, decodeBody(w.Body, &created))
	base := "/api/v1/sessions/" + created.SessionID

	w = do(http.MethodPost, base+"/selection/toggle", handler.ToggleSeatRequest{SeatID: "A-1-002"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(http.MethodPost, "/api/v1/venue/seat-updates", handler.SeatUpdateRequest{ID: "A-1-002", Status: "sold"})
	require.Equal(t, http.StatusAccepted, w.Code)

	assert.Eventually(t, func() bool {
		seat, err := venues.Lookup("A-1-002")
		return err == nil && !seat.Seat.IsAvailable()
	}, 2*time.Second, 10*time.Millisecond)

	w = do(http.MethodGet, "/api/v1/venue/updates/recent", nil)
	assert.JSONEq(t, `{"seatIds":["A-1-002"]}`, w.Body.String())

	var selection handler.SelectionResponse
	w = do(http.MethodGet, base+"/selection", nil)
	require.NoError(t, decodeBody(w.Body, &selection))
	assert.Equal(t, []string{"A-1-002"}, selection.SeatIDs)

	w = do(http.MethodPost, base+"/selection/toggle", handler.ToggleSeatRequest{SeatID: "A-1-003"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(http.MethodPost, base+"/selection/reconcile", nil)
	require.NoError(t, decodeBody(w.Body, &selection))
	assert.Equal(t, []string{"A-1-003"}, selection.SeatIDs)

	w = do(http.MethodPost, base+"/selection/adjacent", handler.SelectAdjacentRequest{Count: 4})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, decodeBody(w.Body, &selection))
	assert.Equal(t, []string{"A-2-001", "A-2-002", "A-2-003", "A-2-004"}, selection.SeatIDs)
	assert.Equal(t, "320", selection.Subtotal.String())

	w = do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
