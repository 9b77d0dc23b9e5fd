package feed_test

import (
	"testing"

	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/model"
	apperrors "go-gin-seat-map/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSeatUpdate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		update, err := feed.DecodeSeatUpdate([]byte(`{"id":"A-1-001","status":"sold"}`))

		require.NoError(t, err)
		assert.Equal(t, model.SeatUpdate{ID: "A-1-001", Status: model.SeatStatusSold}, update)
	})

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"unparseable", `{"id":`, apperrors.ErrInvalidInput},
		{"unknown status", `{"id":"A-1-001","status":"gone"}`, apperrors.ErrInvalidSeatStatus},
		{"missing status", `{"id":"A-1-001"}`, apperrors.ErrInvalidSeatStatus},
		{"missing id", `{"status":"held"}`, apperrors.ErrInvalidInput},
		{"wrong type", `{"id":1,"status":"held"}`, apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run("Failed - "+tt.name, func(t *testing.T) {
			_, err := feed.DecodeSeatUpdate([]byte(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncodeSeatUpdate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		payload, err := feed.EncodeSeatUpdate(model.SeatUpdate{ID: "s1", Status: model.SeatStatusHeld})

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"s1","status":"held"}`, string(payload))
	})

	t.Run("Failed - invalid status", func(t *testing.T) {
		_, err := feed.EncodeSeatUpdate(model.SeatUpdate{ID: "s1", Status: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidSeatStatus)
	})
}
