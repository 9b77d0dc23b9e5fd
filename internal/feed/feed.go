// Package feed delivers seat status facts from the push channel to the
// venue store. Every transport shares the same Delivery shape and the same
// boundary decoder, so malformed payloads are rejected before they reach the
// applier.
package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"go-gin-seat-map/internal/model"
	apperrors "go-gin-seat-map/pkg/app_errors"
)

type Delivery struct {
	Data *model.SeatUpdate
	Ack  func()
	Nack func(requeue bool)
}

type SeatFeed interface {
	// Publish pushes one seat update onto the channel
	Publish(ctx context.Context, update model.SeatUpdate) error
	// Subscribe streams deliveries in arrival order until ctx is cancelled
	Subscribe(ctx context.Context) (<-chan Delivery, error)
	Close() error
}

type wireUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DecodeSeatUpdate parses a wire payload such as {"id":"A-1-001","status":"sold"}.
func DecodeSeatUpdate(payload []byte) (model.SeatUpdate, error) {
	var w wireUpdate
	if err := json.Unmarshal(payload, &w); err != nil {
		return model.SeatUpdate{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	status, err := model.ParseSeatStatus(w.Status)
	if err != nil {
		return model.SeatUpdate{}, err
	}
	update := model.SeatUpdate{ID: w.ID, Status: status}
	if err := update.Validate(); err != nil {
		return model.SeatUpdate{}, err
	}
	return update, nil
}

func EncodeSeatUpdate(update model.SeatUpdate) ([]byte, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(wireUpdate{ID: update.ID, Status: string(update.Status)})
}
