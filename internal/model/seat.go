package model

import (
	"fmt"
	"strings"

	apperrors "go-gin-seat-map/pkg/app_errors"
)

// SeatStatus seat lifecycle state
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusReserved  SeatStatus = "reserved"
	SeatStatusSold      SeatStatus = "sold"
	SeatStatusHeld      SeatStatus = "held"
)

// IsValid reports whether s is one of the four known statuses.
func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusReserved, SeatStatusSold, SeatStatusHeld:
		return true
	}
	return false
}

// ParseSeatStatus accepts the wire form case-insensitively.
func ParseSeatStatus(raw string) (SeatStatus, error) {
	s := SeatStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSeatStatus, raw)
	}
	return s, nil
}

// Seat is the smallest addressable unit. ID never changes after creation;
// Status is the only field an update touches.
type Seat struct {
	ID        string     `json:"id"`
	Col       int        `json:"col"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	PriceTier int        `json:"priceTier"`
	Status    SeatStatus `json:"status"`
}

func (s Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}

// SeatUpdate is an externally sourced fact about one seat's status.
type SeatUpdate struct {
	ID     string     `json:"id"`
	Status SeatStatus `json:"status"`
}

// Validate checks the update before it reaches the applier.
func (u SeatUpdate) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: empty seat id", apperrors.ErrInvalidInput)
	}
	if !u.Status.IsValid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidSeatStatus, u.Status)
	}
	return nil
}
