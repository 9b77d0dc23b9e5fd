package seatmap

import (
	"fmt"
	"slices"

	"go-gin-seat-map/internal/model"
	apperrors "go-gin-seat-map/pkg/app_errors"
)

// DefaultSelectionLimit is the number of seats a user may hold in a selection.
const DefaultSelectionLimit = 8

// ToggleSeat removes id when it is selected and appends it otherwise. A full
// selection is returned unchanged when id is not already in it.
//
// ToggleSeat does not look at seat status; callers only toggle seats they
// know to be available. The input slice is never modified.
func ToggleSeat(selection []string, id string, limit int) []string {
	if slices.Contains(selection, id) {
		return slices.DeleteFunc(slices.Clone(selection), func(s string) bool { return s == id })
	}
	if len(selection) >= limit {
		return selection
	}
	next := make([]string, len(selection), len(selection)+1)
	copy(next, selection)
	return append(next, id)
}

// ReplaceSelection swaps the whole selection for ids, bypassing toggle
// semantics. It is used after an adjacency search. A replacement larger than
// limit is a caller bug and is rejected with ErrSelectionTooLarge.
func ReplaceSelection(ids []string, limit int) ([]string, error) {
	if len(ids) > limit {
		return nil, fmt.Errorf("%w: %d seats, limit %d", apperrors.ErrSelectionTooLarge, len(ids), limit)
	}
	return slices.Clone(ids), nil
}

// SeatIDs extracts the seat ids of a block in order.
func SeatIDs(block []model.SelectionSummary) []string {
	ids := make([]string, 0, len(block))
	for _, s := range block {
		ids = append(ids, s.Seat.ID)
	}
	return ids
}

// ReconcileSelection drops ids that are missing from venue or no longer
// available. It is never called implicitly by toggles or updates.
func ReconcileSelection(selection []string, venue model.Venue) []string {
	status := make(map[string]model.SeatStatus, venue.SeatCount())
	for _, summary := range FlattenSeats(venue) {
		if _, ok := status[summary.Seat.ID]; !ok {
			status[summary.Seat.ID] = summary.Seat.Status
		}
	}

	kept := make([]string, 0, len(selection))
	for _, id := range selection {
		if s, ok := status[id]; ok && s == model.SeatStatusAvailable {
			kept = append(kept, id)
		}
	}
	return kept
}
