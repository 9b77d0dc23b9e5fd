// Package seatmap holds the pure operations over a venue snapshot: adjacency
// search, immutable seat updates and bounded selection maintenance.
//
// None of the functions here block or mutate their inputs.
package seatmap

import (
	"slices"

	"go-gin-seat-map/internal/model"
	apperrors "go-gin-seat-map/pkg/app_errors"
)

// FindAdjacentSeats returns the first run of n side-by-side available seats.
//
// Sections and rows are visited in stored order; seats within a row are
// visited by ascending column. A run is valid when every seat is available
// and each column is exactly one more than the previous one. Each row is
// scanned once, so the search is linear in the number of seats.
//
// It returns ErrInvalidSeatCount when n <= 0 and ErrAdjacentSeatsNotFound
// when no row holds a qualifying run.
func FindAdjacentSeats(sections []model.Section, n int) ([]model.SelectionSummary, error) {
	if n <= 0 {
		return nil, apperrors.ErrInvalidSeatCount
	}

	for _, section := range sections {
		for _, row := range section.Rows {
			if len(row.Seats) < n {
				continue
			}
			seats := sortedByCol(row.Seats)
			end := findRun(seats, n)
			if end < 0 {
				continue
			}
			block := make([]model.SelectionSummary, 0, n)
			for _, seat := range seats[end-n+1 : end+1] {
				block = append(block, model.SelectionSummary{Seat: seat, Section: section, Row: row})
			}
			return block, nil
		}
	}
	return nil, apperrors.ErrAdjacentSeatsNotFound
}

// findRun returns the index of the last seat of the first qualifying run, or -1.
func findRun(seats []model.Seat, n int) int {
	run := 0
	for i, seat := range seats {
		switch {
		case !seat.IsAvailable():
			run = 0
			continue
		case run > 0 && seat.Col == seats[i-1].Col+1:
			run++
		default:
			run = 1
		}
		if run == n {
			return i
		}
	}
	return -1
}

// sortedByCol returns a column-ordered copy; the row's own slice is left untouched.
func sortedByCol(seats []model.Seat) []model.Seat {
	sorted := slices.Clone(seats)
	slices.SortStableFunc(sorted, func(a, b model.Seat) int { return a.Col - b.Col })
	return sorted
}
