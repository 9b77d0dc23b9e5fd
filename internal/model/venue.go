package model

import (
	"fmt"

	apperrors "go-gin-seat-map/pkg/app_errors"
)

type MapExtent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform places a section on the map. Only presentation code reads it.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Row groups seats sharing a 1-based index. Seats keep creation order and
// are not guaranteed to be sorted by column.
type Row struct {
	Index int    `json:"index"`
	Seats []Seat `json:"seats"`
}

type Section struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Transform Transform `json:"transform"`
	Rows      []Row     `json:"rows"`
}

// Venue is an immutable snapshot. Code that derives a new snapshot must copy
// the slices it changes and never write through the old ones.
type Venue struct {
	VenueID  string    `json:"venueId"`
	Name     string    `json:"name"`
	Map      MapExtent `json:"map"`
	Sections []Section `json:"sections"`
}

// SelectionSummary joins a seat with its owning section and row.
type SelectionSummary struct {
	Seat    Seat    `json:"seat"`
	Section Section `json:"section"`
	Row     Row     `json:"row"`
}

// SeatCount returns the total number of seats in the venue.
func (v *Venue) SeatCount() int {
	n := 0
	for _, section := range v.Sections {
		for _, row := range section.Rows {
			n += len(row.Seats)
		}
	}
	return n
}

// Validate checks the structural invariants of the seat hierarchy:
// unique section ids, unique row indices per section, unique columns per row,
// unique seat ids across the venue, positive price tiers and known statuses.
func (v *Venue) Validate() error {
	sectionIDs := make(map[string]struct{}, len(v.Sections))
	seatIDs := make(map[string]struct{})

	for _, section := range v.Sections {
		if _, dup := sectionIDs[section.ID]; dup {
			return fmt.Errorf("%w: duplicate section id %q", apperrors.ErrInvalidVenue, section.ID)
		}
		sectionIDs[section.ID] = struct{}{}

		rowIndices := make(map[int]struct{}, len(section.Rows))
		for _, row := range section.Rows {
			if _, dup := rowIndices[row.Index]; dup {
				return fmt.Errorf("%w: duplicate row %d in section %q", apperrors.ErrInvalidVenue, row.Index, section.ID)
			}
			rowIndices[row.Index] = struct{}{}

			cols := make(map[int]struct{}, len(row.Seats))
			for _, seat := range row.Seats {
				if _, dup := cols[seat.Col]; dup {
					return fmt.Errorf("%w: duplicate column %d in section %q row %d", apperrors.ErrInvalidVenue, seat.Col, section.ID, row.Index)
				}
				cols[seat.Col] = struct{}{}

				if _, dup := seatIDs[seat.ID]; dup {
					return fmt.Errorf("%w: duplicate seat id %q", apperrors.ErrInvalidVenue, seat.ID)
				}
				seatIDs[seat.ID] = struct{}{}

				if seat.PriceTier < 1 {
					return fmt.Errorf("%w: seat %q has price tier %d", apperrors.ErrInvalidVenue, seat.ID, seat.PriceTier)
				}
				if !seat.Status.IsValid() {
					return fmt.Errorf("%w: seat %q has status %q", apperrors.ErrInvalidVenue, seat.ID, seat.Status)
				}
			}
		}
	}
	return nil
}
