package seatmap

import (
	"slices"

	"go-gin-seat-map/internal/model"
)

// ApplySeatUpdate returns a venue equal to venue except that every seat whose
// id matches update.ID carries update.Status.
//
// Only the slices on the path to a changed seat are copied; untouched
// sections, rows and seats share their backing arrays with the input. The
// input is never written to. When no seat matches, or the matching seat
// already has the new status, venue is returned as is.
//
// Duplicate seat ids violate the venue invariants; if they occur anyway all
// matches are updated.
func ApplySeatUpdate(venue model.Venue, update model.SeatUpdate) model.Venue {
	var sections []model.Section

	for si, section := range venue.Sections {
		var rows []model.Row

		for ri, row := range section.Rows {
			var seats []model.Seat

			for ci, seat := range row.Seats {
				if seat.ID != update.ID || seat.Status == update.Status {
					continue
				}
				if seats == nil {
					seats = slices.Clone(row.Seats)
				}
				seats[ci].Status = update.Status
			}

			if seats == nil {
				continue
			}
			if rows == nil {
				rows = slices.Clone(section.Rows)
			}
			rows[ri].Seats = seats
		}

		if rows == nil {
			continue
		}
		if sections == nil {
			sections = slices.Clone(venue.Sections)
		}
		sections[si].Rows = rows
	}

	if sections == nil {
		return venue
	}
	venue.Sections = sections
	return venue
}
