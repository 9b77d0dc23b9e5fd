package seatmap

import (
	"slices"

	"go-gin-seat-map/internal/model"
)

// SeatPosition addresses a seat by slice positions: venue.Sections[Section].Rows[Row].Seats[Seat].
type SeatPosition struct {
	Section int
	Row     int
	Seat    int
}

// SeatIndex maps seat ids to their position. Status updates never move
// seats, so an index built once stays valid for every snapshot derived from
// the same layout.
type SeatIndex map[string]SeatPosition

// BuildSeatIndex indexes every seat of venue. If an id repeats, the first
// occurrence in traversal order wins.
func BuildSeatIndex(venue model.Venue) SeatIndex {
	idx := make(SeatIndex, venue.SeatCount())
	for si, section := range venue.Sections {
		for ri, row := range section.Rows {
			for ci, seat := range row.Seats {
				if _, ok := idx[seat.ID]; ok {
					continue
				}
				idx[seat.ID] = SeatPosition{Section: si, Row: ri, Seat: ci}
			}
		}
	}
	return idx
}

// resolve checks that pos still points at id inside venue.
func (idx SeatIndex) resolve(venue model.Venue, id string) (SeatPosition, bool) {
	pos, ok := idx[id]
	if !ok {
		return SeatPosition{}, false
	}
	if pos.Section >= len(venue.Sections) {
		return SeatPosition{}, false
	}
	section := venue.Sections[pos.Section]
	if pos.Row >= len(section.Rows) {
		return SeatPosition{}, false
	}
	row := section.Rows[pos.Row]
	if pos.Seat >= len(row.Seats) || row.Seats[pos.Seat].ID != id {
		return SeatPosition{}, false
	}
	return pos, true
}

// Lookup returns the seat with its section and row.
func (idx SeatIndex) Lookup(venue model.Venue, id string) (model.SelectionSummary, bool) {
	pos, ok := idx.resolve(venue, id)
	if !ok {
		return model.SelectionSummary{}, false
	}
	section := venue.Sections[pos.Section]
	row := section.Rows[pos.Row]
	return model.SelectionSummary{Seat: row.Seats[pos.Seat], Section: section, Row: row}, true
}

// Apply is the indexed form of ApplySeatUpdate: it rebuilds only the path to
// the indexed seat without scanning the venue. It reports whether a seat
// changed. Ids the index does not know, or that no longer sit at their
// indexed position, leave venue unchanged.
func (idx SeatIndex) Apply(venue model.Venue, update model.SeatUpdate) (model.Venue, bool) {
	pos, ok := idx.resolve(venue, update.ID)
	if !ok {
		return venue, false
	}
	if venue.Sections[pos.Section].Rows[pos.Row].Seats[pos.Seat].Status == update.Status {
		return venue, false
	}

	sections := slices.Clone(venue.Sections)
	rows := slices.Clone(sections[pos.Section].Rows)
	seats := slices.Clone(rows[pos.Row].Seats)

	seats[pos.Seat].Status = update.Status
	rows[pos.Row].Seats = seats
	sections[pos.Section].Rows = rows

	venue.Sections = sections
	return venue, true
}
