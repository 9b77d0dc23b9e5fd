package seatmap

import "go-gin-seat-map/internal/model"

// FlattenSeats lists every seat with its section and row in traversal order.
func FlattenSeats(venue model.Venue) []model.SelectionSummary {
	list := make([]model.SelectionSummary, 0, venue.SeatCount())
	for _, section := range venue.Sections {
		for _, row := range section.Rows {
			for _, seat := range row.Seats {
				list = append(list, model.SelectionSummary{Seat: seat, Section: section, Row: row})
			}
		}
	}
	return list
}

// Summarize resolves ids against venue in selection order. Ids that are not
// in the venue are skipped, so a persisted selection that outlived its
// seats is tolerated.
func Summarize(venue model.Venue, idx SeatIndex, ids []string) []model.SelectionSummary {
	summaries := make([]model.SelectionSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := idx.Lookup(venue, id); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries
}
