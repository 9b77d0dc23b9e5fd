package seatmap_test

import (
	"fmt"

	"go-gin-seat-map/internal/model"
)

func seat(id string, col int, status model.SeatStatus) model.Seat {
	return model.Seat{ID: id, Col: col, X: float64(col * 30), Y: 40, PriceTier: 1, Status: status}
}

// rowOf builds a row with seats at the given columns, all available unless listed in blocked.
func rowOf(section string, index int, cols []int, blocked map[int]model.SeatStatus) model.Row {
	seats := make([]model.Seat, 0, len(cols))
	for _, c := range cols {
		status := model.SeatStatusAvailable
		if s, ok := blocked[c]; ok {
			status = s
		}
		seats = append(seats, seat(fmt.Sprintf("%s-%d-%03d", section, index, c), c, status))
	}
	return model.Row{Index: index, Seats: seats}
}

func venueOf(sections ...model.Section) model.Venue {
	return model.Venue{
		VenueID:  "v",
		Name:     "demo",
		Map:      model.MapExtent{Width: 400, Height: 300},
		Sections: sections,
	}
}

func sectionOf(id string, rows ...model.Row) model.Section {
	return model.Section{
		ID:        id,
		Label:     "Section " + id,
		Transform: model.Transform{X: 0, Y: 0, Scale: 1},
		Rows:      rows,
	}
}

func cols(summaries []model.SelectionSummary) []int {
	out := make([]int, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.Seat.Col)
	}
	return out
}
