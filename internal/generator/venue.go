// Package generator builds venues procedurally so demos and stress runs do
// not need a large venue file.
package generator

import (
	"fmt"

	"go-gin-seat-map/internal/model"
)

const (
	DefaultRows  = 15
	DefaultCols  = 10
	seatSpacing  = 30
	mapPadding   = 100
	seatOffsetX  = 50
	seatOffsetY  = 40
	defaultID    = "arena-150"
	defaultName  = "Metropolis Arena"
	sectionLabel = "Lower Bowl"
)

type Options struct {
	Rows     int
	Cols     int
	Sections int
}

// GenerateVenue builds a single-section venue of rows × cols available
// seats. Non-positive sizes fall back to the 15 × 10 demo venue.
func GenerateVenue(rows, cols int) model.Venue {
	return Generate(Options{Rows: rows, Cols: cols, Sections: 1})
}

// Generate builds a venue with opts.Sections identical sections laid out
// left to right. Seat ids follow "<section>-<row>-<col:03d>". The front
// third of rows is tier 1, the middle third tier 2 and the rest tier 3.
func Generate(opts Options) model.Venue {
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Sections <= 0 {
		opts.Sections = 1
	}

	sectionWidth := float64(opts.Cols*seatSpacing + mapPadding)
	sections := make([]model.Section, 0, opts.Sections)
	for s := 0; s < opts.Sections; s++ {
		id := sectionID(s)
		rows := make([]model.Row, 0, opts.Rows)
		for r := 0; r < opts.Rows; r++ {
			rows = append(rows, buildRow(id, r, opts.Cols, opts.Rows))
		}
		sections = append(sections, model.Section{
			ID:        id,
			Label:     fmt.Sprintf("%s %s", sectionLabel, id),
			Transform: model.Transform{X: float64(s) * sectionWidth, Y: 0, Scale: 1},
			Rows:      rows,
		})
	}

	return model.Venue{
		VenueID: defaultID,
		Name:    defaultName,
		Map: model.MapExtent{
			Width:  sectionWidth * float64(opts.Sections),
			Height: float64(opts.Rows*seatSpacing + mapPadding),
		},
		Sections: sections,
	}
}

func buildRow(section string, index, cols, totalRows int) model.Row {
	seats := make([]model.Seat, 0, cols)
	for c := 0; c < cols; c++ {
		seats = append(seats, model.Seat{
			ID:        fmt.Sprintf("%s-%d-%03d", section, index+1, c+1),
			Col:       c + 1,
			X:         float64(c*seatSpacing + seatOffsetX),
			Y:         float64(index*seatSpacing + seatOffsetY),
			PriceTier: tierFor(index, totalRows),
			Status:    model.SeatStatusAvailable,
		})
	}
	return model.Row{Index: index + 1, Seats: seats}
}

func tierFor(index, totalRows int) int {
	switch {
	case index*3 < totalRows:
		return 1
	case index*3 < 2*totalRows:
		return 2
	default:
		return 3
	}
}

// sectionID maps 0 → "A", 25 → "Z", 26 → "AA".
func sectionID(n int) string {
	id := ""
	for n >= 0 {
		id = string(rune('A'+n%26)) + id
		n = n/26 - 1
	}
	return id
}
