package seatmap_test

import (
	"testing"

	"go-gin-seat-map/internal/generator"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/seatmap"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deepCopy clones every level so later assertions can detect writes through shared slices.
func deepCopy(v model.Venue) model.Venue {
	out := v
	out.Sections = make([]model.Section, len(v.Sections))
	for si, section := range v.Sections {
		out.Sections[si] = section
		out.Sections[si].Rows = make([]model.Row, len(section.Rows))
		for ri, row := range section.Rows {
			out.Sections[si].Rows[ri] = row
			out.Sections[si].Rows[ri].Seats = append([]model.Seat(nil), row.Seats...)
		}
	}
	return out
}

func singleSeatVenue() model.Venue {
	return venueOf(sectionOf("A", model.Row{Index: 1, Seats: []model.Seat{
		{ID: "s1", Col: 1, X: 0, Y: 0, PriceTier: 1, Status: model.SeatStatusAvailable},
	}}))
}

func TestApplySeatUpdate(t *testing.T) {
	t.Run("Success - status replaced, original untouched", func(t *testing.T) {
		venue := singleSeatVenue()

		updated := seatmap.ApplySeatUpdate(venue, model.SeatUpdate{ID: "s1", Status: model.SeatStatusSold})

		got := updated.Sections[0].Rows[0].Seats[0]
		assert.Equal(t, model.SeatStatusSold, got.Status)
		want := venue.Sections[0].Rows[0].Seats[0]
		want.Status = model.SeatStatusSold
		assert.Equal(t, want, got)
		assert.Equal(t, model.SeatStatusAvailable, venue.Sections[0].Rows[0].Seats[0].Status)
	})

	t.Run("Success - unknown id is a no-op", func(t *testing.T) {
		venue := generator.GenerateVenue(5, 5)
		before := deepCopy(venue)

		updated := seatmap.ApplySeatUpdate(venue, model.SeatUpdate{ID: "unknown", Status: model.SeatStatusSold})

		assert.Empty(t, cmp.Diff(before, updated))
		assert.Empty(t, cmp.Diff(before, venue))
	})

	t.Run("Success - locality and structural sharing", func(t *testing.T) {
		venue := venueOf(
			sectionOf("A", rowOf("A", 1, []int{1, 2, 3}, nil), rowOf("A", 2, []int{1, 2, 3}, nil)),
			sectionOf("B", rowOf("B", 1, []int{1, 2, 3}, nil)),
		)
		before := deepCopy(venue)

		updated := seatmap.ApplySeatUpdate(venue, model.SeatUpdate{ID: "A-2-002", Status: model.SeatStatusHeld})

		// untouched row and section share storage with the input
		assert.Same(t, &venue.Sections[1].Rows[0].Seats[0], &updated.Sections[1].Rows[0].Seats[0])
		assert.Same(t, &venue.Sections[0].Rows[0].Seats[0], &updated.Sections[0].Rows[0].Seats[0])
		// changed path is copied
		assert.NotSame(t, &venue.Sections[0].Rows[1].Seats[0], &updated.Sections[0].Rows[1].Seats[0])

		// input never mutated
		assert.Empty(t, cmp.Diff(before, venue))

		// only one field of one seat differs
		want := deepCopy(before)
		want.Sections[0].Rows[1].Seats[1].Status = model.SeatStatusHeld
		assert.Empty(t, cmp.Diff(want, updated))
	})

	t.Run("Success - later update for the same seat overwrites earlier", func(t *testing.T) {
		venue := singleSeatVenue()

		venue = seatmap.ApplySeatUpdate(venue, model.SeatUpdate{ID: "s1", Status: model.SeatStatusHeld})
		venue = seatmap.ApplySeatUpdate(venue, model.SeatUpdate{ID: "s1", Status: model.SeatStatusSold})

		assert.Equal(t, model.SeatStatusSold, venue.Sections[0].Rows[0].Seats[0].Status)
	})

	t.Run("Success - duplicate ids all updated", func(t *testing.T) {
		venue := venueOf(sectionOf("A", model.Row{Index: 1, Seats: []model.Seat{
			seat("dup", 1, model.SeatStatusAvailable),
			seat("dup", 2, model.SeatStatusAvailable),
		}}))

		updated := seatmap.ApplySeatUpdate(venue, model.SeatUpdate{ID: "dup", Status: model.SeatStatusSold})

		for _, s := range updated.Sections[0].Rows[0].Seats {
			assert.Equal(t, model.SeatStatusSold, s.Status)
		}
	})
}

func TestSeatIndex_Apply(t *testing.T) {
	t.Run("Success - matches linear applier", func(t *testing.T) {
		venue := generator.GenerateVenue(15, 10)
		idx := seatmap.BuildSeatIndex(venue)
		before := deepCopy(venue)
		update := model.SeatUpdate{ID: "A-7-004", Status: model.SeatStatusReserved}

		indexed, changed := idx.Apply(venue, update)
		linear := seatmap.ApplySeatUpdate(venue, update)

		assert.True(t, changed)
		assert.Empty(t, cmp.Diff(linear, indexed))
		assert.Empty(t, cmp.Diff(before, venue))
	})

	t.Run("Success - index stays valid across snapshots", func(t *testing.T) {
		venue := generator.GenerateVenue(3, 3)
		idx := seatmap.BuildSeatIndex(venue)

		venue, _ = idx.Apply(venue, model.SeatUpdate{ID: "A-1-001", Status: model.SeatStatusSold})
		venue, changed := idx.Apply(venue, model.SeatUpdate{ID: "A-3-003", Status: model.SeatStatusHeld})

		require.True(t, changed)
		s, ok := idx.Lookup(venue, "A-1-001")
		require.True(t, ok)
		assert.Equal(t, model.SeatStatusSold, s.Seat.Status)
		s, ok = idx.Lookup(venue, "A-3-003")
		require.True(t, ok)
		assert.Equal(t, model.SeatStatusHeld, s.Seat.Status)
		assert.Equal(t, 3, s.Row.Index)
	})

	t.Run("Success - unknown id unchanged", func(t *testing.T) {
		venue := generator.GenerateVenue(2, 2)
		idx := seatmap.BuildSeatIndex(venue)

		updated, changed := idx.Apply(venue, model.SeatUpdate{ID: "nope", Status: model.SeatStatusSold})

		assert.False(t, changed)
		assert.Empty(t, cmp.Diff(venue, updated))
	})

	t.Run("Success - same status reports no change", func(t *testing.T) {
		venue := generator.GenerateVenue(2, 2)
		idx := seatmap.BuildSeatIndex(venue)

		_, changed := idx.Apply(venue, model.SeatUpdate{ID: "A-1-001", Status: model.SeatStatusAvailable})

		assert.False(t, changed)
	})

	t.Run("Success - stale index on a different layout is ignored", func(t *testing.T) {
		idx := seatmap.BuildSeatIndex(generator.GenerateVenue(5, 5))
		other := generator.GenerateVenue(2, 2)

		updated, changed := idx.Apply(other, model.SeatUpdate{ID: "A-5-005", Status: model.SeatStatusSold})

		assert.False(t, changed)
		assert.Empty(t, cmp.Diff(other, updated))
	})
}
