package repository_test

import (
	"context"
	"log"
	"os"
	"testing"

	"go-gin-seat-map/internal/generator"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/repository"
	"go-gin-seat-map/internal/testutil"
	apperrors "go-gin-seat-map/pkg/app_errors"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	pool, cleanup, err := testutil.SetupPostgres(context.Background())
	if err != nil {
		log.Printf("postgres unavailable, repository tests will be skipped: %v", err)
		os.Exit(m.Run())
	}
	testDB = pool
	if err := repository.NewVenueRepository(pool).EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Running repository tests...")
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestWithTruncate(t *testing.T) repository.VenueRepository {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres not available")
	}
	_, err := testDB.Exec(context.Background(), "TRUNCATE venues, venue_sections, venue_rows, venue_seats CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return repository.NewVenueRepository(testDB)
}

func TestVenueRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - generated venue round trips", func(t *testing.T) {
		repo := setupTestWithTruncate(t)
		venue := generator.Generate(generator.Options{Rows: 4, Cols: 5, Sections: 2})

		require.NoError(t, repo.Create(ctx, venue))
		got, err := repo.FindByVenueID(ctx, venue.VenueID)

		require.NoError(t, err)
		if diff := cmp.Diff(venue, got); diff != "" {
			t.Errorf("stored venue mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Success - unsorted seats keep their order", func(t *testing.T) {
		repo := setupTestWithTruncate(t)
		venue := model.Venue{
			VenueID: "small",
			Name:    "Small Hall",
			Map:     model.MapExtent{Width: 200, Height: 100},
			Sections: []model.Section{{
				ID:        "A",
				Label:     "Floor",
				Transform: model.Transform{Scale: 1},
				Rows: []model.Row{{
					Index: 1,
					Seats: []model.Seat{
						{ID: "A-1-003", Col: 3, X: 90, Y: 40, PriceTier: 1, Status: model.SeatStatusSold},
						{ID: "A-1-001", Col: 1, X: 30, Y: 40, PriceTier: 1, Status: model.SeatStatusAvailable},
						{ID: "A-1-002", Col: 2, X: 60, Y: 40, PriceTier: 2, Status: model.SeatStatusHeld},
					},
				}},
			}},
		}

		require.NoError(t, repo.Create(ctx, venue))
		got, err := repo.FindByVenueID(ctx, "small")

		require.NoError(t, err)
		if diff := cmp.Diff(venue, got); diff != "" {
			t.Errorf("stored venue mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Failed - duplicate venue id", func(t *testing.T) {
		repo := setupTestWithTruncate(t)
		venue := generator.GenerateVenue(2, 2)

		require.NoError(t, repo.Create(ctx, venue))
		err := repo.Create(ctx, venue)

		assert.ErrorIs(t, err, apperrors.ErrInvalidVenue)
	})

	t.Run("Failed - invalid venue rejected before insert", func(t *testing.T) {
		repo := setupTestWithTruncate(t)
		venue := generator.GenerateVenue(1, 2)
		venue.Sections[0].Rows[0].Seats[1].ID = venue.Sections[0].Rows[0].Seats[0].ID

		err := repo.Create(ctx, venue)

		assert.ErrorIs(t, err, apperrors.ErrInvalidVenue)
		_, err = repo.FindByVenueID(ctx, venue.VenueID)
		assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
	})

	t.Run("Failed - not found", func(t *testing.T) {
		repo := setupTestWithTruncate(t)

		_, err := repo.FindByVenueID(ctx, "missing")

		assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
	})
}

func TestVenueRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := setupTestWithTruncate(t)
		venue := generator.GenerateVenue(2, 2)
		require.NoError(t, repo.Create(ctx, venue))

		require.NoError(t, repo.Delete(ctx, venue.VenueID))

		_, err := repo.FindByVenueID(ctx, venue.VenueID)
		assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
	})

	t.Run("Failed - not found", func(t *testing.T) {
		repo := setupTestWithTruncate(t)
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), apperrors.ErrVenueNotFound)
	})
}
