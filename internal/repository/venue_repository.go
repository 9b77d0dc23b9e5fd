package repository

import (
	"context"
	"errors"
	"fmt"

	"go-gin-seat-map/internal/model"
	apperrors "go-gin-seat-map/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// VenueRepository stores venue layouts. Seat status changes are never
// written back; a stored venue is the layout a server starts from.
type VenueRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, venue model.Venue) error
	FindByVenueID(ctx context.Context, venueID string) (model.Venue, error)
	Delete(ctx context.Context, venueID string) error
}

type VenueRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) VenueRepository {
	return &VenueRepositoryImpl{
		pool: pool,
	}
}

// pos columns keep the order the layout was created in, since seats inside a
// row are not sorted by column.
var schema = []string{`
	CREATE TABLE IF NOT EXISTS venues (
		venue_id   TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		map_width  DOUBLE PRECISION NOT NULL,
		map_height DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, `
	CREATE TABLE IF NOT EXISTS venue_sections (
		venue_id    TEXT NOT NULL REFERENCES venues(venue_id) ON DELETE CASCADE,
		section_id  TEXT NOT NULL,
		label       TEXT NOT NULL,
		pos         INT NOT NULL,
		transform_x DOUBLE PRECISION NOT NULL,
		transform_y DOUBLE PRECISION NOT NULL,
		scale       DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (venue_id, section_id)
	)`, `
	CREATE TABLE IF NOT EXISTS venue_rows (
		venue_id   TEXT NOT NULL,
		section_id TEXT NOT NULL,
		row_index  INT NOT NULL,
		pos        INT NOT NULL,
		PRIMARY KEY (venue_id, section_id, row_index),
		FOREIGN KEY (venue_id, section_id) REFERENCES venue_sections(venue_id, section_id) ON DELETE CASCADE
	)`, `
	CREATE TABLE IF NOT EXISTS venue_seats (
		venue_id   TEXT NOT NULL,
		seat_id    TEXT NOT NULL,
		section_id TEXT NOT NULL,
		row_index  INT NOT NULL,
		col        INT NOT NULL,
		pos        INT NOT NULL,
		x          DOUBLE PRECISION NOT NULL,
		y          DOUBLE PRECISION NOT NULL,
		price_tier INT NOT NULL CHECK (price_tier >= 1),
		status     TEXT NOT NULL,
		PRIMARY KEY (venue_id, seat_id),
		UNIQUE (venue_id, section_id, row_index, col),
		FOREIGN KEY (venue_id, section_id, row_index) REFERENCES venue_rows(venue_id, section_id, row_index) ON DELETE CASCADE
	)`,
}

func (r *VenueRepositoryImpl) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Create stores the whole hierarchy in one transaction. A venue id that is
// already stored is rejected with ErrInvalidVenue.
func (r *VenueRepositoryImpl) Create(ctx context.Context, venue model.Venue) error {
	if err := venue.Validate(); err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO venues (venue_id, name, map_width, map_height) VALUES ($1, $2, $3, $4)`,
		venue.VenueID, venue.Name, venue.Map.Width, venue.Map.Height,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: venue %q already exists", apperrors.ErrInvalidVenue, venue.VenueID)
		}
		return err
	}

	batch := &pgx.Batch{}
	for si, section := range venue.Sections {
		batch.Queue(
			`INSERT INTO venue_sections (venue_id, section_id, label, pos, transform_x, transform_y, scale)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			venue.VenueID, section.ID, section.Label, si,
			section.Transform.X, section.Transform.Y, section.Transform.Scale,
		)
		for ri, row := range section.Rows {
			batch.Queue(
				`INSERT INTO venue_rows (venue_id, section_id, row_index, pos) VALUES ($1, $2, $3, $4)`,
				venue.VenueID, section.ID, row.Index, ri,
			)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sections and rows: %w", err)
	}

	seatRows := make([][]any, 0, venue.SeatCount())
	for _, section := range venue.Sections {
		for _, row := range section.Rows {
			for pos, seat := range row.Seats {
				seatRows = append(seatRows, []any{
					venue.VenueID, seat.ID, section.ID, row.Index, seat.Col, pos,
					seat.X, seat.Y, seat.PriceTier, string(seat.Status),
				})
			}
		}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"venue_seats"},
		[]string{"venue_id", "seat_id", "section_id", "row_index", "col", "pos", "x", "y", "price_tier", "status"},
		pgx.CopyFromRows(seatRows),
	)
	if err != nil {
		return fmt.Errorf("copy seats: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *VenueRepositoryImpl) FindByVenueID(ctx context.Context, venueID string) (model.Venue, error) {
	venue := model.Venue{VenueID: venueID}
	err := r.pool.QueryRow(ctx,
		`SELECT name, map_width, map_height FROM venues WHERE venue_id = $1`, venueID,
	).Scan(&venue.Name, &venue.Map.Width, &venue.Map.Height)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Venue{}, apperrors.ErrVenueNotFound
		}
		return model.Venue{}, err
	}

	sectionPos := make(map[string]int)
	rows, err := r.pool.Query(ctx, `
		SELECT section_id, label, transform_x, transform_y, scale
		FROM venue_sections
		WHERE venue_id = $1
		ORDER BY pos
	`, venueID)
	if err != nil {
		return model.Venue{}, err
	}
	for rows.Next() {
		var section model.Section
		if err := rows.Scan(&section.ID, &section.Label, &section.Transform.X, &section.Transform.Y, &section.Transform.Scale); err != nil {
			rows.Close()
			return model.Venue{}, err
		}
		section.Rows = []model.Row{}
		sectionPos[section.ID] = len(venue.Sections)
		venue.Sections = append(venue.Sections, section)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return model.Venue{}, err
	}

	type rowKey struct {
		section string
		index   int
	}
	rowPos := make(map[rowKey]int)
	rows, err = r.pool.Query(ctx, `
		SELECT section_id, row_index
		FROM venue_rows
		WHERE venue_id = $1
		ORDER BY section_id, pos
	`, venueID)
	if err != nil {
		return model.Venue{}, err
	}
	for rows.Next() {
		var sectionID string
		var index int
		if err := rows.Scan(&sectionID, &index); err != nil {
			rows.Close()
			return model.Venue{}, err
		}
		si := sectionPos[sectionID]
		rowPos[rowKey{sectionID, index}] = len(venue.Sections[si].Rows)
		venue.Sections[si].Rows = append(venue.Sections[si].Rows, model.Row{Index: index, Seats: []model.Seat{}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return model.Venue{}, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT section_id, row_index, seat_id, col, x, y, price_tier, status
		FROM venue_seats
		WHERE venue_id = $1
		ORDER BY section_id, row_index, pos
	`, venueID)
	if err != nil {
		return model.Venue{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var sectionID string
		var index int
		var seat model.Seat
		var status string
		if err := rows.Scan(&sectionID, &index, &seat.ID, &seat.Col, &seat.X, &seat.Y, &seat.PriceTier, &status); err != nil {
			return model.Venue{}, err
		}
		seat.Status = model.SeatStatus(status)
		si := sectionPos[sectionID]
		ri := rowPos[rowKey{sectionID, index}]
		venue.Sections[si].Rows[ri].Seats = append(venue.Sections[si].Rows[ri].Seats, seat)
	}
	if err := rows.Err(); err != nil {
		return model.Venue{}, err
	}

	if venue.Sections == nil {
		venue.Sections = []model.Section{}
	}
	return venue, nil
}

func (r *VenueRepositoryImpl) Delete(ctx context.Context, venueID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE venue_id = $1`, venueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVenueNotFound
	}
	return nil
}
