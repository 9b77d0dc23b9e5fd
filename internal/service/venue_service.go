package service

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go-gin-seat-map/internal/generator"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/repository"
	"go-gin-seat-map/internal/seatmap"
	apperrors "go-gin-seat-map/pkg/app_errors"
	"go-gin-seat-map/pkg/logger"

	"go.uber.org/zap"
)

type VenueService interface {
	// 載入：替換整個 venue layout，重建 seat index
	Load(venue model.Venue) error
	// 讀取：目前的 snapshot，不加鎖
	Snapshot() (model.Venue, error)
	// 更新：套用一筆座位狀態，回傳是否有變更
	ApplyUpdate(ctx context.Context, update model.SeatUpdate) (bool, error)
	FindAdjacent(n int) ([]model.SelectionSummary, error)
	Lookup(seatID string) (model.SelectionSummary, error)
	Summaries(ids []string) ([]model.SelectionSummary, error)
	Seats() ([]model.SelectionSummary, error)
	Reconcile(ids []string) ([]string, error)
	// 最近 flash window 內變更過的座位
	RecentlyUpdated() []string
}

// venueState pairs a snapshot with the index of its layout. The index is
// shared by every snapshot derived through ApplyUpdate.
type venueState struct {
	venue model.Venue
	index seatmap.SeatIndex
}

// VenueServiceImpl keeps the current snapshot behind an atomic pointer.
// Readers never block; writers are serialized by mu so updates apply in
// arrival order.
type VenueServiceImpl struct {
	current     atomic.Pointer[venueState]
	mu          sync.Mutex
	recent      map[string]time.Time
	flashWindow time.Duration
	now         func() time.Time
}

func NewVenueService(flashWindow time.Duration) *VenueServiceImpl {
	if flashWindow <= 0 {
		flashWindow = time.Second
	}
	return &VenueServiceImpl{
		recent:      make(map[string]time.Time),
		flashWindow: flashWindow,
		now:         time.Now,
	}
}

// NewGeneratedVenueService loads a generated rows × cols venue.
func NewGeneratedVenueService(rows, cols int, flashWindow time.Duration) (*VenueServiceImpl, error) {
	s := NewVenueService(flashWindow)
	if err := s.Load(generator.GenerateVenue(rows, cols)); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStoredVenueService loads venueID from the repository.
func NewStoredVenueService(ctx context.Context, repo repository.VenueRepository, venueID string, flashWindow time.Duration) (*VenueServiceImpl, error) {
	venue, err := repo.FindByVenueID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	s := NewVenueService(flashWindow)
	if err := s.Load(venue); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *VenueServiceImpl) Load(venue model.Venue) error {
	if err := venue.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(&venueState{venue: venue, index: seatmap.BuildSeatIndex(venue)})
	clear(s.recent)
	logger.WithComponent("service").Info("venue loaded",
		zap.String("venue_id", venue.VenueID),
		zap.Int("sections", len(venue.Sections)),
		zap.Int("seats", venue.SeatCount()),
	)
	return nil
}

func (s *VenueServiceImpl) state() (*venueState, error) {
	st := s.current.Load()
	if st == nil {
		return nil, apperrors.ErrVenueNotLoaded
	}
	return st, nil
}

func (s *VenueServiceImpl) Snapshot() (model.Venue, error) {
	st, err := s.state()
	if err != nil {
		return model.Venue{}, err
	}
	return st.venue, nil
}

// ApplyUpdate folds one update into the current snapshot. Unknown ids and
// updates that repeat the current status leave the snapshot untouched and
// report false.
func (s *VenueServiceImpl) ApplyUpdate(ctx context.Context, update model.SeatUpdate) (bool, error) {
	if err := update.Validate(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state()
	if err != nil {
		return false, err
	}
	next, changed := st.index.Apply(st.venue, update)
	if !changed {
		logger.WithComponent("service").Debug("seat update was a no-op", zap.String("seat_id", update.ID), zap.String("status", string(update.Status)))
		return false, nil
	}

	s.current.Store(&venueState{venue: next, index: st.index})
	s.recent[update.ID] = s.now()
	logger.WithComponent("service").Debug("seat update applied", zap.String("seat_id", update.ID), zap.String("status", string(update.Status)))
	return true, nil
}

func (s *VenueServiceImpl) FindAdjacent(n int) ([]model.SelectionSummary, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return seatmap.FindAdjacentSeats(st.venue.Sections, n)
}

func (s *VenueServiceImpl) Lookup(seatID string) (model.SelectionSummary, error) {
	st, err := s.state()
	if err != nil {
		return model.SelectionSummary{}, err
	}
	summary, ok := st.index.Lookup(st.venue, seatID)
	if !ok {
		return model.SelectionSummary{}, apperrors.ErrSeatNotFound
	}
	return summary, nil
}

func (s *VenueServiceImpl) Summaries(ids []string) ([]model.SelectionSummary, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return seatmap.Summarize(st.venue, st.index, ids), nil
}

func (s *VenueServiceImpl) Seats() ([]model.SelectionSummary, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return seatmap.FlattenSeats(st.venue), nil
}

func (s *VenueServiceImpl) Reconcile(ids []string) ([]string, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return seatmap.ReconcileSelection(ids, st.venue), nil
}

// RecentlyUpdated returns, sorted, the ids changed within the flash window
// and forgets older ones.
func (s *VenueServiceImpl) RecentlyUpdated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.flashWindow)
	ids := make([]string, 0, len(s.recent))
	for id, at := range s.recent {
		if at.Before(cutoff) {
			delete(s.recent, id)
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
