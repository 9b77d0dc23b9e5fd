package service

import (
	"context"
	"slices"

	"go-gin-seat-map/internal/cache"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/pricing"
	"go-gin-seat-map/internal/seatmap"
	apperrors "go-gin-seat-map/pkg/app_errors"
	"go-gin-seat-map/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SelectionView is a session's selection resolved against the current
// snapshot. SeatIDs is what is stored; Seats holds only the ids the venue
// still knows, in selection order.
type SelectionView struct {
	SessionID string
	SeatIDs   []string
	Seats     []model.SelectionSummary
	Subtotal  decimal.Decimal
}

type SelectionService interface {
	NewSession(ctx context.Context) (string, error)
	Get(ctx context.Context, sessionID string) (*SelectionView, error)
	// 切換：加入時座位必須存在且可售；移除永遠允許
	Toggle(ctx context.Context, sessionID string, seatID string) (*SelectionView, error)
	// 相鄰座位：搜尋後整批取代目前選擇
	SelectAdjacent(ctx context.Context, sessionID string, n int) (*SelectionView, error)
	Reconcile(ctx context.Context, sessionID string) (*SelectionView, error)
	Clear(ctx context.Context, sessionID string) (*SelectionView, error)
	Theme(ctx context.Context, sessionID string) (model.Theme, error)
	SetTheme(ctx context.Context, sessionID string, theme model.Theme) (model.Theme, error)
}

type SelectionServiceImpl struct {
	venues VenueService
	store  cache.SessionStore
	limit  int
}

func NewSelectionService(venues VenueService, store cache.SessionStore, limit int) SelectionService {
	if limit <= 0 {
		limit = seatmap.DefaultSelectionLimit
	}
	return &SelectionServiceImpl{
		venues: venues,
		store:  store,
		limit:  limit,
	}
}

func (s *SelectionServiceImpl) NewSession(ctx context.Context) (string, error) {
	sessionID := uuid.New().String()
	_, err := s.store.UpdateSelection(ctx, sessionID, func([]string) ([]string, error) {
		return []string{}, nil
	})
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *SelectionServiceImpl) Get(ctx context.Context, sessionID string) (*SelectionView, error) {
	ids, err := s.store.Selection(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, ids)
}

func (s *SelectionServiceImpl) Toggle(ctx context.Context, sessionID string, seatID string) (*SelectionView, error) {
	ids, err := s.store.UpdateSelection(ctx, sessionID, func(current []string) ([]string, error) {
		if !slices.Contains(current, seatID) {
			summary, err := s.venues.Lookup(seatID)
			if err != nil {
				return nil, err
			}
			if !summary.Seat.IsAvailable() {
				return nil, apperrors.ErrSeatUnavailable
			}
		}
		return seatmap.ToggleSeat(current, seatID, s.limit), nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, ids)
}

func (s *SelectionServiceImpl) SelectAdjacent(ctx context.Context, sessionID string, n int) (*SelectionView, error) {
	block, err := s.venues.FindAdjacent(n)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.UpdateSelection(ctx, sessionID, func([]string) ([]string, error) {
		return seatmap.ReplaceSelection(seatmap.SeatIDs(block), s.limit)
	})
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, ids)
}

func (s *SelectionServiceImpl) Reconcile(ctx context.Context, sessionID string) (*SelectionView, error) {
	ids, err := s.store.UpdateSelection(ctx, sessionID, func(current []string) ([]string, error) {
		kept, err := s.venues.Reconcile(current)
		if err != nil {
			return nil, err
		}
		if dropped := len(current) - len(kept); dropped > 0 {
			logger.WithComponent("service").Info("selection reconciled", zap.String("session_id", sessionID), zap.Int("dropped", dropped))
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, ids)
}

func (s *SelectionServiceImpl) Clear(ctx context.Context, sessionID string) (*SelectionView, error) {
	ids, err := s.store.UpdateSelection(ctx, sessionID, func([]string) ([]string, error) {
		return []string{}, nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, ids)
}

// Theme falls back to the default for unset or unreadable values.
func (s *SelectionServiceImpl) Theme(ctx context.Context, sessionID string) (model.Theme, error) {
	raw, err := s.store.Theme(ctx, sessionID)
	if err != nil {
		return "", err
	}
	theme, err := model.ParseTheme(raw)
	if err != nil {
		return model.DefaultTheme, nil
	}
	return theme, nil
}

func (s *SelectionServiceImpl) SetTheme(ctx context.Context, sessionID string, theme model.Theme) (model.Theme, error) {
	parsed, err := model.ParseTheme(string(theme))
	if err != nil {
		return "", err
	}
	if err := s.store.SetTheme(ctx, sessionID, string(parsed)); err != nil {
		return "", err
	}
	return parsed, nil
}

func (s *SelectionServiceImpl) view(sessionID string, ids []string) (*SelectionView, error) {
	seats, err := s.venues.Summaries(ids)
	if err != nil {
		return nil, err
	}
	tiers := make([]int, 0, len(seats))
	for _, seat := range seats {
		tiers = append(tiers, seat.Seat.PriceTier)
	}
	if ids == nil {
		ids = []string{}
	}
	return &SelectionView{
		SessionID: sessionID,
		SeatIDs:   ids,
		Seats:     seats,
		Subtotal:  pricing.Subtotal(tiers),
	}, nil
}
