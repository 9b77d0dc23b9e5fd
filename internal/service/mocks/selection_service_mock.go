package mocks

import (
	"context"

	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/service"

	"github.com/stretchr/testify/mock"
)

type SelectionServiceMock struct {
	mock.Mock
}

func NewSelectionServiceMock() *SelectionServiceMock {
	return &SelectionServiceMock{}
}

func (m *SelectionServiceMock) NewSession(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *SelectionServiceMock) view(args mock.Arguments) (*service.SelectionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SelectionView), args.Error(1)
}

func (m *SelectionServiceMock) Get(ctx context.Context, sessionID string) (*service.SelectionView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *SelectionServiceMock) Toggle(ctx context.Context, sessionID string, seatID string) (*service.SelectionView, error) {
	return m.view(m.Called(ctx, sessionID, seatID))
}

func (m *SelectionServiceMock) SelectAdjacent(ctx context.Context, sessionID string, n int) (*service.SelectionView, error) {
	return m.view(m.Called(ctx, sessionID, n))
}

func (m *SelectionServiceMock) Reconcile(ctx context.Context, sessionID string) (*service.SelectionView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *SelectionServiceMock) Clear(ctx context.Context, sessionID string) (*service.SelectionView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *SelectionServiceMock) Theme(ctx context.Context, sessionID string) (model.Theme, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.Theme), args.Error(1)
}

func (m *SelectionServiceMock) SetTheme(ctx context.Context, sessionID string, theme model.Theme) (model.Theme, error) {
	args := m.Called(ctx, sessionID, theme)
	return args.Get(0).(model.Theme), args.Error(1)
}
