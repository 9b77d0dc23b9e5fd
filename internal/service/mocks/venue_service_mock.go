package mocks

import (
	"context"

	"go-gin-seat-map/internal/model"

	"github.com/stretchr/testify/mock"
)

type VenueServiceMock struct {
	mock.Mock
}

func NewVenueServiceMock() *VenueServiceMock {
	return &VenueServiceMock{}
}

func (m *VenueServiceMock) Load(venue model.Venue) error {
	args := m.Called(venue)
	return args.Error(0)
}

func (m *VenueServiceMock) Snapshot() (model.Venue, error) {
	args := m.Called()
	return args.Get(0).(model.Venue), args.Error(1)
}

func (m *VenueServiceMock) ApplyUpdate(ctx context.Context, update model.SeatUpdate) (bool, error) {
	args := m.Called(ctx, update)
	return args.Bool(0), args.Error(1)
}

func (m *VenueServiceMock) FindAdjacent(n int) ([]model.SelectionSummary, error) {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SelectionSummary), args.Error(1)
}

func (m *VenueServiceMock) Lookup(seatID string) (model.SelectionSummary, error) {
	args := m.Called(seatID)
	return args.Get(0).(model.SelectionSummary), args.Error(1)
}

func (m *VenueServiceMock) Summaries(ids []string) ([]model.SelectionSummary, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SelectionSummary), args.Error(1)
}

func (m *VenueServiceMock) Seats() ([]model.SelectionSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SelectionSummary), args.Error(1)
}

func (m *VenueServiceMock) Reconcile(ids []string) ([]string, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *VenueServiceMock) RecentlyUpdated() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
