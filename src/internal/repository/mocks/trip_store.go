package mocks

import (
	"context"
	"time"

	"carpool-service/src/internal/entity"

	"github.com/stretchr/testify/mock"
)

type TripStore struct {
	mock.Mock
}

func NewTripStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *TripStore {
	m := &TripStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *TripStore) Create(ctx context.Context, trip *entity.Trip) error {
	ret := _m.Called(ctx, trip)
	return ret.Error(0)
}

func (_m *TripStore) FindByID(ctx context.Context, id string) (*entity.Trip, error) {
	ret := _m.Called(ctx, id)
	var r0 *entity.Trip
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Trip)
	}
	return r0, ret.Error(1)
}

func (_m *TripStore) List(ctx context.Context, filter entity.TripFilter) ([]entity.Trip, error) {
	ret := _m.Called(ctx, filter)
	var r0 []entity.Trip
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Trip)
	}
	return r0, ret.Error(1)
}

func (_m *TripStore) CloseTrip(ctx context.Context, trip *entity.Trip, version int, reason string, now time.Time) (*entity.TripCloseout, error) {
	ret := _m.Called(ctx, trip, version, reason, now)
	var r0 *entity.TripCloseout
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.TripCloseout)
	}
	return r0, ret.Error(1)
}
