package mocks

import (
	"context"
	"time"

	"carpool-service/src/internal/entity"

	"github.com/stretchr/testify/mock"
)

type BookingStore struct {
	mock.Mock
}

func NewBookingStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *BookingStore {
	m := &BookingStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *BookingStore) Reserve(ctx context.Context, booking *entity.Booking) error {
	ret := _m.Called(ctx, booking)
	return ret.Error(0)
}

func (_m *BookingStore) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	ret := _m.Called(ctx, id)
	var r0 *entity.Booking
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Booking)
	}
	return r0, ret.Error(1)
}

func (_m *BookingStore) List(ctx context.Context, filter entity.BookingFilter) ([]entity.Booking, error) {
	ret := _m.Called(ctx, filter)
	var r0 []entity.Booking
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Booking)
	}
	return r0, ret.Error(1)
}

func (_m *BookingStore) Confirm(ctx context.Context, booking *entity.Booking, version int) error {
	ret := _m.Called(ctx, booking, version)
	return ret.Error(0)
}

func (_m *BookingStore) Cancel(ctx context.Context, booking *entity.Booking, version int) error {
	ret := _m.Called(ctx, booking, version)
	return ret.Error(0)
}

func (_m *BookingStore) ListUpdatedSince(ctx context.Context, userID string, since time.Time) ([]entity.Booking, error) {
	ret := _m.Called(ctx, userID, since)
	var r0 []entity.Booking
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Booking)
	}
	return r0, ret.Error(1)
}
