package mocks

import (
	"context"
	"time"

	"carpool-service/src/internal/entity"

	"github.com/stretchr/testify/mock"
)

type NegotiationStore struct {
	mock.Mock
}

func NewNegotiationStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *NegotiationStore {
	m := &NegotiationStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *NegotiationStore) Create(ctx context.Context, negotiation *entity.Negotiation) error {
	ret := _m.Called(ctx, negotiation)
	return ret.Error(0)
}

func (_m *NegotiationStore) FindByID(ctx context.Context, id string) (*entity.Negotiation, error) {
	ret := _m.Called(ctx, id)
	var r0 *entity.Negotiation
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Negotiation)
	}
	return r0, ret.Error(1)
}

func (_m *NegotiationStore) List(ctx context.Context, filter entity.NegotiationFilter) ([]entity.Negotiation, error) {
	ret := _m.Called(ctx, filter)
	var r0 []entity.Negotiation
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Negotiation)
	}
	return r0, ret.Error(1)
}

func (_m *NegotiationStore) Update(ctx context.Context, negotiation *entity.Negotiation, version int) error {
	ret := _m.Called(ctx, negotiation, version)
	return ret.Error(0)
}

func (_m *NegotiationStore) Settle(ctx context.Context, negotiation *entity.Negotiation, version int, booking *entity.Booking) error {
	ret := _m.Called(ctx, negotiation, version, booking)
	return ret.Error(0)
}

func (_m *NegotiationStore) ListIdlePending(ctx context.Context, idleBefore time.Time, limit int) ([]entity.Negotiation, error) {
	ret := _m.Called(ctx, idleBefore, limit)
	var r0 []entity.Negotiation
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Negotiation)
	}
	return r0, ret.Error(1)
}

func (_m *NegotiationStore) ListUpdatedSince(ctx context.Context, userID string, since time.Time) ([]entity.Negotiation, error) {
	ret := _m.Called(ctx, userID, since)
	var r0 []entity.Negotiation
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Negotiation)
	}
	return r0, ret.Error(1)
}
