package mocks

import (
	"context"
	"time"

	"carpool-service/src/internal/model"
	"carpool-service/src/pkg/commission"

	"github.com/stretchr/testify/mock"
	"googlemaps.github.io/maps"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

type Pusher struct {
	mock.Mock
}

func NewPusher(t mockT) *Pusher {
	m := &Pusher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *Pusher) Push(userIDs []string, notification model.Notification) {
	_m.Called(userIDs, notification)
}

type ExpiryScheduler struct {
	mock.Mock
}

func NewExpiryScheduler(t mockT) *ExpiryScheduler {
	m := &ExpiryScheduler{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ExpiryScheduler) ScheduleExpiry(ctx context.Context, negotiationID string, version int, at time.Time) error {
	return _m.Called(ctx, negotiationID, version, at).Error(0)
}

type RateSource struct {
	mock.Mock
}

func NewRateSource(t mockT) *RateSource {
	m := &RateSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RateSource) CurrentRate(ctx context.Context) (commission.Rate, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(commission.Rate), ret.Error(1)
}

type RouteFinder struct {
	mock.Mock
}

func NewRouteFinder(t mockT) *RouteFinder {
	m := &RouteFinder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RouteFinder) Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	ret := _m.Called(ctx, r)
	var routes []maps.Route
	if v := ret.Get(0); v != nil {
		routes = v.([]maps.Route)
	}
	var waypoints []maps.GeocodedWaypoint
	if v := ret.Get(1); v != nil {
		waypoints = v.([]maps.GeocodedWaypoint)
	}
	return routes, waypoints, ret.Error(2)
}
