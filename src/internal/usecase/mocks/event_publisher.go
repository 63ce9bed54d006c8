package mocks

import (
	"carpool-service/src/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *EventPublisher) SendNegotiation(event *model.NegotiationEvent) error {
	return _m.Called(event).Error(0)
}

func (_m *EventPublisher) SendBooking(event *model.BookingEvent) error {
	return _m.Called(event).Error(0)
}

func (_m *EventPublisher) SendTrip(event *model.TripEvent) error {
	return _m.Called(event).Error(0)
}

func (_m *EventPublisher) SendCommission(event *model.CommissionEvent) error {
	return _m.Called(event).Error(0)
}
