package usecase

import (
	"errors"
	"testing"

	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/usecase/mocks"
	"carpool-service/src/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotifierReachesBothParties(t *testing.T) {
	publisher := mocks.NewEventPublisher(t)
	pusher := mocks.NewPusher(t)
	n := NewChangeNotifier(log.Discard(), publisher, pusher)
	n.Now = fixedNow

	negotiation := pendingNegotiation(80000, entity.PartyPassenger)
	publisher.On("SendNegotiation", mock.MatchedBy(func(e *model.NegotiationEvent) bool {
		return e.NegotiationID == negotiationID && e.Type == model.EventNegotiationCreated
	})).Return(nil)
	pusher.On("Push", []string{driverID, passengerID}, model.Notification{
		Type:     model.EventNegotiationCreated,
		EntityID: negotiationID,
		Status:   "pending",
		At:       testNow,
	}).Once()

	n.NegotiationChanged(negotiation, model.EventNegotiationCreated)
}

func TestNotifierSurvivesPublishFailure(t *testing.T) {
	publisher := mocks.NewEventPublisher(t)
	pusher := mocks.NewPusher(t)
	n := NewChangeNotifier(log.Discard(), publisher, pusher)

	publisher.On("SendBooking", mock.Anything).Return(errors.New("broker unavailable"))
	pusher.On("Push", []string{driverID, passengerID}, mock.Anything).Once()

	assert.NotPanics(t, func() {
		n.BookingChanged(pendingBooking(1), driverID, model.EventBookingCreated)
	})
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *ChangeNotifier
	assert.NotPanics(t, func() {
		n.TripChanged(testTrip(entity.PriceFixed), model.EventTripCreated)
		n.CommissionChanged(&model.CommissionEvent{})
	})
}
