package usecase

import (
	"fmt"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/model/converter"
	"carpool-service/src/internal/observability"
	"carpool-service/src/pkg/log"
)

// ChangeNotifier fans every state change out to kafka and to connected
// clients. Both channels are best effort: failures are logged and counted.
type ChangeNotifier struct {
	Log       log.Log
	Publisher EventPublisher
	Pusher    Pusher
	Now       func() time.Time
}

func NewChangeNotifier(logger log.Log, publisher EventPublisher, pusher Pusher) *ChangeNotifier {
	return &ChangeNotifier{
		Log:       logger,
		Publisher: publisher,
		Pusher:    pusher,
		Now:       time.Now,
	}
}

func (n *ChangeNotifier) NegotiationChanged(negotiation *entity.Negotiation, eventType string) {
	if n == nil {
		return
	}
	now := n.Now()
	if n.Publisher != nil {
		if err := n.Publisher.SendNegotiation(converter.NegotiationToEvent(negotiation, eventType, now)); err != nil {
			n.dropped("kafka", eventType, negotiation.ID, err)
		}
	}
	n.push([]string{negotiation.DriverID, negotiation.PassengerID}, model.Notification{
		Type:     eventType,
		EntityID: negotiation.ID,
		Status:   string(negotiation.Status),
		At:       now,
	})
}

func (n *ChangeNotifier) BookingChanged(booking *entity.Booking, driverID, eventType string) {
	if n == nil {
		return
	}
	now := n.Now()
	if n.Publisher != nil {
		if err := n.Publisher.SendBooking(converter.BookingToEvent(booking, driverID, eventType, now)); err != nil {
			n.dropped("kafka", eventType, booking.ID, err)
		}
	}
	n.push([]string{driverID, booking.PassengerID}, model.Notification{
		Type:     eventType,
		EntityID: booking.ID,
		Status:   string(booking.Status),
		At:       now,
	})
}

func (n *ChangeNotifier) TripChanged(trip *entity.Trip, eventType string) {
	if n == nil {
		return
	}
	now := n.Now()
	if n.Publisher != nil {
		if err := n.Publisher.SendTrip(converter.TripToEvent(trip, eventType, now)); err != nil {
			n.dropped("kafka", eventType, trip.ID, err)
		}
	}
	n.push([]string{trip.DriverID}, model.Notification{
		Type:     eventType,
		EntityID: trip.ID,
		Status:   string(trip.Status),
		At:       now,
	})
}

func (n *ChangeNotifier) CommissionChanged(event *model.CommissionEvent) {
	if n == nil || n.Publisher == nil {
		return
	}
	if err := n.Publisher.SendCommission(event); err != nil {
		n.dropped("kafka", event.Type, event.GetId(), err)
	}
}

func (n *ChangeNotifier) push(userIDs []string, notification model.Notification) {
	if n.Pusher == nil {
		return
	}
	n.Pusher.Push(userIDs, notification)
}

func (n *ChangeNotifier) dropped(channel, eventType, id string, err error) {
	observability.NotificationsDropped.WithLabelValues(channel).Inc()
	n.Log.Error("change-notifier", fmt.Sprintf("failed to publish %s: %v", eventType, err), channel, id)
}
