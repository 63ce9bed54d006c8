package messaging

import (
	"carpool-service/src/internal/model"
	"carpool-service/src/pkg/kafka"
	"carpool-service/src/pkg/log"
)

const (
	TopicNegotiationEvents = "negotiation-events"
	TopicBookingEvents     = "booking-events"
	TopicTripEvents        = "trip-events"
	TopicCommissionEvents  = "commission-events"
)

type CarpoolProducer struct {
	NegotiationProducer Producer[*model.NegotiationEvent]
	BookingProducer     Producer[*model.BookingEvent]
	TripProducer        Producer[*model.TripEvent]
	CommissionProducer  Producer[*model.CommissionEvent]
}

func NewCarpoolProducer(producer kafka.Producer, log log.Log) *CarpoolProducer {
	return &CarpoolProducer{
		NegotiationProducer: Producer[*model.NegotiationEvent]{
			Producer: producer,
			Topic:    TopicNegotiationEvents,
			Log:      log,
		},
		BookingProducer: Producer[*model.BookingEvent]{
			Producer: producer,
			Topic:    TopicBookingEvents,
			Log:      log,
		},
		TripProducer: Producer[*model.TripEvent]{
			Producer: producer,
			Topic:    TopicTripEvents,
			Log:      log,
		},
		CommissionProducer: Producer[*model.CommissionEvent]{
			Producer: producer,
			Topic:    TopicCommissionEvents,
			Log:      log,
		},
	}
}

func (p *CarpoolProducer) SendNegotiation(event *model.NegotiationEvent) error {
	return p.NegotiationProducer.Send(event)
}

func (p *CarpoolProducer) SendBooking(event *model.BookingEvent) error {
	return p.BookingProducer.Send(event)
}

func (p *CarpoolProducer) SendTrip(event *model.TripEvent) error {
	return p.TripProducer.Send(event)
}

func (p *CarpoolProducer) SendCommission(event *model.CommissionEvent) error {
	return p.CommissionProducer.Send(event)
}
