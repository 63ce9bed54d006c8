package model

import "time"

type Event interface {
	GetId() string
}

const (
	EventNegotiationCreated   = "negotiation.created"
	EventNegotiationCountered = "negotiation.counter-offered"
	EventNegotiationAccepted  = "negotiation.accepted"
	EventNegotiationRejected  = "negotiation.rejected"
	EventNegotiationExpired   = "negotiation.expired"

	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"

	EventTripCreated   = "trip.created"
	EventTripCancelled = "trip.cancelled"
	EventTripCompleted = "trip.completed"

	EventCommissionRateChanged = "commission.rate-changed"
)

type NegotiationEvent struct {
	EventID       string    `json:"eventId"`
	Type          string    `json:"type"`
	NegotiationID string    `json:"negotiationId"`
	TripID        string    `json:"tripId"`
	DriverID      string    `json:"driverId"`
	PassengerID   string    `json:"passengerId"`
	Status        string    `json:"status"`
	CurrentOffer  float64   `json:"currentOffer"`
	LastOfferBy   string    `json:"lastOfferBy"`
	BookingID     string    `json:"bookingId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e *NegotiationEvent) GetId() string {
	return e.NegotiationID
}

type BookingEvent struct {
	EventID       string    `json:"eventId"`
	Type          string    `json:"type"`
	BookingID     string    `json:"bookingId"`
	TripID        string    `json:"tripId"`
	DriverID      string    `json:"driverId"`
	PassengerID   string    `json:"passengerId"`
	Seats         int       `json:"seats"`
	Status        string    `json:"status"`
	TotalPrice    float64   `json:"totalPrice"`
	AppCommission float64   `json:"appCommission"`
	DriverAmount  float64   `json:"driverAmount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e *BookingEvent) GetId() string {
	return e.BookingID
}

type TripEvent struct {
	EventID        string    `json:"eventId"`
	Type           string    `json:"type"`
	TripID         string    `json:"tripId"`
	DriverID       string    `json:"driverId"`
	Status         string    `json:"status"`
	AvailableSeats int       `json:"availableSeats"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func (e *TripEvent) GetId() string {
	return e.TripID
}

type CommissionEvent struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	Rate       float64   `json:"rate"`
	ChangedBy  string    `json:"changedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e *CommissionEvent) GetId() string {
	return "commission-rate"
}

// Notification is what connected clients receive over the websocket.
type Notification struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}
