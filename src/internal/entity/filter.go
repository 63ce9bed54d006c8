package entity

type TripFilter struct {
	DriverID *string
	Status   *TripStatus
}

type BookingFilter struct {
	PassengerID *string
	TripID      *string
	Status      *BookingStatus
}

// NegotiationFilter matches negotiations where UserID is either party.
type NegotiationFilter struct {
	UserID string
	TripID *string
	Status *NegotiationStatus
}

// TripCloseout lists what a trip cancellation or completion touched.
type TripCloseout struct {
	Bookings     []Booking
	Negotiations []Negotiation
}
