package model

import "time"

type CreateBookingRequest struct {
	PassengerID string `json:"-" validate:"required"`
	TripID      string `json:"tripId" validate:"required,uuid"`
	Seats       int    `json:"seats" validate:"required,min=1,max=8"`
}

type ListBookingsRequest struct {
	PassengerID string `validate:"required"`
	Status      string `validate:"omitempty,oneof=pending confirmed completed cancelled"`
}

type ListTripBookingsRequest struct {
	UserID string `validate:"required"`
	TripID string `validate:"required,uuid"`
}

type BookingActionRequest struct {
	UserID    string `validate:"required"`
	BookingID string `validate:"required,uuid"`
}

type CancelBookingRequest struct {
	UserID    string   `json:"-" validate:"required"`
	BookingID string   `json:"-" validate:"required,uuid"`
	Reason    string   `json:"reason" validate:"max=500"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type BookingResponse struct {
	ID             string     `json:"id"`
	TripID         string     `json:"tripId"`
	PassengerID    string     `json:"passengerId"`
	NegotiationID  string     `json:"negotiationId,omitempty"`
	Seats          int        `json:"seats"`
	TotalPrice     float64    `json:"totalPrice"`
	AppCommission  float64    `json:"appCommission"`
	DriverAmount   float64    `json:"driverAmount"`
	CommissionRate float64    `json:"commissionRate"`
	Status         string     `json:"status"`
	CancelledBy    string     `json:"cancelledBy,omitempty"`
	CancelReason   string     `json:"cancelReason,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`
}
