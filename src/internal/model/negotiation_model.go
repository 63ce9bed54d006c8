package model

import "time"

type CreateNegotiationRequest struct {
	PassengerID   string   `json:"-" validate:"required"`
	TripID        string   `json:"tripId" validate:"required,uuid"`
	Seats         int      `json:"seats" validate:"omitempty,min=1,max=8"`
	ProposedPrice *float64 `json:"proposedPrice" validate:"omitempty,gt=0,lte=1000000000"`
	Message       string   `json:"message" validate:"max=500"`
}

type CounterOfferRequest struct {
	UserID        string  `json:"-" validate:"required"`
	NegotiationID string  `json:"-" validate:"required,uuid"`
	CounterPrice  float64 `json:"counterPrice" validate:"gt=0,lte=1000000000"`
	Message       string  `json:"message" validate:"max=500"`
}

type NegotiationReplyRequest struct {
	UserID        string `json:"-" validate:"required"`
	NegotiationID string `json:"-" validate:"required,uuid"`
	Message       string `json:"message" validate:"max=500"`
}

type GetNegotiationRequest struct {
	UserID        string `validate:"required"`
	NegotiationID string `validate:"required,uuid"`
}

type ListNegotiationsRequest struct {
	UserID string `validate:"required"`
	TripID string `validate:"omitempty,uuid"`
	Status string `validate:"omitempty,oneof=pending accepted rejected expired"`
}

type NegotiationMessageResponse struct {
	ID         string    `json:"id"`
	SenderRole string    `json:"senderRole"`
	SenderID   string    `json:"senderId,omitempty"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	Offer      float64   `json:"offer"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NegotiationResponse struct {
	ID            string                       `json:"id"`
	TripID        string                       `json:"tripId"`
	PassengerID   string                       `json:"passengerId"`
	DriverID      string                       `json:"driverId"`
	Seats         int                          `json:"seats"`
	OriginalPrice float64                      `json:"originalPrice"`
	CurrentOffer  float64                      `json:"currentOffer"`
	LastOfferBy   string                       `json:"lastOfferBy"`
	Status        string                       `json:"status"`
	BookingID     string                       `json:"bookingId,omitempty"`
	Messages      []NegotiationMessageResponse `json:"messages,omitempty"`
	Version       int                          `json:"version"`
	CreatedAt     time.Time                    `json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

// AcceptNegotiationResponse carries the booking created by the acceptance.
type AcceptNegotiationResponse struct {
	Negotiation *NegotiationResponse `json:"negotiation"`
	Booking     *BookingResponse     `json:"booking"`
}
