package model

import "time"

type UpdatesRequest struct {
	UserID string    `validate:"required"`
	Since  time.Time `validate:"required"`
}

type UpdatesResponse struct {
	ServerTime   time.Time             `json:"serverTime"`
	Negotiations []NegotiationResponse `json:"negotiations"`
	Bookings     []BookingResponse     `json:"bookings"`
}
