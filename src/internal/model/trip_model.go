package model

import "time"

type CreateTripRequest struct {
	DriverID       string       `json:"-" validate:"required"`
	Departure      PlaceRequest `json:"departure" validate:"required"`
	Destination    PlaceRequest `json:"destination" validate:"required"`
	DepartureTime  time.Time    `json:"departureTime" validate:"required"`
	AvailableSeats int          `json:"availableSeats" validate:"required,min=1,max=8"`
	Price          float64      `json:"price" validate:"gt=0,lte=1000000000"`
	PriceType      string       `json:"priceType" validate:"required,oneof=fixed negotiable"`
}

type ListTripsRequest struct {
	DriverID string `validate:"required"`
	Status   string `validate:"omitempty,oneof=active completed cancelled"`
}

type TripActionRequest struct {
	UserID string `validate:"required"`
	TripID string `validate:"required,uuid"`
}

type TripResponse struct {
	ID             string        `json:"id"`
	DriverID       string        `json:"driverId"`
	Departure      PlaceResponse `json:"departure"`
	Destination    PlaceResponse `json:"destination"`
	DepartureTime  time.Time     `json:"departureTime"`
	SeatCapacity   int           `json:"seatCapacity"`
	AvailableSeats int           `json:"availableSeats"`
	Price          float64       `json:"price"`
	PriceType      string        `json:"priceType"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
