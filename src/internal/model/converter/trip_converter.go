package converter

import (
	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"time"

	"github.com/google/uuid"
)

func TripToResponse(trip *entity.Trip) *model.TripResponse {
	return &model.TripResponse{
		ID:       trip.ID,
		DriverID: trip.DriverID,
		Departure: model.PlaceResponse{
			City:      trip.DepartureCity,
			Address:   trip.DepartureAddress,
			Latitude:  trip.DepartureLat,
			Longitude: trip.DepartureLng,
		},
		Destination: model.PlaceResponse{
			City:      trip.DestinationCity,
			Address:   trip.DestinationAddress,
			Latitude:  trip.DestinationLat,
			Longitude: trip.DestinationLng,
		},
		DepartureTime:  trip.DepartureTime,
		SeatCapacity:   trip.SeatCapacity,
		AvailableSeats: trip.AvailableSeats,
		Price:          trip.Price.Float64(),
		PriceType:      string(trip.PriceType),
		Status:         string(trip.Status),
		CreatedAt:      trip.CreatedAt,
		UpdatedAt:      trip.UpdatedAt,
	}
}

func TripsToResponse(trips []entity.Trip) []model.TripResponse {
	out := make([]model.TripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, *TripToResponse(&trips[i]))
	}
	return out
}

func TripToEvent(trip *entity.Trip, eventType string, now time.Time) *model.TripEvent {
	return &model.TripEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		TripID:         trip.ID,
		DriverID:       trip.DriverID,
		Status:         string(trip.Status),
		AvailableSeats: trip.AvailableSeats,
		OccurredAt:     now,
	}
}
