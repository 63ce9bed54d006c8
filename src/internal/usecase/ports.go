package usecase

import (
	"context"
	"time"

	"carpool-service/src/internal/model"
	"carpool-service/src/pkg/commission"

	"googlemaps.github.io/maps"
)

type EventPublisher interface {
	SendNegotiation(event *model.NegotiationEvent) error
	SendBooking(event *model.BookingEvent) error
	SendTrip(event *model.TripEvent) error
	SendCommission(event *model.CommissionEvent) error
}

// Pusher delivers a notification to whichever of userIDs are connected.
type Pusher interface {
	Push(userIDs []string, notification model.Notification)
}

type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, negotiationID string, version int, at time.Time) error
}

type RateSource interface {
	CurrentRate(ctx context.Context) (commission.Rate, error)
}

// RouteFinder is the part of *maps.Client used for price suggestions.
type RouteFinder interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}
