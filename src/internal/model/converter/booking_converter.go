package converter

import (
	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"time"

	"github.com/google/uuid"
)

func BookingToResponse(b *entity.Booking) *model.BookingResponse {
	resp := &model.BookingResponse{
		ID:             b.ID,
		TripID:         b.TripID,
		PassengerID:    b.PassengerID,
		Seats:          b.Seats,
		TotalPrice:     b.TotalPrice.Float64(),
		AppCommission:  b.AppCommission.Float64(),
		DriverAmount:   b.DriverAmount.Float64(),
		CommissionRate: b.CommissionRate.Float64(),
		Status:         string(b.Status),
		CancelledBy:    b.CancelledBy,
		CancelReason:   b.CancelReason,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		Version:        b.Version,
		ConfirmedAt:    b.ConfirmedAt,
		CompletedAt:    b.CompletedAt,
		CancelledAt:    b.CancelledAt,
	}
	if b.NegotiationID != nil {
		resp.NegotiationID = *b.NegotiationID
	}
	return resp
}

func BookingsToResponse(bookings []entity.Booking) []model.BookingResponse {
	out := make([]model.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *BookingToResponse(&bookings[i]))
	}
	return out
}

func BookingToEvent(b *entity.Booking, driverID, eventType string, now time.Time) *model.BookingEvent {
	return &model.BookingEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		BookingID:     b.ID,
		TripID:        b.TripID,
		DriverID:      driverID,
		PassengerID:   b.PassengerID,
		Seats:         b.Seats,
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice.Float64(),
		AppCommission: b.AppCommission.Float64(),
		DriverAmount:  b.DriverAmount.Float64(),
		OccurredAt:    now,
	}
}
