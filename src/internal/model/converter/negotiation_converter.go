package converter

import (
	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"time"

	"github.com/google/uuid"
)

func NegotiationToResponse(n *entity.Negotiation) *model.NegotiationResponse {
	resp := &model.NegotiationResponse{
		ID:            n.ID,
		TripID:        n.TripID,
		PassengerID:   n.PassengerID,
		DriverID:      n.DriverID,
		Seats:         n.Seats,
		OriginalPrice: n.OriginalPrice.Float64(),
		CurrentOffer:  n.CurrentOffer.Float64(),
		LastOfferBy:   string(n.LastOfferBy),
		Status:        string(n.Status),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		Version:       n.Version,
	}
	if n.BookingID != nil {
		resp.BookingID = *n.BookingID
	}
	for _, m := range n.Messages {
		resp.Messages = append(resp.Messages, model.NegotiationMessageResponse{
			ID:         m.ID,
			SenderRole: string(m.SenderRole),
			SenderID:   m.SenderID,
			Kind:       string(m.Kind),
			Message:    m.Message,
			Offer:      m.Offer.Float64(),
			CreatedAt:  m.CreatedAt,
		})
	}
	return resp
}

func NegotiationsToResponse(negotiations []entity.Negotiation) []model.NegotiationResponse {
	out := make([]model.NegotiationResponse, 0, len(negotiations))
	for i := range negotiations {
		out = append(out, *NegotiationToResponse(&negotiations[i]))
	}
	return out
}

func NegotiationToEvent(n *entity.Negotiation, eventType string, now time.Time) *model.NegotiationEvent {
	event := &model.NegotiationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		NegotiationID: n.ID,
		TripID:        n.TripID,
		DriverID:      n.DriverID,
		PassengerID:   n.PassengerID,
		Status:        string(n.Status),
		CurrentOffer:  n.CurrentOffer.Float64(),
		LastOfferBy:   string(n.LastOfferBy),
		OccurredAt:    now,
	}
	if n.BookingID != nil {
		event.BookingID = *n.BookingID
	}
	return event
}
