package entity

import (
	"fmt"
	"time"

	"carpool-service/src/pkg/commission"
)

type Party string

const (
	PartyDriver    Party = "driver"
	PartyPassenger Party = "passenger"
	PartySystem    Party = "system"
)

type NegotiationStatus string

const (
	NegotiationPending  NegotiationStatus = "pending"
	NegotiationAccepted NegotiationStatus = "accepted"
	NegotiationRejected NegotiationStatus = "rejected"
	NegotiationExpired  NegotiationStatus = "expired"
)

type MessageKind string

const (
	MessageOffer        MessageKind = "offer"
	MessageCounterOffer MessageKind = "counter_offer"
	MessageAccept       MessageKind = "accept"
	MessageReject       MessageKind = "reject"
	MessageExpire       MessageKind = "expire"
)

type Negotiation struct {
	ID            string               `db:"id" gorm:"primaryKey;type:char(36)"`
	TripID        string               `db:"trip_id" gorm:"type:char(36);not null;index"`
	PassengerID   string               `db:"passenger_id" gorm:"type:varchar(64);not null;index"`
	DriverID      string               `db:"driver_id" gorm:"type:varchar(64);not null;index"`
	Seats         int                  `db:"seats" gorm:"not null"`
	OriginalPrice commission.Amount    `db:"original_price" gorm:"type:bigint;not null"`
	CurrentOffer  commission.Amount    `db:"current_offer" gorm:"type:bigint;not null"`
	LastOfferBy   Party                `db:"last_offer_by" gorm:"type:varchar(16);not null"`
	Status        NegotiationStatus    `db:"status" gorm:"type:varchar(16);not null;index"`
	BookingID     *string              `db:"booking_id" gorm:"type:char(36)"`
	Version       int                  `db:"version" gorm:"not null;default:0"`
	CreatedAt     time.Time            `db:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at" gorm:"index"`
	Messages      []NegotiationMessage `db:"-" gorm:"-"`
}

func (Negotiation) TableName() string {
	return "negotiations"
}

type NegotiationMessage struct {
	ID            string            `db:"id" gorm:"primaryKey;type:char(36)"`
	NegotiationID string            `db:"negotiation_id" gorm:"type:char(36);not null;index"`
	SenderRole    Party             `db:"sender_role" gorm:"type:varchar(16);not null"`
	SenderID      string            `db:"sender_id" gorm:"type:varchar(64);not null"`
	Kind          MessageKind       `db:"kind" gorm:"type:varchar(16);not null"`
	Message       string            `db:"message" gorm:"type:varchar(500);not null;default:''"`
	Offer         commission.Amount `db:"offer" gorm:"type:bigint;not null"`
	CreatedAt     time.Time         `db:"created_at" gorm:"index"`
}

func (NegotiationMessage) TableName() string {
	return "negotiation_messages"
}

// NewNegotiation opens a negotiation on behalf of a passenger. When proposed is
// nil the opening offer is the listed price for the requested seats.
func NewNegotiation(id, msgID string, trip *Trip, passengerID string, seats int, proposed *commission.Amount, text string, now time.Time) (*Negotiation, error) {
	if passengerID == trip.DriverID {
		return nil, fmt.Errorf("%w: drivers cannot negotiate on their own trip", ErrForbidden)
	}
	if !trip.IsNegotiable() {
		return nil, fmt.Errorf("%w: trip price is fixed", ErrInvalidState)
	}
	if err := trip.CanReserve(seats, now); err != nil {
		return nil, err
	}

	original := trip.PriceFor(seats)
	offer := original
	if proposed != nil {
		offer = *proposed
	}
	if offer <= 0 {
		return nil, fmt.Errorf("%w: offer must be positive", ErrInvalidArgument)
	}

	n := &Negotiation{
		ID:            id,
		TripID:        trip.ID,
		PassengerID:   passengerID,
		DriverID:      trip.DriverID,
		Seats:         seats,
		OriginalPrice: original,
		CurrentOffer:  offer,
		LastOfferBy:   PartyPassenger,
		Status:        NegotiationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	n.appendMessage(msgID, PartyPassenger, passengerID, MessageOffer, text, offer, now)
	return n, nil
}

// RoleOf resolves which side of the negotiation userID is on.
func (n *Negotiation) RoleOf(userID string) (Party, error) {
	switch userID {
	case n.DriverID:
		return PartyDriver, nil
	case n.PassengerID:
		return PartyPassenger, nil
	}
	return "", fmt.Errorf("%w: not a participant", ErrForbidden)
}

func (n *Negotiation) IsTerminal() bool {
	return n.Status != NegotiationPending
}

// checkTurn enforces that only the party who did not make the last offer may respond.
func (n *Negotiation) checkTurn(actor Party) error {
	if n.IsTerminal() {
		return fmt.Errorf("%w: negotiation is %s", ErrInvalidState, n.Status)
	}
	if actor == n.LastOfferBy {
		return fmt.Errorf("%w: waiting for the other party to respond", ErrInvalidTurn)
	}
	return nil
}

func (n *Negotiation) CounterOffer(actor Party, senderID string, price commission.Amount, text, msgID string, now time.Time) error {
	if err := n.checkTurn(actor); err != nil {
		return err
	}
	if price <= 0 {
		return fmt.Errorf("%w: counter offer must be positive", ErrInvalidArgument)
	}
	n.CurrentOffer = price
	n.LastOfferBy = actor
	n.UpdatedAt = now
	n.appendMessage(msgID, actor, senderID, MessageCounterOffer, text, price, now)
	return nil
}

func (n *Negotiation) Accept(actor Party, senderID, text, msgID string, now time.Time) error {
	if err := n.checkTurn(actor); err != nil {
		return err
	}
	n.Status = NegotiationAccepted
	n.UpdatedAt = now
	n.appendMessage(msgID, actor, senderID, MessageAccept, text, n.CurrentOffer, now)
	return nil
}

func (n *Negotiation) Reject(actor Party, senderID, text, msgID string, now time.Time) error {
	if err := n.checkTurn(actor); err != nil {
		return err
	}
	n.Status = NegotiationRejected
	n.UpdatedAt = now
	n.appendMessage(msgID, actor, senderID, MessageReject, text, n.CurrentOffer, now)
	return nil
}

// Expire closes a pending negotiation on behalf of the system.
func (n *Negotiation) Expire(reason, msgID string, now time.Time) error {
	if n.IsTerminal() {
		return fmt.Errorf("%w: negotiation is %s", ErrInvalidState, n.Status)
	}
	n.Status = NegotiationExpired
	n.UpdatedAt = now
	n.appendMessage(msgID, PartySystem, "", MessageExpire, reason, n.CurrentOffer, now)
	return nil
}

// IdleSince reports whether nothing happened on the negotiation for timeout.
func (n *Negotiation) IdleSince(timeout time.Duration, now time.Time) bool {
	return now.Sub(n.UpdatedAt) >= timeout
}

// LastMessage is the message appended by the latest transition.
func (n *Negotiation) LastMessage() *NegotiationMessage {
	if len(n.Messages) == 0 {
		return nil
	}
	return &n.Messages[len(n.Messages)-1]
}

func (n *Negotiation) appendMessage(id string, role Party, senderID string, kind MessageKind, text string, offer commission.Amount, now time.Time) {
	n.Messages = append(n.Messages, NegotiationMessage{
		ID:            id,
		NegotiationID: n.ID,
		SenderRole:    role,
		SenderID:      senderID,
		Kind:          kind,
		Message:       text,
		Offer:         offer,
		CreatedAt:     now,
	})
}
