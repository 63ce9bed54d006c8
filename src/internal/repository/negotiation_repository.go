package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const negotiationColumns = `id, trip_id, passenger_id, driver_id, seats, original_price, current_offer,
	last_offer_by, status, booking_id, version, created_at, updated_at`

const messageColumns = `id, negotiation_id, sender_role, sender_id, kind, message, offer, created_at`

type NegotiationRepository struct {
	DB mysql.DBInterface
}

func NewNegotiationRepository(db mysql.DBInterface) *NegotiationRepository {
	return &NegotiationRepository{
		DB: db,
	}
}

// Create opens a negotiation. A passenger keeps at most one pending
// negotiation per trip.
func (r *NegotiationRepository) Create(ctx context.Context, negotiation *entity.Negotiation) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pending int
	err = tx.GetContext(ctx, &pending, `
		SELECT COUNT(*) FROM negotiations
		WHERE trip_id = ? AND passenger_id = ? AND status = ?
		FOR UPDATE
	`, negotiation.TripID, negotiation.PassengerID, entity.NegotiationPending)
	if err != nil {
		return wrapErr("check pending negotiation", err)
	}
	if pending > 0 {
		return fmt.Errorf("a negotiation is already open on this trip: %w", entity.ErrConflict)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO negotiations (`+negotiationColumns+`)
		VALUES (:id, :trip_id, :passenger_id, :driver_id, :seats, :original_price, :current_offer,
			:last_offer_by, :status, :booking_id, :version, :created_at, :updated_at)
	`, negotiation)
	if err != nil {
		return wrapErr("insert negotiation", err)
	}
	for i := range negotiation.Messages {
		if err := insertMessage(ctx, tx, &negotiation.Messages[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit negotiation: %w", err)
	}
	return nil
}

func (r *NegotiationRepository) FindByID(ctx context.Context, id string) (*entity.Negotiation, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var negotiation entity.Negotiation
	err = db.GetContext(ctx, &negotiation, `SELECT `+negotiationColumns+` FROM negotiations WHERE id = ?`, id)
	if err != nil {
		return nil, wrapErr("find negotiation", err)
	}

	messages := []entity.NegotiationMessage{}
	err = db.SelectContext(ctx, &messages, `
		SELECT `+messageColumns+` FROM negotiation_messages
		WHERE negotiation_id = ?
		ORDER BY created_at ASC, id ASC
	`, id)
	if err != nil {
		return nil, wrapErr("list negotiation messages", err)
	}
	negotiation.Messages = messages
	return &negotiation, nil
}

func (r *NegotiationRepository) List(ctx context.Context, filter entity.NegotiationFilter) ([]entity.Negotiation, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	where := []string{"(driver_id = ? OR passenger_id = ?)"}
	args := []interface{}{filter.UserID, filter.UserID}
	if filter.TripID != nil {
		where = append(where, "trip_id = ?")
		args = append(args, *filter.TripID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + negotiationColumns + ` FROM negotiations WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY updated_at DESC`

	negotiations := []entity.Negotiation{}
	if err := db.SelectContext(ctx, &negotiations, query, args...); err != nil {
		return nil, wrapErr("list negotiations", err)
	}
	return negotiations, nil
}

// Update persists a counter-offer, rejection or expiry together with the
// message the transition appended.
func (r *NegotiationRepository) Update(ctx context.Context, negotiation *entity.Negotiation, version int) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateNegotiation(ctx, tx, negotiation, version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit negotiation update: %w", err)
	}
	negotiation.Version = version + 1
	return nil
}

// Settle records an accepted negotiation, takes the seats and inserts the
// booking. Nothing is written when the seats are gone or the passenger
// already holds an active booking on the trip.
func (r *NegotiationRepository) Settle(ctx context.Context, negotiation *entity.Negotiation, version int, booking *entity.Booking) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateNegotiation(ctx, tx, negotiation, version); err != nil {
		return err
	}
	if err := reserveSeats(ctx, tx, booking.TripID, booking.Seats, booking.CreatedAt); err != nil {
		return err
	}
	if err := ensureNoActiveBooking(ctx, tx, booking.TripID, booking.PassengerID); err != nil {
		return err
	}
	if err := insertBooking(ctx, tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settle: %w", err)
	}
	negotiation.Version = version + 1
	return nil
}

func (r *NegotiationRepository) ListIdlePending(ctx context.Context, idleBefore time.Time, limit int) ([]entity.Negotiation, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	negotiations := []entity.Negotiation{}
	err = db.SelectContext(ctx, &negotiations, `
		SELECT `+negotiationColumns+` FROM negotiations
		WHERE status = ? AND updated_at <= ?
		ORDER BY updated_at ASC
		LIMIT ?
	`, entity.NegotiationPending, idleBefore, limit)
	if err != nil {
		return nil, wrapErr("list idle negotiations", err)
	}
	return negotiations, nil
}

func (r *NegotiationRepository) ListUpdatedSince(ctx context.Context, userID string, since time.Time) ([]entity.Negotiation, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	negotiations := []entity.Negotiation{}
	err = db.SelectContext(ctx, &negotiations, `
		SELECT `+negotiationColumns+` FROM negotiations
		WHERE (driver_id = ? OR passenger_id = ?) AND updated_at > ?
		ORDER BY updated_at ASC
	`, userID, userID, since)
	if err != nil {
		return nil, wrapErr("list updated negotiations", err)
	}
	return negotiations, nil
}

func updateNegotiation(ctx context.Context, tx *sqlx.Tx, negotiation *entity.Negotiation, version int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE negotiations
		SET current_offer = ?, last_offer_by = ?, status = ?, booking_id = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, negotiation.CurrentOffer, negotiation.LastOfferBy, negotiation.Status, negotiation.BookingID,
		negotiation.UpdatedAt, negotiation.ID, version)
	if err != nil {
		return wrapErr("update negotiation", err)
	}
	if err := affectedOne(res, "update negotiation"); err != nil {
		return err
	}
	if msg := negotiation.LastMessage(); msg != nil {
		return insertMessage(ctx, tx, msg)
	}
	return nil
}

func insertMessage(ctx context.Context, tx *sqlx.Tx, msg *entity.NegotiationMessage) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO negotiation_messages (`+messageColumns+`)
		VALUES (:id, :negotiation_id, :sender_role, :sender_id, :kind, :message, :offer, :created_at)
	`, msg)
	return wrapErr("insert negotiation message", err)
}
