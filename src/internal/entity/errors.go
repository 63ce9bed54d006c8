package entity

import "errors"

// Domain errors. Use cases translate them into the HTTP taxonomy.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidState      = errors.New("action not allowed in current state")
	ErrInvalidTurn       = errors.New("not this party's turn")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("concurrent update")
	ErrInsufficientSeats = errors.New("insufficient seats")
	ErrActiveBooking     = errors.New("passenger already holds an active booking on this trip")
)
