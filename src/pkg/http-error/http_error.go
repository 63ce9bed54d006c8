package httperror

import (
	"errors"
	"net/http"
)

// Stable reason codes. Clients translate these into user-facing text.
const (
	ReasonInvalidArgument   = "INVALID_ARGUMENT"
	ReasonUnauthorized      = "UNAUTHORIZED"
	ReasonForbidden         = "FORBIDDEN"
	ReasonNotFound          = "NOT_FOUND"
	ReasonInvalidState      = "INVALID_STATE"
	ReasonInvalidTurn       = "INVALID_TURN"
	ReasonConflictingState  = "CONFLICTING_STATE"
	ReasonInsufficientSeats = "INSUFFICIENT_SEATS"
	ReasonNetwork           = "NETWORK_ERROR"
	ReasonInternal          = "INTERNAL"
)

type CommonError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{Code: http.StatusBadRequest, Reason: ReasonInvalidArgument, Message: "Bad Request"}
}

func NewUnauthorized() *CommonError {
	return &CommonError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Unauthorized"}
}

func NewForbidden() *CommonError {
	return &CommonError{Code: http.StatusForbidden, Reason: ReasonForbidden, Message: "Forbidden"}
}

func NewNotFound() *CommonError {
	return &CommonError{Code: http.StatusNotFound, Reason: ReasonNotFound, Message: "Not Found"}
}

func NewInvalidState() *CommonError {
	return &CommonError{Code: http.StatusConflict, Reason: ReasonInvalidState, Message: "Action not allowed in the current state"}
}

func NewInvalidTurn() *CommonError {
	return &CommonError{Code: http.StatusConflict, Reason: ReasonInvalidTurn, Message: "It is not your turn to respond"}
}

func NewConflict() *CommonError {
	return &CommonError{Code: http.StatusConflict, Reason: ReasonConflictingState, Message: "This item was just updated, please refresh"}
}

func NewInsufficientSeats() *CommonError {
	return &CommonError{Code: http.StatusConflict, Reason: ReasonInsufficientSeats, Message: "Not enough seats available"}
}

func NewServiceUnavailable() *CommonError {
	return &CommonError{Code: http.StatusServiceUnavailable, Reason: ReasonNetwork, Message: "Service temporarily unavailable"}
}

func NewInternalServerError() *CommonError {
	return &CommonError{Code: http.StatusInternalServerError, Reason: ReasonInternal, Message: "Internal Server Error"}
}

// As extracts a *CommonError from err, if any.
func As(err error) (*CommonError, bool) {
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
