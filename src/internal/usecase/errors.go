package usecase

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/observability"
	"carpool-service/src/pkg/commission"
	httpError "carpool-service/src/pkg/http-error"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

// toHTTPError maps domain and infrastructure errors onto the public taxonomy.
func toHTTPError(err error) *httpError.CommonError {
	if ce, ok := httpError.As(err); ok {
		return ce
	}

	var errObj *httpError.CommonError
	keepMessage := true
	switch {
	case errors.Is(err, entity.ErrInvalidArgument), errors.Is(err, commission.ErrInvalidArgument):
		errObj = httpError.NewBadRequest()
	case errors.Is(err, entity.ErrForbidden):
		errObj = httpError.NewForbidden()
	case errors.Is(err, entity.ErrNotFound):
		errObj = httpError.NewNotFound()
	case errors.Is(err, entity.ErrInvalidTurn):
		errObj = httpError.NewInvalidTurn()
	case errors.Is(err, entity.ErrInvalidState):
		errObj = httpError.NewInvalidState()
	case errors.Is(err, entity.ErrInsufficientSeats):
		errObj = httpError.NewInsufficientSeats()
	case errors.Is(err, entity.ErrActiveBooking):
		errObj = httpError.NewConflict()
		errObj.Message = entity.ErrActiveBooking.Error()
		keepMessage = false
	case errors.Is(err, entity.ErrConflict):
		errObj = httpError.NewConflict()
		keepMessage = false
	case isTransient(err):
		errObj = httpError.NewServiceUnavailable()
		keepMessage = false
	default:
		errObj = httpError.NewInternalServerError()
		keepMessage = false
	}
	if keepMessage {
		errObj.Message = err.Error()
	}
	return errObj
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, redis.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func countConflict(aggregate string, err error) {
	if errors.Is(err, entity.ErrConflict) {
		observability.OptimisticConflicts.WithLabelValues(aggregate).Inc()
	}
}

func validationError(err error) *httpError.CommonError {
	errObj := httpError.NewBadRequest()
	errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
	return errObj
}
