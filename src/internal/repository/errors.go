package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"carpool-service/src/internal/entity"

	driver "github.com/go-sql-driver/mysql"
)

const (
	mysqlDuplicateEntry = 1062
	mysqlDeadlock       = 1213
	mysqlLockWait       = 1205
)

// wrapErr maps driver errors onto domain errors and keeps the rest wrapped.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	var me *driver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry, mysqlDeadlock, mysqlLockWait:
			return fmt.Errorf("%s: %w (%v)", op, entity.ErrConflict, me)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func affectedOne(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrConflict)
	}
	return nil
}
