package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/commission"
	"carpool-service/src/pkg/databases/mysql"
)

type SettingRepository struct {
	DB mysql.DBInterface
}

func NewSettingRepository(db mysql.DBInterface) *SettingRepository {
	return &SettingRepository{
		DB: db,
	}
}

// GetCommissionRate reports false when no rate was ever stored.
func (r *SettingRepository) GetCommissionRate(ctx context.Context) (commission.Rate, bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, false, err
	}

	var value string
	err = db.GetContext(ctx, &value, `SELECT setting_value FROM settings WHERE setting_key = ?`, entity.SettingCommissionRate)
	if err != nil {
		err = wrapErr("find commission rate", err)
		if errors.Is(err, entity.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	ppm, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, wrapErr("parse commission rate", err)
	}
	return commission.Rate(ppm), true, nil
}

func (r *SettingRepository) SaveCommissionRate(ctx context.Context, rate commission.Rate, updatedBy string, now time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO settings (setting_key, setting_value, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value), updated_by = VALUES(updated_by), updated_at = VALUES(updated_at)
	`, entity.SettingCommissionRate, strconv.FormatInt(int64(rate), 10), updatedBy, now)
	return wrapErr("save commission rate", err)
}
