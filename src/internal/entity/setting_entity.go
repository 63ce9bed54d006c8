package entity

import "time"

const SettingCommissionRate = "commission_rate_ppm"

type Setting struct {
	Key       string    `db:"setting_key" gorm:"column:setting_key;primaryKey;type:varchar(64)"`
	Value     string    `db:"setting_value" gorm:"column:setting_value;type:varchar(255);not null"`
	UpdatedBy string    `db:"updated_by" gorm:"type:varchar(64);not null;default:''"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
