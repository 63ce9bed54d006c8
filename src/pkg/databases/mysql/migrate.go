package mysql

import (
	"fmt"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AutoMigrate creates or updates the tables for models. Queries at runtime go
// through sqlx; gorm is only used for schema management.
func AutoMigrate(conn DBInterface, models ...interface{}) error {
	db, err := conn.GetDB()
	if err != nil {
		return err
	}
	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: db.DB}), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("mysql: open gorm: %w", err)
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("mysql: auto migrate: %w", err)
	}
	return nil
}
