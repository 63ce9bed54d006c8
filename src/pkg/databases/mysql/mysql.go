package mysql

import (
	"context"
	"fmt"
	"time"

	"carpool-service/src/pkg/log"

	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	DSN() string
	Close() error
}

type Connection struct {
	db  *sqlx.DB
	dsn string
}

func (c *Connection) GetDB() (*sqlx.DB, error) {
	if c.db == nil {
		return nil, fmt.Errorf("mysql: connection not initialised")
	}
	return c.db, nil
}

func (c *Connection) DSN() string {
	return c.dsn
}

func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NewConnection wraps an existing handle, used by tests with a fake driver.
func NewConnection(db *sqlx.DB) *Connection {
	return &Connection{db: db}
}

func BuildDSN(v *viper.Viper) string {
	cfg := driver.NewConfig()
	cfg.User = v.GetString("database.username")
	cfg.Passwd = v.GetString("database.password")
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", v.GetString("database.host"), v.GetInt("database.port"))
	cfg.DBName = v.GetString("database.name")
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// InitConnection opens the pool and retries the first ping, the database may
// still be starting when the service boots.
func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := BuildDSN(v)
	maxRetries := v.GetInt("database.connect_retries")
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var (
		db  *sqlx.DB
		err error
	)
	for i := 1; i <= maxRetries; i++ {
		db, err = sqlx.Open("mysql", dsn)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = db.PingContext(ctx)
			cancel()
		}
		if err == nil {
			break
		}
		logger.Error("mysql", fmt.Sprintf("database not ready (attempt %d/%d): %v", i, maxRetries, err), "InitConnection", "")
		if db != nil {
			_ = db.Close()
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("mysql: connect: %w", err)
	}

	db.SetMaxOpenConns(v.GetInt("database.pool.max_open"))
	db.SetMaxIdleConns(v.GetInt("database.pool.max_idle"))
	db.SetConnMaxLifetime(v.GetDuration("database.pool.max_lifetime"))
	logger.Info("mysql", "database connected", "InitConnection", v.GetString("database.host"))

	return &Connection{db: db, dsn: dsn}, nil
}
