package config

import (
	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/databases/mysql"
	"carpool-service/src/pkg/log"

	"github.com/spf13/viper"
)

func NewDatabase(viper *viper.Viper, log log.Log) mysql.DBInterface {
	db, err := mysql.InitConnection(viper, log)
	if err != nil {
		log.Error("database init", err.Error(), "config", "")
		panic(err)
	}

	if viper.GetBool("database.auto_migrate") {
		err := mysql.AutoMigrate(db,
			&entity.Trip{},
			&entity.Booking{},
			&entity.Negotiation{},
			&entity.NegotiationMessage{},
			&entity.Setting{},
		)
		if err != nil {
			log.Error("database init", err.Error(), "migrate", "")
			panic(err)
		}
		log.Info("database init", "schema migrated", "migrate", "")
	}

	return db
}
