package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// NewViper reads config.yaml from the working directory or ./config. Every key
// can be overridden from the environment, e.g. CARPOOL_DATABASE_HOST.
func NewViper() *viper.Viper {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")
	config.AddConfigPath("./config")
	config.SetEnvPrefix("CARPOOL")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	return config
}
