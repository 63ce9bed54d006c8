package config

import (
	"strings"

	"carpool-service/src/pkg/kafka"
	"carpool-service/src/pkg/log"

	"github.com/spf13/viper"
)

func NewKafkaConfig(viper *viper.Viper) kafka.Cfg {
	var brokers []string
	for _, b := range strings.Split(viper.GetString("kafka.bootstrap.servers"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return kafka.Cfg{
		Brokers:       brokers,
		KafkaUsername: viper.GetString("kafka.username"),
		KafkaPassword: viper.GetString("kafka.password"),
		KafkaCaCert:   viper.GetString("kafka.cacert"),
		AppName:       viper.GetString("kafka.app.name"),
	}
}

// NewKafkaProducer returns a nil Producer when publishing is disabled; the
// messaging producers treat that as a no-op.
func NewKafkaProducer(config *viper.Viper, cfg kafka.Cfg, log log.Log) kafka.Producer {
	if !config.GetBool("kafka.producer.enabled") {
		log.Info("kafka-config", "Kafka producer is disabled in configuration", "kafka", "")
		return nil
	}
	kafkaProducer, err := kafka.NewProducer(cfg, log)
	if err != nil {
		panic(err)
	}

	return kafkaProducer
}
