package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"time"

	"carpool-service/src/pkg/log"

	"github.com/IBM/sarama"
)

type Producer interface {
	Publish(topic string, key, value []byte) error
	Close() error
}

type Cfg struct {
	Brokers       []string
	KafkaUsername string
	KafkaPassword string
	KafkaCaCert   string
	AppName       string
}

func decodeKey(secret string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// NewSaramaConfig builds a producer configuration. SASL/TLS is enabled when a
// username is configured; the CA certificate is base64 encoded PEM.
func NewSaramaConfig(cfg Cfg) (*sarama.Config, error) {
	c := sarama.NewConfig()
	c.ClientID = cfg.AppName
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Return.Successes = true
	c.Producer.Retry.Max = 5
	c.Producer.Retry.Backoff = 500 * time.Millisecond
	c.Producer.Timeout = 5 * time.Second
	c.Net.DialTimeout = 5 * time.Second
	c.Metadata.Retry.Backoff = 200 * time.Millisecond

	if cfg.KafkaUsername != "" {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = cfg.KafkaUsername
		c.Net.SASL.Password = cfg.KafkaPassword
		c.Net.TLS.Enable = true

		tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.KafkaCaCert != "" {
			ca, err := decodeKey(cfg.KafkaCaCert)
			if err != nil {
				return nil, fmt.Errorf("decode kafka ca cert: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM([]byte(ca)) {
				return nil, fmt.Errorf("kafka ca cert contains no certificates")
			}
			tlsCfg.RootCAs = pool
		}
		c.Net.TLS.Config = tlsCfg
	}
	return c, nil
}

type syncProducer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewProducer(cfg Cfg, logger log.Log) (Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	saramaCfg, err := NewSaramaConfig(cfg)
	if err != nil {
		return nil, err
	}
	sp, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: create producer: %w", err)
	}
	return WrapSyncProducer(sp, logger), nil
}

// WrapSyncProducer adapts an existing sarama producer (mocks included).
func WrapSyncProducer(sp sarama.SyncProducer, logger log.Log) Producer {
	return &syncProducer{producer: sp, log: logger}
}

func (p *syncProducer) Publish(topic string, key, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	p.log.Info("kafka-producer", "message delivered", topic, fmt.Sprintf("partition=%d offset=%d", partition, offset))
	return nil
}

func (p *syncProducer) Close() error {
	return p.producer.Close()
}
