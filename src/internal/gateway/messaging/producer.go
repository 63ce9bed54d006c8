package messaging

import (
	"encoding/json"

	"carpool-service/src/internal/model"
	"carpool-service/src/pkg/kafka"
	"carpool-service/src/pkg/log"
)

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

// Send is a no-op when the kafka producer is disabled.
func (p *Producer[T]) Send(event T) error {
	if p.Producer == nil {
		return nil
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	err = p.Producer.Publish(p.Topic, []byte(event.GetId()), value)
	if err != nil {
		p.Log.Error("send-event", "error send message", "send", err.Error())
		return err
	}

	return nil
}
