package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/interfaces"
	"go.uber.org/zap"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
}

func NewKafkaConsumer(broker, topic, groupID, username, password, serviceName string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		Dialer:   dialer,
		MinBytes: 1,
		MaxBytes: 10e6, //10MB
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: serviceName,
	}
}

// Listen blocks until ctx is cancelled. Handler failures are logged and the
// message is still committed; notifications are best effort.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	log := zap.S().With("service", kc.ServiceName)
	defer kc.Reader.Close()

	for {
		msg, err := kc.Reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			log.Errorw("read message failed", "error", err)
			continue
		}

		log.Debugw("message received", "key", string(msg.Key), "partition", msg.Partition, "offset", msg.Offset)

		if err := kc.Handler.HandleMessage(ctx, string(msg.Key), msg.Value); err != nil {
			log.Errorw("handle message failed", "key", string(msg.Key), "error", err)
		}

		if err := kc.Reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Errorw("commit message failed", "offset", msg.Offset, "error", err)
		}
	}
}
