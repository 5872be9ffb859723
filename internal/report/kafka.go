package report

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Broker string
	Topic  string
}

// KafkaSink публикует строки отчёта в топик Kafka в JSON с методом в качестве ключа.
type KafkaSink struct {
	writer KafkaWriter
}

func NewKafkaSink(cfg KafkaConfig) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Broker),
			Topic:                  cfg.Topic,
			AllowAutoTopicCreation: true,
		},
	}
}

// Write синхронно сериализует строку и отправляет её через KafkaWriter.
func (s *KafkaSink) Write(ctx context.Context, row Row) error {
	b, err := row.Bytes()
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(row.Method),
		Value: b,
	})
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}

	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
