package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaFeedConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// KafkaSeatFeed publishes updates keyed by seat id, so every update for one
// seat lands on the same partition and keeps its order.
type KafkaSeatFeed struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaSeatFeed(cfg KafkaFeedConfig) *KafkaSeatFeed {
	return &KafkaSeatFeed{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			GroupID: cfg.ConsumerGroup,
		}),
	}
}

func (f *KafkaSeatFeed) Publish(ctx context.Context, update model.SeatUpdate) error {
	payload, err := EncodeSeatUpdate(update)
	if err != nil {
		return err
	}
	if err := f.writer.WriteMessages(ctx, kafka.Message{Key: []byte(update.ID), Value: payload}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Subscribe fetches without auto-commit and holds one message at a time:
// the next fetch waits until the current delivery is settled. Ack and
// Nack(false) commit the offset. Nack(true) hands the same message out
// again, so no later offset is committed past it. A message still unsettled
// when ctx ends stays uncommitted and is read again by the group.
func (f *KafkaSeatFeed) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			msg, err := f.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				logger.WithComponent("feed").Error("kafka fetch failed", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			update, err := DecodeSeatUpdate(msg.Value)
			if err != nil {
				logger.WithComponent("feed").Warn("rejected seat update", zap.Int64("offset", msg.Offset), zap.Int("partition", msg.Partition), zap.Error(err))
				f.commit(ctx, msg)
				continue
			}

			commit := func() { f.commit(ctx, msg) }
			if !deliverUntilSettled(ctx, out, update, commit) {
				return
			}
		}
	}()

	return out, nil
}

// deliverUntilSettled returns false when ctx ends first.
func deliverUntilSettled(ctx context.Context, out chan<- Delivery, update model.SeatUpdate, commit func()) bool {
	for {
		requeue := make(chan bool, 1)
		var once sync.Once
		settle := func(again bool) {
			once.Do(func() { requeue <- again })
		}
		data := update
		d := Delivery{
			Data: &data,
			Ack: func() {
				commit()
				settle(false)
			},
			Nack: func(again bool) {
				if !again {
					commit()
				}
				settle(again)
			},
		}

		select {
		case out <- d:
		case <-ctx.Done():
			return false
		}
		select {
		case again := <-requeue:
			if !again {
				return true
			}
			logger.WithComponent("feed").Info("kafka nack(requeue), redelivering", zap.String("seat_id", update.ID))
		case <-ctx.Done():
			return false
		}
	}
}

func (f *KafkaSeatFeed) commit(ctx context.Context, msg kafka.Message) {
	if err := f.reader.CommitMessages(ctx, msg); err != nil {
		logger.WithComponent("feed").Error("kafka commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

func (f *KafkaSeatFeed) Close() error {
	return errors.Join(f.reader.Close(), f.writer.Close())
}
