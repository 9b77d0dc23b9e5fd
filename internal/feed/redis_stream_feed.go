package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "seats:updates"
	ConsumerGroupName  = "seat-map"
	ConsumerNamePrefix = "seatmap"
	updateField        = "update"
	readBatch          = 10
	claimBatch         = 100
)

// RedisStreamFeedConfig holds the claim and retry settings; nil or zero fields use the defaults.
type RedisStreamFeedConfig struct {
	ClaimMinIdleTime   time.Duration // other consumers' pending entries idle this long are taken over
	MaxRetryCount      int           // entries delivered this many times are discarded as poison
	ReadGroupBlockTime time.Duration
}

func defaultRedisStreamConfig() RedisStreamFeedConfig {
	return RedisStreamFeedConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

// RedisStreamSeatFeed reads seat updates from a Redis Stream through a
// consumer group. A single stream keeps updates for the same seat in the
// order they were added.
//
// Subscribe hands out this consumer's own pending entries first, then idle
// entries left behind by other consumers, then new entries. Give a restarted
// process the same consumer id so its unacked updates come back ahead of
// anything newer.
type RedisStreamSeatFeed struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamFeedConfig
}

// NewRedisStreamSeatFeed creates the consumer group if needed. An empty
// consumerID gets a random one.
func NewRedisStreamSeatFeed(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamFeedConfig) (*RedisStreamSeatFeed, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}

	err := client.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &RedisStreamSeatFeed{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
	}, nil
}

func (f *RedisStreamSeatFeed) Publish(ctx context.Context, update model.SeatUpdate) error {
	payload, err := EncodeSeatUpdate(update)
	if err != nil {
		return err
	}
	err = f.client.XAdd(ctx, &redis.XAddArgs{
		Stream: f.streamKey,
		Values: map[string]interface{}{updateField: string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (f *RedisStreamSeatFeed) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		if !f.replayOwnPending(ctx, out) || !f.claimAbandoned(ctx, out) {
			return
		}
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.claimLoop(ctx, out)
		}()
		f.readLoop(ctx, out)
		wg.Wait()
	}()
	return out, nil
}

func (f *RedisStreamSeatFeed) Close() error {
	return nil
}

// readGroup reads entries after id. ">" means entries never delivered to the
// group; any other id pages through this consumer's pending list.
func (f *RedisStreamSeatFeed) readGroup(ctx context.Context, id string) ([]redis.XMessage, error) {
	streams, err := f.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    f.groupName,
		Consumer: f.consumerName,
		Streams:  []string{f.streamKey, id},
		Count:    readBatch,
		Block:    f.cfg.ReadGroupBlockTime,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, s := range streams {
		if s.Stream == f.streamKey {
			return s.Messages, nil
		}
	}
	return nil, nil
}

func (f *RedisStreamSeatFeed) replayOwnPending(ctx context.Context, out chan<- Delivery) bool {
	lastID := "0"
	for {
		msgs, err := f.readGroup(ctx, lastID)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			logger.WithComponent("feed").Error("reading own pending entries failed", zap.Error(err))
			return true
		}
		if len(msgs) == 0 {
			return true
		}
		if !f.emit(ctx, out, msgs, true) {
			return false
		}
		lastID = msgs[len(msgs)-1].ID
	}
}

func (f *RedisStreamSeatFeed) readLoop(ctx context.Context, out chan<- Delivery) {
	for ctx.Err() == nil {
		msgs, err := f.readGroup(ctx, ">")
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithComponent("feed").Error("XReadGroup failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if !f.emit(ctx, out, msgs, false) {
			return
		}
	}
}

func (f *RedisStreamSeatFeed) claimLoop(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(f.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !f.claimAbandoned(ctx, out) {
				return
			}
		}
	}
}

// claimAbandoned takes over entries other consumers have left pending for at
// least ClaimMinIdleTime. This consumer's own pending entries are skipped:
// they are in flight here and only replayed by the next Subscribe.
func (f *RedisStreamSeatFeed) claimAbandoned(ctx context.Context, out chan<- Delivery) bool {
	start := "-"
	for {
		pending, err := f.client.XPendingExt(ctx, &redis.XPendingExtArgs{
			Stream: f.streamKey,
			Group:  f.groupName,
			Idle:   f.cfg.ClaimMinIdleTime,
			Start:  start,
			End:    "+",
			Count:  claimBatch,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return false
			}
			logger.WithComponent("feed").Error("XPendingExt failed", zap.Error(err))
			return true
		}

		var ids []string
		for _, p := range pending {
			if p.Consumer != f.consumerName {
				ids = append(ids, p.ID)
			}
		}
		if len(ids) > 0 {
			msgs, err := f.client.XClaim(ctx, &redis.XClaimArgs{
				Stream:   f.streamKey,
				Group:    f.groupName,
				Consumer: f.consumerName,
				MinIdle:  f.cfg.ClaimMinIdleTime,
				Messages: ids,
			}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if ctx.Err() != nil {
					return false
				}
				logger.WithComponent("feed").Error("XClaim failed", zap.Error(err))
				return true
			}
			if !f.emit(ctx, out, msgs, true) {
				return false
			}
		}

		if len(pending) < claimBatch {
			return true
		}
		start = "(" + pending[len(pending)-1].ID
	}
}

// emit turns stream entries into deliveries in stream order. Entries that
// were delivered before are checked against MaxRetryCount first.
func (f *RedisStreamSeatFeed) emit(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, redelivered bool) bool {
	var counts map[string]int64
	if redelivered && len(msgs) > 0 {
		counts = f.deliveryCounts(ctx, msgs)
	}
	for _, msg := range msgs {
		if n := counts[msg.ID]; n >= int64(f.cfg.MaxRetryCount) {
			logger.WithComponent("feed").Warn("discard poison message", zap.String("message_id", msg.ID), zap.Int64("deliveries", n), zap.Int("max_retries", f.cfg.MaxRetryCount))
			f.ack(ctx, msg.ID)
			continue
		}
		d := f.newDelivery(ctx, msg)
		if d == nil {
			continue
		}
		select {
		case out <- *d:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// deliveryCounts looks up the delivery counter of msgs in one XPENDING call.
// On error every entry is treated as fresh.
func (f *RedisStreamSeatFeed) deliveryCounts(ctx context.Context, msgs []redis.XMessage) map[string]int64 {
	pending, err := f.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream:   f.streamKey,
		Group:    f.groupName,
		Start:    msgs[0].ID,
		End:      msgs[len(msgs)-1].ID,
		Count:    int64(len(msgs) + readBatch),
		Consumer: f.consumerName,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.WithComponent("feed").Warn("XPendingExt failed", zap.Error(err))
		return nil
	}
	counts := make(map[string]int64, len(pending))
	for _, p := range pending {
		counts[p.ID] = p.RetryCount
	}
	return counts
}

// newDelivery decodes a stream entry. Entries that fail the boundary check
// are acknowledged and dropped so they never reach the applier.
func (f *RedisStreamSeatFeed) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	raw, ok := msg.Values[updateField].(string)
	if !ok {
		logger.WithComponent("feed").Warn("invalid message: missing update field", zap.String("message_id", msg.ID))
		f.ack(ctx, msg.ID)
		return nil
	}
	update, err := DecodeSeatUpdate([]byte(raw))
	if err != nil {
		logger.WithComponent("feed").Warn("rejected seat update", zap.String("message_id", msg.ID), zap.Error(err))
		f.ack(ctx, msg.ID)
		return nil
	}
	msgID := msg.ID
	return &Delivery{
		Data: &update,
		Ack: func() {
			f.ack(ctx, msgID)
		},
		Nack: func(requeue bool) {
			if requeue {
				// stays in the pending list; replayed on the next Subscribe or
				// claimed by another consumer once idle
				logger.WithComponent("feed").Info("message nack(requeue), left pending", zap.String("message_id", msgID))
				return
			}
			f.ack(ctx, msgID)
		},
	}
}

func (f *RedisStreamSeatFeed) ack(ctx context.Context, messageID string) {
	// ctx may already be cancelled when a shutdown nack drops an entry
	if err := f.client.XAck(context.WithoutCancel(ctx), f.streamKey, f.groupName, messageID).Err(); err != nil {
		logger.WithComponent("feed").Error("XAck failed", zap.String("message_id", messageID), zap.Error(err))
	}
}
