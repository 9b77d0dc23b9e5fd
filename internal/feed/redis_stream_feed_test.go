package feed_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedis(context.Background())
	if err != nil {
		log.Printf("redis unavailable, stream tests will be skipped: %v", err)
		os.Exit(m.Run())
	}
	testRdb = rdb
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func requireRedis(t *testing.T) {
	t.Helper()
	if testRdb == nil {
		t.Skip("redis not available")
	}
}

func cleanupStream(ctx context.Context, t *testing.T) {
	t.Helper()
	_ = testRdb.Del(ctx, feed.StreamKey).Err()
}

func fastStreamConfig() *feed.RedisStreamFeedConfig {
	return &feed.RedisStreamFeedConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 100 * time.Millisecond,
	}
}

func TestNewRedisStreamSeatFeed(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	t.Run("Success", func(t *testing.T) {
		f, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, f)
	})

	t.Run("Success - group already exists", func(t *testing.T) {
		_, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "", nil)
		require.NoError(t, err)
	})
}

func TestRedisStreamSeatFeed_PublishSubscribe(t *testing.T) {
	requireRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cleanupStream(ctx, t)

	f, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "sub-test", fastStreamConfig())
	require.NoError(t, err)

	updates := []model.SeatUpdate{
		{ID: "A-1-001", Status: model.SeatStatusHeld},
		{ID: "A-1-001", Status: model.SeatStatusSold},
	}
	for _, u := range updates {
		require.NoError(t, f.Publish(ctx, u))
	}

	ch, err := f.Subscribe(ctx)
	require.NoError(t, err)
	for _, want := range updates {
		d := receive(t, ch)
		assert.Equal(t, want, *d.Data)
		d.Ack()
	}
}

func TestRedisStreamSeatFeed_MalformedEntryDropped(t *testing.T) {
	requireRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cleanupStream(ctx, t)

	f, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "malformed-test", fastStreamConfig())
	require.NoError(t, err)

	require.NoError(t, testRdb.XAdd(ctx, &redis.XAddArgs{Stream: feed.StreamKey, Values: map[string]interface{}{"update": `{"id":"x","status":"bogus"}`}}).Err())
	require.NoError(t, testRdb.XAdd(ctx, &redis.XAddArgs{Stream: feed.StreamKey, Values: map[string]interface{}{"other": "1"}}).Err())
	require.NoError(t, f.Publish(ctx, model.SeatUpdate{ID: "A-2-002", Status: model.SeatStatusReserved}))

	ch, err := f.Subscribe(ctx)
	require.NoError(t, err)
	d := receive(t, ch)
	assert.Equal(t, "A-2-002", d.Data.ID)
	d.Ack()

	assert.Eventually(t, func() bool {
		pending, err := testRdb.XPending(ctx, feed.StreamKey, feed.ConsumerGroupName).Result()
		return err == nil && pending.Count == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func drain(ch <-chan feed.Delivery) {
	for d := range ch {
		d.Nack(true)
	}
}

func TestRedisStreamSeatFeed_ResubscribeReplaysPendingFirst(t *testing.T) {
	requireRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cleanupStream(ctx, t)

	sold := model.SeatUpdate{ID: "A-3-003", Status: model.SeatStatusSold}
	released := model.SeatUpdate{ID: "A-3-003", Status: model.SeatStatusAvailable}

	f, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "restart-test", fastStreamConfig())
	require.NoError(t, err)
	require.NoError(t, f.Publish(ctx, sold))

	subCtx, subCancel := context.WithCancel(ctx)
	ch, err := f.Subscribe(subCtx)
	require.NoError(t, err)
	first := receive(t, ch)
	assert.Equal(t, sold, *first.Data)
	subCancel()
	first.Nack(true)
	drain(ch)

	require.NoError(t, f.Publish(ctx, released))

	restarted, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "restart-test", fastStreamConfig())
	require.NoError(t, err)
	ch, err = restarted.Subscribe(ctx)
	require.NoError(t, err)
	for _, want := range []model.SeatUpdate{sold, released} {
		d := receive(t, ch)
		assert.Equal(t, want, *d.Data)
		d.Ack()
	}
}

func TestRedisStreamSeatFeed_AbandonedEntryClaimed(t *testing.T) {
	requireRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cleanupStream(ctx, t)

	held := model.SeatUpdate{ID: "A-1-002", Status: model.SeatStatusHeld}

	dead, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "dead-consumer", fastStreamConfig())
	require.NoError(t, err)
	require.NoError(t, dead.Publish(ctx, held))

	deadCtx, deadCancel := context.WithCancel(ctx)
	ch, err := dead.Subscribe(deadCtx)
	require.NoError(t, err)
	receive(t, ch)
	deadCancel()
	drain(ch)

	alive, err := feed.NewRedisStreamSeatFeed(ctx, testRdb, "alive-consumer", fastStreamConfig())
	require.NoError(t, err)
	ch, err = alive.Subscribe(ctx)
	require.NoError(t, err)
	d := receive(t, ch)
	assert.Equal(t, held, *d.Data)
	d.Ack()

	assert.Eventually(t, func() bool {
		pending, err := testRdb.XPending(ctx, feed.StreamKey, feed.ConsumerGroupName).Result()
		return err == nil && pending.Count == 0
	}, 2*time.Second, 50*time.Millisecond)
}
