package worker

import (
	"context"
	"errors"
	"time"

	"go-gin-seat-map/internal/feed"
	"go-gin-seat-map/internal/service"
	apperrors "go-gin-seat-map/pkg/app_errors"
	"go-gin-seat-map/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type SeatUpdateWorker interface {
	// 訂閱座位更新 feed，依到達順序套用到 venue
	Start(ctx context.Context) error
	// 訂閱結束 (ctx 取消或 feed 關閉) 後關閉
	Done() <-chan struct{}
}

type SeatUpdateWorkerImpl struct {
	venues       service.VenueService
	feed         feed.SeatFeed
	done         chan struct{}
	initialRetry time.Duration
	maxRetry     time.Duration
}

type Option func(*SeatUpdateWorkerImpl)

// WithRetryBackoff sets the wait before the first retry of a failed update
// and the cap the wait grows to.
func WithRetryBackoff(initial, maxWait time.Duration) Option {
	return func(w *SeatUpdateWorkerImpl) {
		w.initialRetry = initial
		w.maxRetry = maxWait
	}
}

func NewSeatUpdateWorker(venues service.VenueService, seatFeed feed.SeatFeed, opts ...Option) SeatUpdateWorker {
	w := &SeatUpdateWorkerImpl{
		venues:       venues,
		feed:         seatFeed,
		done:         make(chan struct{}),
		initialRetry: 100 * time.Millisecond,
		maxRetry:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *SeatUpdateWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.feed.Subscribe(ctx)
	if err != nil {
		close(w.done)
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
		logger.WithComponent("worker").Info("seat update worker stopped")
	}()
	return nil
}

func (w *SeatUpdateWorkerImpl) Done() <-chan struct{} {
	return w.done
}

func (w *SeatUpdateWorkerImpl) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.initialRetry
	b.MaxInterval = w.maxRetry
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(b, ctx)
}

func isInvalidUpdate(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrInvalidSeatStatus)
}

// handle retries a failed update in place until it applies, so nothing
// queued behind it is applied first. Applied and no-op updates are acked,
// invalid ones dropped. Nack(requeue) only happens when ctx ends mid-retry.
func (w *SeatUpdateWorkerImpl) handle(ctx context.Context, msg feed.Delivery) {
	log := logger.WithComponent("worker").With(zap.String("seat_id", msg.Data.ID), zap.String("status", string(msg.Data.Status)))

	apply := func() error {
		_, err := w.venues.ApplyUpdate(ctx, *msg.Data)
		if isInvalidUpdate(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Error("seat update not applied, retrying", zap.Error(err), zap.Duration("retry_in", wait))
	}

	err := backoff.RetryNotify(apply, w.newBackOff(ctx), notify)
	switch {
	case err == nil:
		msg.Ack()
	case isInvalidUpdate(err):
		log.Warn("dropping invalid seat update", zap.Error(err))
		msg.Nack(false)
	default:
		log.Warn("worker stopping, seat update left for redelivery", zap.Error(err))
		msg.Nack(true)
	}
}
