package feed

import (
	"context"
	"sync"

	"go-gin-seat-map/internal/model"
)

// MemorySeatFeed simulates the push channel with a buffered Go channel.
// One delivery is in flight at a time; the next update is handed out only
// after the previous one is acked or nacked.
type MemorySeatFeed struct {
	ch   chan model.SeatUpdate
	mu   sync.Mutex
	redo []model.SeatUpdate // requeued updates, served newest-first before ch
}

func NewMemorySeatFeed(bufferSize int) *MemorySeatFeed {
	return &MemorySeatFeed{
		ch: make(chan model.SeatUpdate, bufferSize),
	}
}

func (f *MemorySeatFeed) Publish(ctx context.Context, update model.SeatUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	select {
	case f.ch <- update:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *MemorySeatFeed) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			update, ok := f.next(ctx)
			if !ok {
				return
			}

			settled := make(chan struct{})
			var once sync.Once
			settle := func(requeue bool) {
				once.Do(func() {
					if requeue {
						f.pushFront(update)
					}
					close(settled)
				})
			}
			d := Delivery{
				Data: &update,
				Ack:  func() { settle(false) },
				Nack: settle,
			}

			select {
			case out <- d:
			case <-ctx.Done():
				f.pushFront(update)
				return
			}
			select {
			case <-settled:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (f *MemorySeatFeed) next(ctx context.Context) (model.SeatUpdate, bool) {
	f.mu.Lock()
	if n := len(f.redo); n > 0 {
		update := f.redo[n-1]
		f.redo = f.redo[:n-1]
		f.mu.Unlock()
		return update, true
	}
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return model.SeatUpdate{}, false
	case update := <-f.ch:
		return update, true
	}
}

func (f *MemorySeatFeed) pushFront(update model.SeatUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redo = append(f.redo, update)
}

func (f *MemorySeatFeed) Close() error {
	return nil
}
