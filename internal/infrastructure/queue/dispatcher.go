package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher hands user events to a fixed set of workers, sharded by user id
// so events of one user are published in the order they were enqueued.
type Dispatcher struct {
	workers   []chan domain.UserEvent
	publisher ports.UserEventPublisher
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.UserEventQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.UserEventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.UserEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.UserEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx bounds each publish call.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue routes event to the worker owning its user. It never blocks: when
// that worker's buffer is full or the dispatcher is closed the event is dropped.
func (d *Dispatcher) Enqueue(event domain.UserEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.workers[d.shardIndex(event.UserID)] <- event:
		return true
	default:
		return false
	}
}

// Close stops accepting events and waits until the buffered ones are published.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	n := int64(len(d.workers))
	return int(((userID % n) + n) % n)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.UserEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("type", string(event.Type)).
				Int64("user_id", event.UserID).
				Int("worker_id", id).
				Msg("user event publish failed")
		}
	}
}
