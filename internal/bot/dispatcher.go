package bot

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// HandlerFunc processes a single event.
type HandlerFunc func(ctx context.Context, ev Event)

// Dispatcher runs events of one user strictly in arrival order while events
// of different users run in parallel, at most workers at a time.
type Dispatcher struct {
	ctx     context.Context
	handler HandlerFunc
	sem     chan struct{}
	logger  *zap.Logger

	mu     sync.Mutex
	queues map[int64][]Event
	wg     sync.WaitGroup
	closed bool
}

func NewDispatcher(ctx context.Context, handler HandlerFunc, workers int, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		ctx:     ctx,
		handler: handler,
		sem:     make(chan struct{}, workers),
		logger:  logger,
		queues:  make(map[int64][]Event),
	}
}

// Dispatch queues the event. It never blocks on event processing.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("Event dropped, dispatcher is closed", zap.Int64("user_id", ev.UserID))
		return
	}

	queue, running := d.queues[ev.UserID]
	d.queues[ev.UserID] = append(queue, ev)
	if running {
		return
	}

	d.wg.Add(1)
	go d.drain(ev.UserID)
}

// Close stops accepting events and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
}

// drain owns the user's queue until it is empty. The map entry exists for
// as long as a drain goroutine runs for that user.
func (d *Dispatcher) drain(userID int64) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.queues[userID]
		if len(queue) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		ev := queue[0]
		d.queues[userID] = queue[1:]
		d.mu.Unlock()

		d.sem <- struct{}{}
		d.run(ev)
		<-d.sem
	}
}

func (d *Dispatcher) run(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Event handler panicked",
				zap.Int64("user_id", ev.UserID),
				zap.String("kind", string(ev.Kind)),
				zap.String("panic", fmt.Sprint(r)),
				zap.Stack("stack"),
			)
		}
	}()
	d.handler(d.ctx, ev)
}
