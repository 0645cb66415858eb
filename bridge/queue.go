package bridge

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/otio-bridge/errors"
)

// QueueConfig configures a Queue.
type QueueConfig struct {
	// Depth is the number of calls that may wait to run (default: 64).
	Depth int
}

// Queue funnels calls from many goroutines through one worker goroutine,
// so the bridge and engine only ever see a single thread.
type Queue struct {
	b         *Bridge
	calls     chan call
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type call struct {
	fn     func(*Bridge) error
	result chan error
}

// NewQueue starts a worker serving b.
func NewQueue(b *Bridge, cfg QueueConfig) *Queue {
	if cfg.Depth <= 0 {
		cfg.Depth = 64
	}
	q := &Queue{
		b:     b,
		calls: make(chan call, cfg.Depth),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		select {
		case <-q.stop:
			return
		case c := <-q.calls:
			c.result <- q.run(c.fn)
		}
	}
}

func (q *Queue) run(fn func(*Bridge) error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*errors.Error); ok && e.Kind == errors.KindCorrupt {
			panic(r)
		}
		q.b.log.Error("queued call panicked", zap.Any("panic", r))
		err = errors.Wrap(errors.PhaseDispatch, errors.KindEngine, fmt.Errorf("panic: %v", r), "queued call panicked")
	}()
	return fn(q.b)
}

// Do runs fn on the worker and returns its error. ctx bounds only the wait
// for a queue slot; once queued the call runs to completion.
func (q *Queue) Do(ctx context.Context, fn func(*Bridge) error) error {
	c := call{fn: fn, result: make(chan error, 1)}

	select {
	case <-q.stop:
		return errors.Closed(errors.PhaseDispatch, "queue")
	default:
	}

	select {
	case q.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.stop:
		return errors.Closed(errors.PhaseDispatch, "queue")
	}

	select {
	case err := <-c.result:
		return err
	case <-q.done:
		select {
		case err := <-c.result:
			return err
		default:
			return errors.Closed(errors.PhaseDispatch, "queue")
		}
	}
}

// Close stops the worker. Calls still waiting fail with a closed error.
// The bridge itself is left open.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.stop)
	})
	<-q.done
}
