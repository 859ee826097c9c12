package session

import (
	"context"

	"github.com/abuabhi/note-genius/internal/logger"
)

// writeOp is a single queued persistence call. fn runs on the queue
// goroutine; onDone (optional) runs after fn with its result.
type writeOp struct {
	name   string
	fn     func(context.Context) error
	onDone func(error)
}

// writeQueue serializes the tracker's fire-and-forget persistence calls.
// Writes are issued in enqueue order, so a heartbeat can never land after
// the finalize write that was enqueued behind it. Failures are logged and
// never retried.
type writeQueue struct {
	log  *logger.Logger
	ops  chan writeOp
	done chan struct{}
}

func newWriteQueue(log *logger.Logger) *writeQueue {
	q := &writeQueue{
		log:  log,
		ops:  make(chan writeOp, 64),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *writeQueue) run() {
	defer close(q.done)
	ctx := logger.NewContext(context.Background(), q.log)
	for op := range q.ops {
		err := op.fn(ctx)
		if err != nil {
			q.log.Warn("%s write failed: %v", op.name, err)
		} else {
			q.log.Debug("%s write completed", op.name)
		}
		if op.onDone != nil {
			op.onDone(err)
		}
	}
}

// enqueue submits a write without blocking the caller. If the queue is
// full the write is dropped; the next heartbeat carries fresher state
// anyway.
func (q *writeQueue) enqueue(name string, fn func(context.Context) error, onDone func(error)) {
	select {
	case q.ops <- writeOp{name: name, fn: fn, onDone: onDone}:
	default:
		q.log.Warn("write queue full, dropping %s write", name)
		if onDone != nil {
			onDone(context.Canceled)
		}
	}
}

// close stops the queue after draining pending writes.
func (q *writeQueue) close() {
	close(q.ops)
	<-q.done
}
