package orchestration

import "sync"

// serialQueue runs posted closures one at a time, in order. The goroutine
// that posts into an idle queue drains it; posts made while the queue is
// draining, including from inside a running closure, are appended and run
// after the current closure returns.
type serialQueue struct {
	pending  []func()
	draining bool
	mu       sync.Mutex
}

func (q *serialQueue) post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		runRecovered(next)
	}
}

func runRecovered(fn func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("coordinator task panicked", "panic", recovered)
		}
	}()
	fn()
}
