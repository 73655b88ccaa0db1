package mediator

import (
	"context"
	"time"
)

// beginInference reserves the single in-flight slot. Returns a release func
// to be deferred. The backend is not thread-safe, so everything that touches
// it, completion and token counting alike, runs between acquire and release.
func (m *Mediator) beginInference(ctx context.Context) (func(), error) {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return func() {}, busyError{msg: "shutting down"}
	}

	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case m.genCh <- struct{}{}:
		return func() { <-m.genCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, busyError{msg: "no inference slot within " + m.maxWait.String()}
	}
}
