package mediator

import (
	"context"
	"time"

	"inferd/pkg/types"
)

// Service states reported by Status.
const (
	StateReady   = "ready"
	StateStopped = "stopped"
)

func (m *Mediator) noteGeneration() {
	m.mu.Lock()
	m.generations++
	m.mu.Unlock()
}

func (m *Mediator) noteClassification() {
	m.mu.Lock()
	m.classifications++
	m.mu.Unlock()
}

func (m *Mediator) noteFailure(err error) {
	m.mu.Lock()
	m.failures++
	m.lastErr = err.Error()
	m.mu.Unlock()
}

// reject records a request that never reached the backend.
func (m *Mediator) reject(ctx context.Context, method, outcome string, err error) {
	m.logger(ctx).Warn().Err(err).Str("method", method).Msg("request rejected")
	m.noteFailure(err)
	observeRequest(method, outcome, 0)
}

// fail wraps a backend failure in the wire error type and records it.
func (m *Mediator) fail(ctx context.Context, method, opMsg string, err error, start time.Time) *ModelError {
	me := &ModelError{Message: opMsg, Details: err.Error()}
	m.logger(ctx).Error().Err(err).Str("method", method).Msg("backend call failed")
	m.noteFailure(me)
	observeRequest(method, outcomeError, time.Since(start))
	return me
}

// Ready reports whether the mediator still admits requests.
func (m *Mediator) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed
}

// Status builds the status response served by the admin listener.
func (m *Mediator) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state := StateReady
	if m.closed {
		state = StateStopped
	}
	return types.StatusResponse{
		State:                state,
		Backend:              m.backend.Name(),
		Model:                m.model,
		UptimeSeconds:        int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:       time.Now().Unix(),
		Inflight:             len(m.genCh),
		GenerationsTotal:     m.generations,
		ClassificationsTotal: m.classifications,
		FailuresTotal:        m.failures,
		LastError:            m.lastErr,
	}
}
