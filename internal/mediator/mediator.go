package mediator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/backend"
)

// Defaults applied when corresponding Config fields are unset.
const defaultMaxWait = 120 * time.Second

// previewLen caps prompt and reply excerpts in log lines.
const previewLen = 50

// Config encapsulates all tunables for Mediator construction.
type Config struct {
	// Backend is the loaded model runtime. Required.
	Backend backend.Backend
	// Model is the display name reported by Status.
	Model string
	// MaxWait bounds how long a request may wait for the inference slot
	// before being rejected as busy.
	MaxWait time.Duration
	// Logger is the fallback logger for requests whose context carries none.
	Logger zerolog.Logger
}

// Mediator owns the single backend instance and serializes every call into
// it. Safe for concurrent use by multiple connection handlers; the backend
// itself never sees overlapping calls.
type Mediator struct {
	backend backend.Backend
	model   string
	maxWait time.Duration
	log     zerolog.Logger

	// genCh is the single in-flight slot; holding its one token grants
	// exclusive backend access.
	genCh chan struct{}

	mu              sync.RWMutex
	closed          bool
	generations     uint64
	classifications uint64
	failures        uint64
	lastErr         string

	startTime time.Time
}

// New constructs a Mediator around an already-loaded backend. The backend is
// owned by the Mediator from here on; Close releases it.
func New(cfg Config) *Mediator {
	m := &Mediator{
		backend:   cfg.Backend,
		model:     cfg.Model,
		maxWait:   cfg.MaxWait,
		log:       cfg.Logger,
		genCh:     make(chan struct{}, 1),
		startTime: time.Now(),
	}
	if m.maxWait <= 0 {
		m.maxWait = defaultMaxWait
	}
	return m
}

// Close stops admitting requests, waits for the in-flight call to finish,
// and releases the backend.
func (m *Mediator) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	// Take the slot so no call is mid-backend while freeing resources.
	m.genCh <- struct{}{}
	defer func() { <-m.genCh }()
	return m.backend.Close()
}

// logger prefers the request-scoped logger carried in ctx over the
// construction-time fallback.
func (m *Mediator) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &m.log
}

// preview truncates s for log lines.
func preview(s string) string {
	if len(s) > previewLen {
		return s[:previewLen] + "..."
	}
	return s
}
