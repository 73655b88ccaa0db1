package mediator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/backend"
)

// fakeBackend is an in-memory backend for tests. Complete echoes the prompt
// followed by a configured reply; CountTokens counts whitespace-separated
// fields so expectations stay predictable.
type fakeBackend struct {
	reply       string
	completeErr error
	countErr    error

	lastPrompt string
	lastConfig backend.SamplingConfig
	completes  int
	counts     []string
}

func (f *fakeBackend) Complete(_ context.Context, prompt string, sc backend.SamplingConfig) (string, error) {
	f.completes++
	f.lastPrompt = prompt
	f.lastConfig = sc
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return prompt + f.reply, nil
}

func (f *fakeBackend) CountTokens(_ context.Context, text string) (int, error) {
	f.counts = append(f.counts, text)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(strings.Fields(text)), nil
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Close() error { return nil }

// slowBackend sleeps inside Complete and records how many calls overlapped.
type slowBackend struct {
	delay time.Duration

	mu          sync.Mutex
	inflight    int
	maxInflight int
}

func (s *slowBackend) enter() {
	s.mu.Lock()
	s.inflight++
	if s.inflight > s.maxInflight {
		s.maxInflight = s.inflight
	}
	s.mu.Unlock()
}

func (s *slowBackend) leave() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *slowBackend) Complete(_ context.Context, prompt string, _ backend.SamplingConfig) (string, error) {
	s.enter()
	defer s.leave()
	time.Sleep(s.delay)
	return prompt + " ok", nil
}

func (s *slowBackend) CountTokens(_ context.Context, text string) (int, error) {
	s.enter()
	defer s.leave()
	return len(strings.Fields(text)), nil
}

func (s *slowBackend) Name() string { return "slow" }
func (s *slowBackend) Close() error { return nil }

func newTestMediator(b backend.Backend) *Mediator {
	return New(Config{Backend: b, Model: "test-model", MaxWait: 200 * time.Millisecond, Logger: zerolog.Nop()})
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}
