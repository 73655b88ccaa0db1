package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/backend"
	"inferd/internal/httpapi"
	"inferd/internal/mediator"
	"inferd/internal/rpc"
)

// fakeLlama emulates the llama.cpp server HTTP surface: /health, /tokenize
// and /completion. Tokens are whitespace words, completions are canned.
type fakeLlama struct {
	srv   *httptest.Server
	reply string

	// block, when non-nil, parks /completion until the channel is closed.
	block chan struct{}
	// started is closed once the first /completion request arrives.
	started   chan struct{}
	startOnce sync.Once

	mu          sync.Mutex
	completions int
	lastPredict int
	lastTemp    float64
	lastTopK    int
}

func newFakeLlama(t *testing.T, reply string) *fakeLlama {
	t.Helper()
	f := &fakeLlama{reply: reply, started: make(chan struct{})}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/tokenize", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tokens := make([]int, len(strings.Fields(in.Content)))
		for i := range tokens {
			tokens[i] = i + 1
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"tokens": tokens})
	})
	mux.HandleFunc("/completion", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Prompt      string  `json:"prompt"`
			NPredict    int     `json:"n_predict"`
			Temperature float64 `json:"temperature"`
			TopK        int     `json:"top_k"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.startOnce.Do(func() { close(f.started) })
		if f.block != nil {
			<-f.block
		}
		f.mu.Lock()
		f.completions++
		f.lastPredict = in.NPredict
		f.lastTemp = in.Temperature
		f.lastTopK = in.TopK
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"content": f.reply})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeLlama) snapshot() (completions, predict, topK int, temp float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completions, f.lastPredict, f.lastTopK, f.lastTemp
}

// stack is the whole service wired in-process: HTTP-backed runtime, mediator,
// thrift RPC listener and admin mux, plus a connected RPC client.
type stack struct {
	addr   string
	client *rpc.Client
	admin  *httptest.Server
	med    *mediator.Mediator
}

func startStack(t *testing.T, llamaURL string, maxWait time.Duration) *stack {
	t.Helper()
	b, err := backend.NewServer(backend.ServerConfig{
		BaseURL:        llamaURL,
		RequestTimeout: 2 * time.Minute,
		ConnectTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	med := mediator.New(mediator.Config{
		Backend: b,
		Model:   "fake.gguf",
		MaxWait: maxWait,
		Logger:  zerolog.Nop(),
	})
	t.Cleanup(func() { _ = med.Close() })

	srv, err := rpc.NewServer("127.0.0.1:0", rpc.NewHandler(med, zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("rpc server: %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("rpc listen: %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Stop() })

	admin := httptest.NewServer(httpapi.NewMux(med))
	t.Cleanup(admin.Close)

	client, err := rpc.Dial(srv.Addr().String(), 2*time.Second, 2*time.Minute)
	if err != nil {
		t.Fatalf("rpc dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return &stack{addr: srv.Addr().String(), client: client, admin: admin, med: med}
}

func adminGet(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return resp.StatusCode, body
}
