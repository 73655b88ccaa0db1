package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// serverBackend implements Backend by talking to a running llama.cpp server
// over its native HTTP endpoints (/completion, /tokenize, /health). The
// server process owns the weights; this side is a thin client.
type serverBackend struct {
	baseURL        string
	reqTimeout     time.Duration
	connectTimeout time.Duration
	httpClient     *http.Client
}

// ServerConfig configures the HTTP-backed runtime.
type ServerConfig struct {
	BaseURL string
	// RequestTimeout bounds a single completion or tokenize call; 0 means no
	// bound beyond the caller's context.
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

// NewServer constructs the HTTP-backed runtime and probes its health
// endpoint. An unreachable server is a startup failure, not a per-request
// error.
func NewServer(cfg ServerConfig) (Backend, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0 on the client: per-request deadlines come from context
	// so a long completion is not cut off by a transport-wide setting.
	b := &serverBackend{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		reqTimeout:     cfg.RequestTimeout,
		connectTimeout: connectTimeout,
		httpClient:     &http.Client{Transport: tr, Timeout: 0},
	}
	if err := b.probe(context.Background()); err != nil {
		return nil, ErrUnavailable("llama server not reachable at " + b.baseURL + ": " + err.Error())
	}
	return b, nil
}

func (b *serverBackend) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.connectTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("health check returned " + resp.Status)
	}
	return nil
}

// completionRequest is the native llama.cpp server payload. Temperature and
// top_k are always sent explicitly: zero values are meaningful (greedy
// decoding, filter disabled) and must not fall back to server defaults.
type completionRequest struct {
	Prompt        string  `json:"prompt"`
	NPredict      int     `json:"n_predict"`
	Temperature   float32 `json:"temperature"`
	TopK          int     `json:"top_k"`
	TopP          float32 `json:"top_p"`
	RepeatPenalty float32 `json:"repeat_penalty"`
	Stream        bool    `json:"stream"`
}

type completionResponse struct {
	Content string `json:"content"`
}

type tokenizeRequest struct {
	Content string `json:"content"`
}

type tokenizeResponse struct {
	Tokens []int `json:"tokens"`
}

func (b *serverBackend) Complete(ctx context.Context, prompt string, sc SamplingConfig) (string, error) {
	promptTokens, err := b.CountTokens(ctx, prompt)
	if err != nil {
		return "", err
	}
	payload := completionRequest{
		Prompt:        prompt,
		NPredict:      completionBudget(sc.MaxLength, promptTokens),
		Temperature:   sc.Temperature,
		TopK:          sc.effectiveTopK(),
		TopP:          sc.TopP,
		RepeatPenalty: sc.effectivePenalty(),
		Stream:        false,
	}
	var out completionResponse
	if err := b.postJSON(ctx, "/completion", payload, &out); err != nil {
		return "", err
	}
	// The native endpoint returns the completion only; echo the prompt back
	// so callers always see the full sequence.
	return prompt + out.Content, nil
}

func (b *serverBackend) CountTokens(ctx context.Context, text string) (int, error) {
	var out tokenizeResponse
	if err := b.postJSON(ctx, "/tokenize", tokenizeRequest{Content: text}, &out); err != nil {
		return 0, err
	}
	return len(out.Tokens), nil
}

func (b *serverBackend) Name() string { return "server" }

func (b *serverBackend) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}

func (b *serverBackend) postJSON(ctx context.Context, path string, in, out any) error {
	if b.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.reqTimeout)
		defer cancel()
	}
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.New("llama server http error: " + resp.Status + ": " + string(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
