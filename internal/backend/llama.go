//go:build llama

package backend

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBackend runs the model in-process through go-llama.cpp. Requires the
// 'llama' build tag and a libllama build next to the binary.
type llamaBackend struct {
	model   *llama.LLama
	ctxSize int
	threads int
}

// NewLlama loads the model at modelPath into process memory.
func NewLlama(modelPath string, ctxSize, threads int) (Backend, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(modelPath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	return &llamaBackend{model: m, ctxSize: ctxSize, threads: threads}, nil
}

func (b *llamaBackend) Complete(ctx context.Context, prompt string, sc SamplingConfig) (string, error) {
	if b.model == nil {
		return "", errors.New("llama model not initialized")
	}
	promptTokens, err := b.CountTokens(ctx, prompt)
	if err != nil {
		return "", err
	}
	// Abort prediction when the caller goes away; the callback returning
	// false stops token emission.
	b.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := b.model.Predict(prompt, predictOptions(sc, completionBudget(sc.MaxLength, promptTokens), b.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	// Predict yields the completion only; echo the prompt back so callers
	// always see the full sequence.
	return prompt + text, nil
}

func (b *llamaBackend) CountTokens(_ context.Context, text string) (int, error) {
	if b.model == nil {
		return 0, errors.New("llama model not initialized")
	}
	n, _, err := b.model.TokenizeString(text, llama.SetTokens(b.ctxSize))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (b *llamaBackend) Name() string { return "llama" }

func (b *llamaBackend) Close() error {
	if b.model != nil {
		b.model.Free()
		b.model = nil
	}
	return nil
}

// predictOptions maps a sampling config onto go-llama.cpp options.
// Temperature and top-k pass through unchanged: zero values mean greedy
// decoding and filter-disabled respectively.
func predictOptions(sc SamplingConfig, budget, threads int) []llama.PredictOption {
	if threads < 1 {
		threads = 1
	}
	return []llama.PredictOption{
		llama.SetTokens(budget),
		llama.SetThreads(threads),
		llama.SetTemperature(sc.Temperature),
		llama.SetTopK(sc.effectiveTopK()),
		llama.SetTopP(sc.TopP),
		llama.SetPenalty(sc.effectivePenalty()),
	}
}
