package mediator

import (
	"context"
	"time"

	"inferd/internal/backend"
	"inferd/internal/prompt"
	"inferd/pkg/types"
)

// GenerateText runs one text generation end to end: validate, format the
// chat prompt, run the backend under the request's sampling configuration,
// extract the reply, and count prompt and reply tokens. Any backend failure
// surfaces as a ModelError carrying the original cause in Details.
func (m *Mediator) GenerateText(ctx context.Context, req types.GenerationRequest) (types.GenerationResponse, error) {
	log := m.logger(ctx)
	log.Info().
		Str("prompt", preview(req.Prompt)).
		Int("max_length", req.MaxLength).
		Msg("generation request received")

	if err := validateGeneration(req); err != nil {
		m.reject(ctx, methodGenerate, outcomeInvalid, err)
		return types.GenerationResponse{}, err
	}

	release, err := m.beginInference(ctx)
	if err != nil {
		me := slotError(msgGenerateFailed, err)
		m.reject(ctx, methodGenerate, outcomeFor(err), me)
		return types.GenerationResponse{}, me
	}
	defer release()

	start := time.Now()
	formatted := prompt.FormatGeneration(req.Prompt)
	raw, err := m.backend.Complete(ctx, formatted, backend.SamplingConfig{
		MaxLength:     req.MaxLength,
		Temperature:   float32(req.Temperature),
		TopK:          req.TopK,
		TopP:          float32(req.TopP),
		RepeatPenalty: backend.DefaultRepeatPenalty,
	})
	if err != nil {
		return types.GenerationResponse{}, m.fail(ctx, methodGenerate, msgGenerateFailed, err, start)
	}

	reply, delimited := prompt.ExtractReply(raw)
	if !delimited {
		log.Debug().Msg("assistant delimiter missing from raw output, using trimmed raw text")
	}

	// input_tokens counts the caller's prompt as sent, not the formatted one.
	inputTokens, err := m.backend.CountTokens(ctx, req.Prompt)
	if err != nil {
		return types.GenerationResponse{}, m.fail(ctx, methodGenerate, msgGenerateFailed, err, start)
	}
	generatedTokens := 0
	if reply != "" {
		generatedTokens, err = m.backend.CountTokens(ctx, reply)
		if err != nil {
			return types.GenerationResponse{}, m.fail(ctx, methodGenerate, msgGenerateFailed, err, start)
		}
	}
	elapsed := time.Since(start)

	m.noteGeneration()
	observeRequest(methodGenerate, outcomeOK, elapsed)
	observeTokens(inputTokens, generatedTokens)
	log.Info().
		Float64("generation_time", elapsed.Seconds()).
		Int("input_tokens", inputTokens).
		Int("generated_tokens", generatedTokens).
		Msg("generation complete")

	return types.GenerationResponse{
		GeneratedText:   reply,
		GenerationTime:  elapsed.Seconds(),
		InputTokens:     inputTokens,
		GeneratedTokens: generatedTokens,
	}, nil
}
