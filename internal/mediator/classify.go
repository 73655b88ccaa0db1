package mediator

import (
	"context"
	"time"

	"inferd/internal/backend"
	"inferd/internal/classify"
	"inferd/internal/prompt"
	"inferd/pkg/types"
)

// Classification sampling overrides. Near-greedy low-temperature decoding
// favors exact label reproduction; the margin bounds the reply so latency
// stays flat regardless of input length.
const (
	classifyTemperature     = 0.1
	classifyMaxLengthMargin = 50
)

// ClassifyText runs one classification end to end: validate, format the
// instruction prompt, run the backend under the classification overrides,
// extract the reply, and score it against the label set. The returned label
// is always an element of req.Labels.
func (m *Mediator) ClassifyText(ctx context.Context, req types.ClassificationRequest) (types.ClassificationResponse, error) {
	log := m.logger(ctx)
	log.Info().
		Str("text", preview(req.Text)).
		Int("labels", len(req.Labels)).
		Msg("classification request received")

	if err := validateClassification(req); err != nil {
		m.reject(ctx, methodClassify, outcomeInvalid, err)
		return types.ClassificationResponse{}, err
	}

	release, err := m.beginInference(ctx)
	if err != nil {
		me := slotError(msgClassifyFailed, err)
		m.reject(ctx, methodClassify, outcomeFor(err), me)
		return types.ClassificationResponse{}, me
	}
	defer release()

	start := time.Now()
	formatted := prompt.FormatClassification(req.Text, req.Labels)
	// The reply only needs to carry a label, so the total cap is the
	// formatted prompt plus a fixed margin.
	promptTokens, err := m.backend.CountTokens(ctx, formatted)
	if err != nil {
		return types.ClassificationResponse{}, m.fail(ctx, methodClassify, msgClassifyFailed, err, start)
	}
	raw, err := m.backend.Complete(ctx, formatted, backend.SamplingConfig{
		MaxLength:     promptTokens + classifyMaxLengthMargin,
		Temperature:   classifyTemperature,
		RepeatPenalty: backend.DefaultRepeatPenalty,
		Greedy:        true,
	})
	if err != nil {
		return types.ClassificationResponse{}, m.fail(ctx, methodClassify, msgClassifyFailed, err, start)
	}

	reply, delimited := prompt.ExtractReply(raw)
	match := classify.Score(reply, req.Labels)
	classifyMatchesTotal.WithLabelValues(match.Tier).Inc()
	if match.Tier == classify.TierFallback {
		log.Warn().
			Str("reply", preview(reply)).
			Str("label", match.Label).
			Bool("delimited", delimited).
			Msg("no label matched, falling back to first label")
	} else if !delimited {
		log.Debug().Msg("assistant delimiter missing from raw output, using trimmed raw text")
	}
	elapsed := time.Since(start)

	m.noteClassification()
	observeRequest(methodClassify, outcomeOK, elapsed)
	log.Info().
		Str("label", match.Label).
		Float64("confidence", match.Confidence).
		Str("tier", match.Tier).
		Float64("classification_time", elapsed.Seconds()).
		Msg("classification complete")

	return types.ClassificationResponse{
		Label:              match.Label,
		Confidence:         match.Confidence,
		ClassificationTime: elapsed.Seconds(),
	}, nil
}
