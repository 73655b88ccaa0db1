package rpc

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"inferd/internal/mediator"
	"inferd/pkg/types"
)

// Inference is the slice of the mediator the RPC layer depends on.
type Inference interface {
	GenerateText(ctx context.Context, req types.GenerationRequest) (types.GenerationResponse, error)
	ClassifyText(ctx context.Context, req types.ClassificationRequest) (types.ClassificationResponse, error)
}

// Handler implements LanguageModelService on top of the request mediator.
// It converts between wire structs and the domain types, attaches a
// request-scoped logger to the context, and maps mediator failures to the
// declared ModelError exception.
type Handler struct {
	svc Inference
	log zerolog.Logger
}

func NewHandler(svc Inference, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) GenerateText(ctx context.Context, request *TextGenerationRequest) (*TextGenerationResponse, error) {
	ctx = h.requestCtx(ctx, "generateText")
	var req types.GenerationRequest
	if request != nil {
		req = types.GenerationRequest{
			Prompt:      request.Prompt,
			MaxLength:   int(request.MaxLength),
			Temperature: request.Temperature,
			TopK:        int(request.TopK),
			TopP:        request.TopP,
		}
	}
	resp, err := h.svc.GenerateText(ctx, req)
	if err != nil {
		return nil, wireError(err)
	}
	return &TextGenerationResponse{
		GeneratedText:   resp.GeneratedText,
		GenerationTime:  resp.GenerationTime,
		InputTokens:     int32(resp.InputTokens),
		GeneratedTokens: int32(resp.GeneratedTokens),
	}, nil
}

func (h *Handler) ClassifyText(ctx context.Context, request *TextClassificationRequest) (*TextClassificationResponse, error) {
	ctx = h.requestCtx(ctx, "classifyText")
	var req types.ClassificationRequest
	if request != nil {
		req = types.ClassificationRequest{
			Text:   request.Text,
			Labels: request.Labels,
		}
	}
	resp, err := h.svc.ClassifyText(ctx, req)
	if err != nil {
		return nil, wireError(err)
	}
	return &TextClassificationResponse{
		Label:              resp.Label,
		Confidence:         resp.Confidence,
		ClassificationTime: resp.ClassificationTime,
	}, nil
}

// requestCtx derives a logger carrying a fresh request id and stores it on
// the context so the mediator logs under the same id.
func (h *Handler) requestCtx(ctx context.Context, method string) context.Context {
	l := h.log.With().
		Str("request_id", uuid.NewString()).
		Str("method", method).
		Logger()
	return l.WithContext(ctx)
}

// wireError converts a mediator failure into the exception declared in the
// service IDL. Anything that is not already a ModelError is wrapped so the
// client never sees a bare application exception for handler faults.
func wireError(err error) *ModelError {
	if me, ok := mediator.AsModelError(err); ok {
		return &ModelError{Message: me.Message, Details: me.Details}
	}
	return &ModelError{Message: "Internal error", Details: err.Error()}
}
