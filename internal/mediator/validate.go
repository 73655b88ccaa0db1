package mediator

import (
	"strconv"
	"strings"

	"inferd/pkg/types"
)

// Validation rejects requests before any backend call is attempted.
// Whitespace-only text counts as empty.

func validateGeneration(req types.GenerationRequest) error {
	switch {
	case strings.TrimSpace(req.Prompt) == "":
		return invalidGeneration("prompt must not be empty")
	case req.MaxLength <= 0:
		return invalidGeneration("max_length must be positive")
	case req.Temperature < 0:
		return invalidGeneration("temperature must not be negative")
	case req.TopK < 0:
		return invalidGeneration("top_k must not be negative")
	case req.TopP <= 0 || req.TopP > 1:
		return invalidGeneration("top_p must be in (0, 1]")
	}
	return nil
}

func validateClassification(req types.ClassificationRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return invalidClassification("text must not be empty")
	}
	if len(req.Labels) == 0 {
		return invalidClassification("labels must not be empty")
	}
	for i, l := range req.Labels {
		if strings.TrimSpace(l) == "" {
			return invalidClassification("label " + strconv.Itoa(i) + " must not be empty")
		}
	}
	return nil
}

func invalidGeneration(detail string) error {
	return &ModelError{Message: msgInvalidGeneration, Details: detail}
}

func invalidClassification(detail string) error {
	return &ModelError{Message: msgInvalidClassification, Details: detail}
}
