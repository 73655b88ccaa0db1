package types

// GenerationRequest asks the model to continue a prompt.
type GenerationRequest struct {
	// Required prompt text to continue.
	// example: Once upon a time in Silicon Valley,
	Prompt string `json:"prompt" example:"Once upon a time in Silicon Valley,"`
	// Upper bound on the total sequence length in tokens, prompt included.
	// example: 150
	MaxLength int `json:"max_length" example:"150"`
	// Sampling temperature (0 = deterministic, higher = more random).
	// example: 0.8
	Temperature float64 `json:"temperature" example:"0.8"`
	// Top-K sampling: limit candidates to the K most likely tokens (0 disables).
	// example: 50
	TopK int `json:"top_k" example:"50"`
	// Nucleus sampling probability, in (0,1].
	// example: 0.95
	TopP float64 `json:"top_p" example:"0.95"`
}

// GenerationResponse carries the model's reply plus timing and token accounting.
type GenerationResponse struct {
	// Generated continuation with the prompt and template stripped.
	GeneratedText string `json:"generated_text"`
	// Wall-clock duration of the whole operation in seconds.
	// example: 1.42
	GenerationTime float64 `json:"generation_time" example:"1.42"`
	// Token count of the caller's prompt (before templating).
	// example: 9
	InputTokens int `json:"input_tokens" example:"9"`
	// Token count of the generated reply.
	// example: 118
	GeneratedTokens int `json:"generated_tokens" example:"118"`
}

// ClassificationRequest asks the model to pick one label for a text.
type ClassificationRequest struct {
	// Required text to classify.
	// example: I absolutely loved this movie!
	Text string `json:"text" example:"I absolutely loved this movie!"`
	// Candidate labels in caller-preferred order; the first entry wins ties.
	Labels []string `json:"labels"`
}

// ClassificationResponse names the chosen label and how confidently it matched.
type ClassificationResponse struct {
	// Chosen label; always one of the request's labels.
	// example: positive
	Label string `json:"label" example:"positive"`
	// Match confidence in [0,1], fixed per match tier.
	// example: 0.95
	Confidence float64 `json:"confidence" example:"0.95"`
	// Wall-clock duration of the whole operation in seconds.
	// example: 0.31
	ClassificationTime float64 `json:"classification_time" example:"0.31"`
}

// ErrorResponse is the admin API's consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: not ready
	Error string `json:"error" example:"not ready"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}

// StatusResponse is returned by GET /status on the admin listener.
type StatusResponse struct {
	// Overall service state (ready or stopped).
	// example: ready
	State string `json:"state" example:"ready"`
	// Backend kind serving requests (server or llama).
	// example: server
	Backend string `json:"backend" example:"server"`
	// Model identifier reported by the backend (path or URL).
	// example: http://127.0.0.1:8081
	Model string `json:"model" example:"http://127.0.0.1:8081"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Requests currently holding or waiting for the model slot.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Completed generation requests since startup.
	// example: 12
	GenerationsTotal uint64 `json:"generations_total" example:"12"`
	// Completed classification requests since startup.
	// example: 7
	ClassificationsTotal uint64 `json:"classifications_total" example:"7"`
	// Requests that surfaced a model error since startup.
	// example: 1
	FailuresTotal uint64 `json:"failures_total" example:"1"`
	// Last error observed by the mediator (if any).
	LastError string `json:"last_error,omitempty"`
}
