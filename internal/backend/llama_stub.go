//go:build !llama

package backend

// No-CGO stub compiled when the 'llama' build tag is not set, keeping default
// builds and CI CGO-free. The real implementation lives in llama.go.

// NewLlama fails fast: the in-process runtime is not available in this build.
func NewLlama(modelPath string, ctxSize, threads int) (Backend, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
