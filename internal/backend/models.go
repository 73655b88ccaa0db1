package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindGGUF lists the .gguf model files directly under dir, sorted by name.
// Subdirectories are not searched; llama.cpp model dirs are flat.
func FindGGUF(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read models dir: %w", err)
	}
	var models []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".gguf") {
			continue
		}
		models = append(models, filepath.Join(abs, e.Name()))
	}
	return models, nil
}
