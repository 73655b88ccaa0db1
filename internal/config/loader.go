package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	// Listeners.
	RPCAddr   string `json:"rpc_addr" yaml:"rpc_addr" toml:"rpc_addr"`
	AdminAddr string `json:"admin_addr" yaml:"admin_addr" toml:"admin_addr"`

	// Backend selection: "server" talks to a llama-server process over HTTP,
	// "llama" loads the model in-process (needs the llama build tag).
	Backend string `json:"backend" yaml:"backend" toml:"backend"`

	// Server backend.
	ServerURL             string `json:"server_url" yaml:"server_url" toml:"server_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds" yaml:"connect_timeout_seconds" toml:"connect_timeout_seconds"`

	// Llama backend.
	ModelPath string `json:"model_path" yaml:"model_path" toml:"model_path"`
	CtxSize   int    `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	Threads   int    `json:"threads" yaml:"threads" toml:"threads"`

	// Longest a request may wait for the inference slot before "model busy".
	MaxWaitSeconds int `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`

	// Logging.
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	// Admin CORS (opt-in).
	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
