package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"inferd/internal/backend"
	"inferd/internal/config"
	"inferd/internal/httpapi"
	"inferd/internal/mediator"
	"inferd/internal/rpc"

	_ "inferd/docs"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Optional config file (.toml/.yaml/.json); explicit flags override it")
	rpcAddr := flag.String("rpc-addr", envOr("INFERD_RPC_ADDR", ":9090"), "Thrift RPC listen address")
	adminAddr := flag.String("admin-addr", envOr("INFERD_ADMIN_ADDR", ":8080"), "Admin HTTP listen address (health, status, metrics)")
	backendKind := flag.String("backend", envOr("INFERD_BACKEND", "server"), "Inference backend: server or llama")
	serverURL := flag.String("server-url", envOr("INFERD_SERVER_URL", "http://127.0.0.1:8081"), "Base URL of the llama-server process (server backend)")
	modelPath := flag.String("model", envOr("INFERD_MODEL", ""), "Path to the .gguf model file (llama backend)")
	ctxSize := flag.Int("ctx-size", 2048, "Model context window in tokens (llama backend)")
	threads := flag.Int("threads", runtime.NumCPU(), "CPU threads for sampling (llama backend)")
	maxWait := flag.Int("max-wait", 120, "Seconds a request may wait for the inference slot before 'model busy'")
	requestTimeout := flag.Int("request-timeout", 600, "Seconds before a backend completion call times out (server backend)")
	connectTimeout := flag.Int("connect-timeout", 5, "Seconds before backend connection attempts time out (server backend)")
	logLevel := flag.String("log-level", envOr("INFERD_LOG_LEVEL", "info"), "Log level: trace, debug, info, warn, error")
	logFormat := flag.String("log-format", envOr("INFERD_LOG_FORMAT", "json"), "Log format: json or console")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
	}

	// Overlay: explicitly set flags always win; otherwise flags (with their
	// env-derived defaults) only fill in what the config file left empty.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	pickStr := func(name string, flagVal string, field *string) {
		if set[name] || *field == "" {
			*field = flagVal
		}
	}
	pickInt := func(name string, flagVal int, field *int) {
		if set[name] || *field == 0 {
			*field = flagVal
		}
	}
	pickStr("rpc-addr", *rpcAddr, &cfg.RPCAddr)
	pickStr("admin-addr", *adminAddr, &cfg.AdminAddr)
	pickStr("backend", *backendKind, &cfg.Backend)
	pickStr("server-url", *serverURL, &cfg.ServerURL)
	pickStr("model", *modelPath, &cfg.ModelPath)
	pickInt("ctx-size", *ctxSize, &cfg.CtxSize)
	pickInt("threads", *threads, &cfg.Threads)
	pickInt("max-wait", *maxWait, &cfg.MaxWaitSeconds)
	pickInt("request-timeout", *requestTimeout, &cfg.RequestTimeoutSeconds)
	pickInt("connect-timeout", *connectTimeout, &cfg.ConnectTimeoutSeconds)
	pickStr("log-level", *logLevel, &cfg.LogLevel)
	pickStr("log-format", *logFormat, &cfg.LogFormat)

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	be, model, err := buildBackend(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend).Msg("backend startup failed")
	}

	med := mediator.New(mediator.Config{
		Backend: be,
		Model:   model,
		MaxWait: time.Duration(cfg.MaxWaitSeconds) * time.Second,
		Logger:  logger,
	})

	rpcSrv, err := rpc.NewServer(cfg.RPCAddr, rpc.NewHandler(med, logger), logger)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RPCAddr).Msg("rpc listener failed")
	}
	go func() {
		if err := rpcSrv.Serve(); err != nil {
			logger.Fatal().Err(err).Msg("rpc server error")
		}
	}()

	httpapi.SetLogger(logger)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)
	adminSrv := &http.Server{Addr: cfg.AdminAddr, Handler: httpapi.NewMux(med)}
	go func() {
		logger.Info().Str("addr", cfg.AdminAddr).Msg("admin server listening")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("admin server error")
		}
	}()

	logger.Info().
		Str("backend", be.Name()).
		Str("model", model).
		Str("rpc_addr", cfg.RPCAddr).
		Msg("inferd ready")

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")

	if err := rpcSrv.Stop(); err != nil {
		logger.Warn().Err(err).Msg("rpc shutdown error")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adminSrv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("admin shutdown error")
	}
	// Waits for any in-flight inference before freeing the model.
	if err := med.Close(); err != nil {
		logger.Warn().Err(err).Msg("backend close error")
	}
}

// buildBackend constructs the configured inference backend and returns it
// with the model identifier reported on /status.
func buildBackend(cfg config.Config) (backend.Backend, string, error) {
	switch cfg.Backend {
	case "server":
		be, err := backend.NewServer(backend.ServerConfig{
			BaseURL:        cfg.ServerURL,
			RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
			ConnectTimeout: time.Duration(cfg.ConnectTimeoutSeconds) * time.Second,
		})
		return be, cfg.ServerURL, err
	case "llama":
		path, err := config.ExpandHome(cfg.ModelPath)
		if err != nil {
			return nil, "", err
		}
		path, err = resolveModelPath(path)
		if err != nil {
			return nil, "", err
		}
		be, err := backend.NewLlama(path, cfg.CtxSize, cfg.Threads)
		return be, path, err
	default:
		return nil, "", fmt.Errorf("unknown backend %q (want server or llama)", cfg.Backend)
	}
}

// resolveModelPath accepts either a .gguf file or a directory holding exactly
// one. A directory with several models is ambiguous; the error lists them.
func resolveModelPath(path string) (string, error) {
	if !config.PathExists(path) {
		return "", fmt.Errorf("model file not found: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	models, err := backend.FindGGUF(path)
	if err != nil {
		return "", err
	}
	switch len(models) {
	case 0:
		return "", fmt.Errorf("no .gguf models under %s", path)
	case 1:
		return models[0], nil
	default:
		names := make([]string, len(models))
		for i, m := range models {
			names[i] = filepath.Base(m)
		}
		return "", fmt.Errorf("several models under %s, pick one with -model: %s",
			path, strings.Join(names, ", "))
	}
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
