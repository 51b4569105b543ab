// agentgate - HTTP gateway for tool-using agent queries.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/matiasleandrokruk/agentgate/internal/api"
	"github.com/matiasleandrokruk/agentgate/internal/domain/agent"
	"github.com/matiasleandrokruk/agentgate/internal/domain/runtime"
	"github.com/matiasleandrokruk/agentgate/internal/domain/tool"
	"github.com/matiasleandrokruk/agentgate/internal/infra/config"
	"github.com/matiasleandrokruk/agentgate/internal/infra/llm"
	"github.com/matiasleandrokruk/agentgate/internal/infra/sqlite"
	"github.com/matiasleandrokruk/agentgate/internal/server"
	"github.com/matiasleandrokruk/agentgate/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("agentgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to a YAML config file (env overrides file)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(out, "invalid arguments; see --help") //nolint:errcheck
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	if err := serve(*configPath); err != nil {
		fmt.Fprintln(out, "error:", err) //nolint:errcheck
		return 1
	}
	return 0
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)
	logger.Info("starting agentgate", "version", version.Version, "provider", cfg.LLM.Provider, "storage", cfg.Storage.Class)

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	router := llm.NewRouter(map[string]llm.Provider{cfg.LLM.Provider: provider}, cfg.LLM.Provider)

	var closers []io.Closer

	sources := []tool.Source{tool.NewBuiltinSource(tool.BuiltinConfig{
		LLM:                  router,
		OpenWeatherMapAPIKey: cfg.Tools.OpenWeatherMapAPIKey,
	})}
	if cfg.CloudEnabled() {
		mcpSource := tool.NewMCPSource(cfg.Cloud.MCPURL, cfg.Cloud.APIKey)
		sources = append(sources, mcpSource)
		closers = append(closers, mcpSource)
		logger.Info("extended tool registry enabled", "endpoint", cfg.Cloud.MCPURL)
	}
	catalog := tool.NewCatalog(sources...)

	store, storeClosers, err := newStore(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, storeClosers...)

	service := agent.NewService(agent.Config{
		Catalog: catalog,
		Store:   store,
		NewClient: func(scoped []tool.Tool) agent.Runner {
			return runtime.NewClient(router, cfg.LLM.Model, cfg.LLM.MaxSteps, scoped, logger)
		},
		MaxWorkers: int64(cfg.Server.MaxWorkers),
		Logger:     logger,
	})

	srv := server.NewServer(api.NewRouter(&cfg, service), server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger, closers...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg := config.Load()
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newProvider builds the configured LLM backend, passing the matching
// credential explicitly so one deployment can carry keys for several backends.
func newProvider(cfg config.Config) (llm.Provider, error) {
	var opts []anyllmlib.Option
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.OpenAIAPIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.LLM.OpenAIAPIKey))
		}
	case "anthropic":
		if cfg.LLM.AnthropicAPIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.LLM.AnthropicAPIKey))
		}
	case "mistral":
		if cfg.LLM.MistralAPIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.LLM.MistralAPIKey))
		}
	case "gemini":
		if cfg.LLM.GeminiAPIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.LLM.GeminiAPIKey))
		}
	case "ollama":
		if cfg.LLM.OllamaBaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.LLM.OllamaBaseURL))
		}
	}
	return llm.NewAnyLLM(cfg.LLM.Provider, cfg.LLM.Model, opts...)
}

func newStore(cfg config.Config) (runtime.RunStore, []io.Closer, error) {
	if cfg.Storage.Class != config.StorageDisk {
		return runtime.NewMemoryStore(), nil, nil
	}

	db, err := sqlite.NewDB(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open run store: %w", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate run store: %w", err)
	}
	return runtime.NewSQLiteStore(db), []io.Closer{db}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printHelp(out io.Writer) {
	helpText := `agentgate - HTTP gateway for tool-using agent queries

Usage:
  agentgate [options]

Options:
  --version         Show version information
  --help            Show this help message
  --config <path>   Load configuration from a YAML file (env overrides file)

Environment:
  HOST, PORT, MAX_WORKERS, ALLOWED_ORIGINS, LOG_LEVEL
  LLM_PROVIDER, DEFAULT_MODEL, MAX_STEPS
  OPENAI_API_KEY, ANTHROPIC_API_KEY, MISTRAL_API_KEY, GEMINI_API_KEY, OLLAMA_BASE_URL
  CLOUD_MCP_URL, CLOUD_API_KEY
  OPENWEATHERMAP_API_KEY
  STORAGE_CLASS (MEMORY|DISK), STORAGE_PATH
  AUTH_JWT_SECRET

Examples:
  agentgate --version
  PORT=9090 agentgate
  agentgate --config agentgate.yaml`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
