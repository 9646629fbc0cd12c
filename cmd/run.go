package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/challenge"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/config"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/evaluate"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/imagebank"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/riddle"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/session"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/store"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/story"
)

// appDeps bundles what the serve and play commands need after wiring.
type appDeps struct {
	cfg config.Config
	log zerolog.Logger
	svc *session.Service
}

// buildApp loads configuration and wires the full stack: store, model
// chain, riddle bank, image bank, story engine, generator, evaluator and
// the session service. The model chain is optional; without API keys
// challenges come from the static catalog and evaluation falls back to
// exact matching. Interactive mode silences console logging so the
// terminal UI owns the screen.
func buildApp(cmd *cobra.Command, interactive bool) (*appDeps, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := zerolog.Nop()
	if !interactive {
		logger = newLogger(cfg)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := newProvider(ctx, cfg, st.LLMEvents(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Model chain not configured:", err)
		fmt.Fprintln(os.Stderr, "Challenges will come from the static catalog.")
		provider = llm.NewMockProvider()
	}

	deps := challenge.Deps{
		Provider: provider,
		Riddles:  riddle.Load(cfg.RiddleFile, nil, logger),
		Images:   imagebank.New(cfg.ImageDir, nil),
		Stories:  story.NewEngine(provider, logger),
		Logger:   logger,
	}

	if cfg.ImageAPIURL != "" {
		backend, err := llm.NewHTTPImageBackend(llm.ImageBackendConfig{
			BaseURL: cfg.ImageAPIURL,
			SaveDir: cfg.ImageDir,
			Ratio:   cfg.ImageRatio,
			Timeout: cfg.ImageTimeout,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("image generation disabled")
		} else {
			deps.ImageGen = backend
		}
	}

	gen := challenge.NewGenerator(deps, challenge.DefaultConfig())
	eval := evaluate.New(provider, evaluate.DefaultConfig(), logger)
	svc := session.NewService(st, gen, eval, nil, logger)

	cleanup := func() { st.Close() }
	return &appDeps{cfg: cfg, log: logger, svc: svc}, cleanup, nil
}

// newProvider builds the failover chain from BAVUGA_MODEL_CHAIN, or from
// discovered API keys when no chain is configured.
func newProvider(ctx context.Context, cfg config.Config, events store.LLMEventRepo, logger zerolog.Logger) (llm.Provider, error) {
	if cfg.ModelChain == "" {
		return llm.NewChainFromEnv(ctx, events, logger)
	}

	chain, err := llm.ParseChain(cfg.ModelChain)
	if err != nil {
		return nil, fmt.Errorf("parse BAVUGA_MODEL_CHAIN: %w", err)
	}
	llmCfg, _ := llm.DiscoverConfig()
	llmCfg.Chain = chain
	return llm.NewChain(ctx, llmCfg, events, logger)
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var w io.Writer = os.Stderr
	if cfg.LogFormat != "json" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
