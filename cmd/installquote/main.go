package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/config"
	"github.com/vbonduro/installquote/internal/db"
	"github.com/vbonduro/installquote/internal/docstore/local"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/extract"
	claudeextract "github.com/vbonduro/installquote/internal/extract/claude"
	ollamaextract "github.com/vbonduro/installquote/internal/extract/ollama"
	"github.com/vbonduro/installquote/internal/logging"
	"github.com/vbonduro/installquote/internal/pricing"
	"github.com/vbonduro/installquote/internal/service"
	"github.com/vbonduro/installquote/internal/session"
	"github.com/vbonduro/installquote/internal/store"
	"github.com/vbonduro/installquote/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "installquote",
		Short: "Floor-plan based POS installation quoting",
	}
	rootCmd.AddCommand(newServeCmd(), newQuoteCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the quoting API server",
		RunE: func(c *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func serve(cfg *config.Config) error {
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	rates, err := config.LoadRates(cfg.RatesFile)
	if err != nil {
		return err
	}
	cat := catalog.Default()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	docs, err := local.NewLocalDocumentStore(cfg.DocPath)
	if err != nil {
		logger.Error("failed to initialize document store", "error", err)
		return err
	}

	authority := newAuthority(cfg, rates, cat, logger)
	sess := session.New(session.Config{
		Catalog:         cat,
		Rates:           &rates,
		Authority:       authority,
		HistoryDepth:    cfg.HistoryDepth,
		HistoryDelay:    cfg.HistoryDebounce,
		EstimateDelay:   cfg.EstimateDebounce,
		EstimateTimeout: cfg.EstimateTimeout,
	}, logger, session.WithStores(
		store.NewLocationStore(database),
		store.NewGroupStore(database),
		store.NewQuoteStore(database),
	))
	if err := sess.Load(context.Background()); err != nil {
		logger.Error("failed to load saved session", "error", err)
		return err
	}

	svc := service.NewQuoteService(sess, newExtractor(cfg, cat, logger), docs, logger)
	// POST /api/quote always answers from the local engine, even when the
	// session estimates through a remote authority.
	engine := estimate.NewEngineAuthority(pricing.NewEngine(rates, cat))
	server := web.NewServer(sess, svc, engine, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func newAuthority(cfg *config.Config, rates pricing.Rates, cat *catalog.Catalog, logger *slog.Logger) estimate.CostAuthority {
	if cfg.CostAuthorityURL != "" {
		logger.Info("using remote cost authority", "url", cfg.CostAuthorityURL)
		return estimate.NewHTTPAuthority(cfg.CostAuthorityURL)
	}
	logger.Info("using in-process cost engine")
	return estimate.NewEngineAuthority(pricing.NewEngine(rates, cat))
}

// newExtractor returns nil when the selected backend cannot be configured;
// imports then answer 503.
func newExtractor(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger) extract.Extractor {
	switch cfg.ExtractBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when EXTRACT_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude extraction backend", "model", cfg.ClaudeModel)
		return claudeextract.NewClaudeExtractor(cfg.ClaudeAPIKey, cfg.ClaudeModel, "", cat)
	case "none":
		logger.Info("document import disabled")
		return nil
	default:
		logger.Info("using Ollama extraction backend", "model", cfg.OllamaModel)
		return ollamaextract.NewOllamaExtractor(cfg.OllamaHost, cfg.OllamaModel, cat)
	}
}
