package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/quarrylabs/quarry/chat"
	"github.com/quarrylabs/quarry/config"
	"github.com/quarrylabs/quarry/crawl"
	"github.com/quarrylabs/quarry/embed"
	"github.com/quarrylabs/quarry/llm"
	"github.com/quarrylabs/quarry/retrieve"
	"github.com/quarrylabs/quarry/server"
	"github.com/quarrylabs/quarry/store"
	"github.com/quarrylabs/quarry/vector"
)

// connectNATS dials the configured NATS server and opens JetStream.
func connectNATS(cfg *config.Config, logger *slog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	conn, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open JetStream: %w", err)
	}

	logger.Info("connected to NATS", "url", cfg.NATS.URL)
	return conn, js, nil
}

// runServe wires the chat stack and serves HTTP until interrupted.
func runServe(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, js, err := connectNATS(cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	sessionBucket, err := store.OpenBucket(ctx, js, cfg.NATS.SessionBucket)
	if err != nil {
		return fmt.Errorf("open session bucket: %w", err)
	}
	sessions := store.NewSessionStore(sessionBucket, logger)

	embedder, err := embed.NewClient(embed.Config{
		BaseURL:   cfg.Embedder.Endpoint,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
		Timeout:   cfg.Embedder.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}

	searcher, err := vector.NewClient(vector.Config{
		BaseURL:    cfg.Vector.Endpoint,
		APIKey:     cfg.Vector.APIKey,
		Collection: cfg.Vector.Collection,
	})
	if err != nil {
		return fmt.Errorf("create vector client: %w", err)
	}

	temperature := cfg.LLM.Temperature
	completer, err := llm.NewClient(llm.Endpoint{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.Endpoint,
		Temperature: &temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, llm.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}

	retriever := retrieve.New(embedder, searcher,
		retrieve.WithTopK(cfg.Vector.TopK),
		retrieve.WithLogger(logger))

	service := chat.NewService(chat.NewMemory(sessions), retriever, completer, logger)

	srv := server.New(service, logger)
	return srv.Run(ctx, cfg.Server.Addr)
}

// runCrawl executes one crawl over the configured seeds and reports a
// summary.
func runCrawl(cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Crawl.Seeds) == 0 {
		return fmt.Errorf("no crawl seeds configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, js, err := connectNATS(cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	pageBucket, err := store.OpenBucket(ctx, js, cfg.NATS.PageBucket)
	if err != nil {
		return fmt.Errorf("open page bucket: %w", err)
	}
	pages := store.NewPageStore(pageBucket, logger)

	prober := crawl.NewProber(cfg.Crawl.ProbeTimeout, logger)
	fetcher := crawl.NewFetcher(crawl.FetcherConfig{
		Timeout:           cfg.Crawl.FetchTimeout,
		UserAgent:         cfg.Crawl.UserAgent,
		MaxContentSize:    cfg.Crawl.MaxContentSize,
		AllowPrivateHosts: cfg.Crawl.AllowPrivateHosts,
	})

	frontier := crawl.NewFrontier(prober, fetcher, pages, logger)
	results, err := frontier.Run(ctx, crawl.Job{
		Seeds:          cfg.Crawl.Seeds,
		AllowedDomains: cfg.Crawl.AllowedDomains,
		IncludePaths:   cfg.Crawl.IncludePaths,
		ExcludePaths:   cfg.Crawl.ExcludePaths,
	})
	if err != nil {
		return fmt.Errorf("crawl run: %w", err)
	}

	var stored, skipped, failed int
	for _, r := range results {
		switch r.Outcome {
		case crawl.OutcomeStored:
			stored++
		case crawl.OutcomeSkipped:
			skipped++
		case crawl.OutcomeFailed:
			failed++
		}
	}

	fmt.Printf("Crawl complete: %d processed (%d stored, %d skipped, %d failed)\n",
		len(results), stored, skipped, failed)
	return nil
}

// runPages dumps the stored corpus, one line per page. A partial scan
// still prints what was fetched before reporting the error.
func runPages(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, js, err := connectNATS(cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	pageBucket, err := store.OpenBucket(ctx, js, cfg.NATS.PageBucket)
	if err != nil {
		return fmt.Errorf("open page bucket: %w", err)
	}
	pages := store.NewPageStore(pageBucket, logger)

	all, scanErr := pages.ScanAll(ctx)
	for _, p := range all {
		fmt.Printf("%s\t%d bytes\n", p.URL, len(p.Text))
	}
	fmt.Printf("%d pages stored\n", len(all))

	if scanErr != nil {
		return fmt.Errorf("scan incomplete: %w", scanErr)
	}
	return nil
}
