package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/coach"
	"github.com/nguyentantai21042004/jam-coach/internal/config"
	"github.com/nguyentantai21042004/jam-coach/internal/conversation"
	"github.com/nguyentantai21042004/jam-coach/internal/gemini"
	"github.com/nguyentantai21042004/jam-coach/internal/httpserver"
	"github.com/nguyentantai21042004/jam-coach/internal/inbox"
	"github.com/nguyentantai21042004/jam-coach/internal/journal"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
	"github.com/nguyentantai21042004/jam-coach/internal/watcher"
	"github.com/nguyentantai21042004/jam-coach/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync(log)

	log.Info(ctx, "========================================")
	log.Info(ctx, "JAM Coach")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Model: %s (chat: %s)", cfg.Gemini.Model, cfg.Gemini.ChatModel)
	log.Info(ctx, "Default variant: %s", cfg.Coach.Variant)
	if len(cfg.Gemini.APIKeys) == 0 {
		log.Warn(ctx, "No API key configured; set GOOGLE_API_KEY or GEMINI_API_KEYS")
	} else {
		log.Info(ctx, "API keys loaded: %d", len(cfg.Gemini.APIKeys))
	}

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	j, err := journal.Open(ctx, cfg.Journal.Path, log)
	if err != nil {
		log.Error(ctx, "Failed to open journal: %v", err)
		os.Exit(1)
	}
	defer j.Close()

	client := gemini.New(cfg.Gemini.APIKeys, gemini.Options{
		Model:     cfg.Gemini.Model,
		ChatModel: cfg.Gemini.ChatModel,
	}, log)
	ingress := audio.NewIngress(cfg.Audio.TempDir, log)
	transcoder := audio.NewTranscoder(cfg.Audio.FFmpegPath, cfg.Audio.TranscodeFormats, executor.New(), log)
	c := coach.New(cfg, client, conversation.New(client, log), ingress, transcoder, j, log)

	srv := httpserver.New(cfg, session.NewStore(), c, ingress, j, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()
	go srv.SweepSessions(ctx)

	if cfg.Inbox.Dir != "" {
		w, err := startInbox(ctx, cfg, client, ingress, transcoder, j, log, errChan)
		if err != nil {
			log.Error(ctx, "Failed to start inbox watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Open http://localhost%s in a browser", cfg.Server.Addr)
	if cfg.Inbox.Dir != "" {
		log.Info(ctx, "Monitoring: %s", cfg.Inbox.Dir)
		log.Info(ctx, "Output: %s", cfg.Inbox.Output)
	}
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}

	log.Info(ctx, "JAM Coach stopped")
}

// startInbox watches the inbox directory and runs each dropped clip through
// the default variant.
func startInbox(
	ctx context.Context,
	cfg *config.Config,
	client gemini.Client,
	ingress audio.Ingress,
	transcoder audio.Transcoder,
	j journal.Journal,
	log logger.Logger,
	errChan chan<- error,
) (watcher.Watcher, error) {
	variant, _ := cfg.Variant(cfg.Coach.Variant)
	proc := inbox.New(cfg.Inbox, variant, client, ingress, transcoder, j, log)

	w, err := watcher.New(cfg.Inbox.Dir, proc.Process, log, watcher.Options{
		Extensions:    variant.UploadExtensions,
		MaxConcurrent: cfg.Inbox.MaxConcurrent,
	})
	if err != nil {
		return nil, err
	}

	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- fmt.Errorf("inbox watcher: %w", err)
		}
	}()
	return w, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Audio.TempDir}
	if cfg.Inbox.Dir != "" {
		dirs = append(dirs, cfg.Inbox.Dir, cfg.Inbox.Output, cfg.Inbox.Archived)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
