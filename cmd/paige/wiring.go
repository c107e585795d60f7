package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"paige/internal/backend"
	"paige/internal/config"
	"paige/internal/conversation"
	"paige/internal/llm"
	"paige/internal/logger"
	"paige/internal/storage"
)

// runtime holds what every command needs: config, logger and the loaded log.
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	kv    storage.Backend
	store *conversation.Store
}

func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lg := logger.New(cfg.LogFilePath, cfg.IsProduction())

	kv, err := storage.Open(ctx, storage.Options{
		Driver:         cfg.StorageDriver,
		Dir:            cfg.StorageDir,
		SQLiteDSN:      cfg.SQLiteDSN,
		RedisURL:       cfg.RedisURL,
		RedisKeyPrefix: cfg.RedisKeyPrefix,
	})
	if err != nil {
		_ = lg.Sync()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store := conversation.NewStore(kv, lg)
	store.Load(ctx)
	return &runtime{cfg: cfg, log: lg, kv: kv, store: store}, nil
}

func (r *runtime) close() {
	if err := r.kv.Close(); err != nil {
		r.log.Warn("failed to close storage", zap.Error(err))
	}
	_ = r.log.Sync()
}

func newBackendClient(cfg *config.Config, lg *zap.Logger) (backend.Client, error) {
	switch cfg.BackendKind {
	case config.BackendHTTP:
		return backend.NewHTTPClient(cfg.BackendURL, nil), nil
	case config.BackendOpenAI, config.BackendYandex:
		c, err := llm.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
		return backend.NewLLMClient(c, readSystemPrompt(cfg.SystemPromptPath, lg)), nil
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", cfg.BackendKind)
	}
}

// readSystemPrompt returns "" when the file is missing; the assistant then
// answers without one.
func readSystemPrompt(path string, lg *zap.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		lg.Warn("system prompt file not found or unreadable, continuing without one",
			zap.String("path", path), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(string(data))
}
