package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/glabrego/zhihu-cli/internal/app"
	"github.com/glabrego/zhihu-cli/internal/config"
	"github.com/glabrego/zhihu-cli/internal/credential"
	"github.com/glabrego/zhihu-cli/internal/logging"
	"github.com/glabrego/zhihu-cli/internal/storage"
	"github.com/glabrego/zhihu-cli/internal/transport"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

const settingsTimeout = 5 * time.Second

// session is everything a command needs once config, logging and storage
// are up.
type session struct {
	cfg      config.Config
	logger   *log.Logger
	repo     *storage.Repository
	gate     *credential.Gate
	service  *app.Service

	// settings is the pair last written to storage. Saves from the TUI run
	// on tea.Cmd goroutines.
	mu       sync.Mutex
	settings app.Settings

	logCloser io.Closer
}

func openSession(ctx context.Context, configPath string) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, logCloser, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	rt := &session{cfg: cfg, logger: logger, repo: repo, logCloser: logCloser}

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := repo.Init(initCtx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(initCtx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("storage write check failed (%v); verify ZHIHU_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	rt.gate = credential.NewGate("")
	sender := transport.NewClient(cfg.HTTPTimeout, nil, logger)
	client := zhihu.NewClient(zhihu.Options{
		V3BaseURL:         cfg.APIV3URL,
		V4BaseURL:         cfg.APIV4URL,
		UserAgent:         cfg.UserAgent,
		DetailConcurrency: cfg.DetailConcurrency,
		DetailRPS:         cfg.DetailRPS,
	}, rt.gate, sender)
	rt.service = app.NewService(client, repo, logger)

	settings, err := rt.service.LoadSettings(initCtx)
	if err != nil {
		logger.Warn("could not load settings, using defaults", "err", err)
	}
	if settings.HasCredential {
		rt.gate.Set(settings.Credential)
	}
	if cfg.Cookie != "" {
		rt.gate.Set(cfg.Cookie)
	}
	rt.settings = settings
	logger.Debug("runtime ready", "db", cfg.DBPath, "mode", settings.Mode, "cookie_set", rt.gate.IsValid())
	return rt, nil
}

// saveSettings persists with its own deadline so a cancelled command context
// does not drop the write.
func (rt *session) saveSettings(settings app.Settings) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.saveLocked(settings)
}

// saveViewSettings persists a pair emitted by the TUI. While the active
// cookie is the one from ZHIHU_COOKIE or the config file, the stored cookie
// is written back unchanged so the override never lands on disk.
func (rt *session) saveViewSettings(settings app.Settings) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.cfg.Cookie != "" && settings.HasCredential && settings.Credential == rt.cfg.Cookie {
		settings.Credential = rt.settings.Credential
		settings.HasCredential = rt.settings.HasCredential
	}
	return rt.saveLocked(settings)
}

func (rt *session) saveLocked(settings app.Settings) error {
	ctx, cancel := context.WithTimeout(context.Background(), settingsTimeout)
	defer cancel()
	if err := rt.service.SaveSettings(ctx, settings); err != nil {
		return err
	}
	rt.settings = settings
	return nil
}

func (rt *session) storedSettings() app.Settings {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.settings
}

func (rt *session) Close() error {
	return errors.Join(rt.repo.Close(), rt.logCloser.Close())
}
