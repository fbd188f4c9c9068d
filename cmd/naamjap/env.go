package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"naamjap/internal/backup"
	"naamjap/internal/config"
	"naamjap/internal/datekey"
	"naamjap/internal/focus"
	"naamjap/internal/kv"
	"naamjap/internal/notify"
	"naamjap/internal/reminder"
	"naamjap/internal/reports"
	"naamjap/internal/session"
	"naamjap/internal/storage"
)

// globalOptions are the persistent root flags.
type globalOptions struct {
	verbose bool
	dataDir string
}

// opener builds the environment. Tests swap in one over an in-memory store.
type opener func(opts *globalOptions) (*env, error)

// env is everything a command needs, wired once per process.
type env struct {
	cfg        *config.Config
	logger     *slog.Logger
	clock      datekey.Clock
	repo       *storage.Repository
	machine    *session.Machine
	reports    *reports.Generator
	triggers   *notify.TriggerTable
	scheduler  *reminder.Scheduler
	dispatcher *notify.Dispatcher
	backups    *backup.Manager
	focus      *focus.Timer
}

// openEnv loads the config file and opens the on-disk store.
func openEnv(opts *globalOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}

	logger := newLogger(os.Stderr, opts.verbose)
	store, err := kv.OpenDisk(cfg.KVDir())
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	logger.Debug("storage opened", "path", store.BasePath())

	return newEnv(cfg, store, time.Now, notify.NewDesktop(), logger), nil
}

func newEnv(cfg *config.Config, store kv.Store, clock datekey.Clock, desktop notify.Desktop, logger *slog.Logger) *env {
	repo := storage.New(store, logger)
	triggers := notify.NewTriggerTable(store, func() bool { return cfg.Notifications.Enabled }, logger)
	return &env{
		cfg:    cfg,
		logger: logger,
		clock:  clock,
		repo:   repo,
		machine: session.New(repo, session.Options{
			Clock:         clock,
			DefaultTarget: cfg.Practice.DefaultTarget,
			AckDelay:      cfg.Practice.AckDelay(),
			Logger:        logger,
		}),
		reports:    reports.NewGenerator(repo, cfg.Practice.DefaultTarget),
		triggers:   triggers,
		scheduler:  reminder.NewScheduler(repo, triggers, clock, logger),
		dispatcher: notify.NewDispatcher(triggers, desktop, logger),
		backups:    backup.NewManager(repo, cfg.GetDataDir(), version, clock),
		focus:      focus.New(repo, clock, logger),
	}
}

// newLogger logs warnings and errors, or everything when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
