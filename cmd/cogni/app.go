package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/cogni/internal/api"
	"github.com/p-n-ai/cogni/internal/platform/cache"
	"github.com/p-n-ai/cogni/internal/platform/config"
	"github.com/p-n-ai/cogni/internal/platform/database"
	"github.com/p-n-ai/cogni/internal/progress"
	"github.com/p-n-ai/cogni/internal/session"
)

// app holds the collaborators a command needs.
type app struct {
	client   *api.Client
	sessions session.Store
	journal  progress.EventLogger
	history  *progress.PostgresEventLogger

	closers []func()
}

// newApp wires the API client, session store and optional journal from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{journal: progress.NopEventLogger{}}

	sessions, err := openSessionStore(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sessions = sessions

	a.client = api.New(
		api.WithBaseURL(cfg.API.URL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	if err := a.restoreSession(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Database.Journal {
		if err := a.openJournal(ctx, cfg.Database); err != nil {
			slog.Warn("progress journal disabled", "error", err)
		}
	}
	return a, nil
}

func openSessionStore(ctx context.Context, cfg *config.Config, a *app) (session.Store, error) {
	switch cfg.Session.Backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL, "")
		if err != nil {
			return nil, fmt.Errorf("open session cache: %w", err)
		}
		a.closers = append(a.closers, func() { _ = c.Close() })
		return session.NewRedisStore(c, cfg.Session.Profile, cfg.Session.TTL), nil
	default:
		return session.NewFileStore(cfg.Session.Path), nil
	}
}

func (a *app) openJournal(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, progress.JournalSchema...); err != nil {
		db.Close()
		return err
	}
	a.closers = append(a.closers, db.Close)

	pg := progress.NewPostgresEventLogger(db.Pool)
	a.journal = pg
	a.history = pg
	slog.Debug("progress journal enabled")
	return nil
}

// restoreSession loads a saved session into the client. Being signed out is
// not an error here; commands that need a user call requireUser.
func (a *app) restoreSession(ctx context.Context) error {
	sess, err := a.sessions.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	a.client.SetSession(sess)
	return nil
}

var errSignedOut = errors.New("not signed in, run `cogni login` first")

// requireUser returns the current session or errSignedOut.
func (a *app) requireUser(ctx context.Context) (*session.Session, error) {
	sess, err := a.sessions.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, errSignedOut
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// refreshUser fetches the user again and stores the new profile and credits.
func (a *app) refreshUser(ctx context.Context, sess *session.Session) (*session.Session, error) {
	u, err := a.client.Me(ctx)
	if err != nil {
		return sess, err
	}
	sess.User = u
	if err := a.sessions.Save(ctx, sess); err != nil {
		return sess, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
