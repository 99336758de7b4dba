package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/config"
	"github.com/faceconnect/client/internal/controller"
	"github.com/faceconnect/client/internal/db"
	"github.com/faceconnect/client/internal/handlers"
	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/middleware"
	"github.com/faceconnect/client/internal/realtime"
	"github.com/faceconnect/client/internal/session"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// UI action pacing per browser client.
const (
	actionRequests = 20
	actionWindow   = time.Second
	actionBurst    = 40
	actionTTL      = 10 * time.Minute
)

// dependencies holds the concrete collaborators of one client process.
type dependencies struct {
	cfg        config.Config
	session    *session.Session
	store      session.Store
	api        *api.Client
	realtime   *realtime.Conn
	document   *view.Document
	renderer   *view.Renderer
	toasts     *ui.Toasts
	limiter    *middleware.ActionLimiter
	controller *controller.Controller
	now        func() time.Time
	closers    []func()
}

// buildDependencies wires together concrete implementations. A non-nil console
// also receives every notification and answers dialogs on the terminal.
func buildDependencies(ctx context.Context, cfg config.Config, console *ui.Console) (*dependencies, error) {
	d := &dependencies{
		cfg:      cfg,
		session:  session.New(),
		document: view.NewDocument(),
		toasts:   ui.NewToasts(ui.DefaultToastTTL),
		limiter:  middleware.NewActionLimiter(actionRequests, actionWindow, actionBurst, actionTTL),
		now:      time.Now,
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	d.store = store
	d.closers = append(d.closers, closeStore)

	var notifier ui.Notifier = d.toasts
	var dialogs ui.Dialogs = ui.Discard{}
	if console != nil {
		notifier = ui.Fanout{d.toasts, console}
		dialogs = console
	}

	d.api, err = api.NewClient(api.Options{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Tokens:     d.session,
		Notifier:   notifier,
		Limiter:    api.NewLimiter(cfg.RequestsPerSec, cfg.RequestBurst),
	})
	if err != nil {
		d.Close()
		return nil, err
	}

	d.renderer, err = view.NewRenderer(cfg.DateLayout)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.realtime = realtime.NewConn(realtime.NewWebSocketDialer(cfg.RealtimeURL, d.session.Token))
	d.closers = append(d.closers, func() {
		if err := d.realtime.Disconnect(); err != nil {
			logging.FromContext(ctx).Debug("realtime disconnect on close", "error", err)
		}
	})

	d.controller, err = controller.New(controller.Dependencies{
		Session:  d.session,
		Store:    d.store,
		API:      d.api,
		Realtime: d.realtime,
		Document: d.document,
		Renderer: d.renderer,
		Notifier: notifier,
		Dialogs:  dialogs,
	})
	if err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// openStore selects the durable session backend named by the config.
func openStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	noop := func() {}
	logger := logging.FromContext(ctx)

	switch cfg.Store.Backend {
	case config.StoreMemory:
		return session.NewMemoryStore(), noop, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr, DB: cfg.Store.RedisDB})
		if err := client.WithContext(ctx).Ping().Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Debug("session store ready", slog.String("backend", config.StoreRedis), slog.String("addr", cfg.Store.RedisAddr))
		return session.NewRedisStore(client, cfg.Profile), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Debug("session store ready", slog.String("backend", config.StorePostgres))
		return session.NewPostgresStore(pool, cfg.Profile), pool.Close, nil
	default:
		return session.NewFileStore(cfg.Store.Path, cfg.Profile), noop, nil
	}
}

// restore loads the stored session without touching the server or the
// real-time channel, for one-shot CLI commands.
func (d *dependencies) restore(ctx context.Context) error {
	snap, err := d.store.Load(ctx)
	if err != nil {
		return err
	}
	if !snap.Valid() {
		return ErrNotLoggedIn
	}
	d.session.Establish(snap)
	return nil
}

func (d *dependencies) routes() handlers.Dependencies {
	return handlers.Dependencies{
		Session:    d.session,
		Controller: d.controller,
		Document:   d.document,
		Renderer:   d.renderer,
		Toasts:     d.toasts,
		Limiter:    d.limiter,
		Upstream:   d.api,
	}
}

// Close releases collaborators in reverse order.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
