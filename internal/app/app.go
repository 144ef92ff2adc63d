// Package app wires the application's services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nfrund/profiledesk/internal/config"
	"github.com/nfrund/profiledesk/internal/database"
	"github.com/nfrund/profiledesk/internal/database/memory"
	"github.com/nfrund/profiledesk/internal/database/postgres"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/email"
	"github.com/nfrund/profiledesk/internal/handlers"
	"github.com/nfrund/profiledesk/internal/notify"
	"github.com/nfrund/profiledesk/internal/pubsub"
	"github.com/nfrund/profiledesk/internal/server"
	"github.com/nfrund/profiledesk/internal/signup"
	"github.com/samber/do/v2"
)

// ConnectTimeout bounds connecting to and migrating a backend at startup.
const ConnectTimeout = 15 * time.Second

// App owns the dependency injector and the resources it opened.
type App struct {
	injector *do.RootScope
	cfg      *config.Config

	mu      sync.Mutex
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// Option customizes an App before its services are built.
type Option func(*options)

type options struct {
	emailSender domain.EmailSender
}

// WithEmailSender replaces the sender chosen by EMAIL_PROVIDER.
func WithEmailSender(sender domain.EmailSender) Option {
	return func(o *options) { o.emailSender = sender }
}

// New validates cfg and registers every service provider. Services are
// built lazily the first time they are resolved.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{injector: do.New(), cfg: cfg}
	i := a.injector

	do.ProvideValue(i, cfg)
	do.ProvideValue[config.Provider](i, cfg)

	do.Provide(i, a.provideSurreal)
	do.Provide(i, a.providePostgres)
	do.Provide(i, provideIdentities)
	do.Provide(i, provideProfiles)

	do.Provide(i, a.provideBridge)
	do.Provide(i, func(i do.Injector) (pubsub.Publisher, error) {
		return do.Invoke[*pubsub.WatermillBridge](i)
	})
	do.Provide(i, func(i do.Injector) (pubsub.Subscriber, error) {
		return do.Invoke[*pubsub.WatermillBridge](i)
	})

	if o.emailSender != nil {
		do.ProvideValue(i, o.emailSender)
	} else {
		do.Provide(i, func(i do.Injector) (domain.EmailSender, error) {
			return email.NewEmailService(do.MustInvoke[config.Provider](i))
		})
	}

	do.Provide(i, provideSignup)
	do.Provide(i, provideNotify)
	do.Provide(i, provideServer)

	return a, nil
}

// Resolve builds (or returns the already built) service of type T.
func Resolve[T any](a *App) (T, error) {
	return do.Invoke[T](a.injector)
}

// Run starts the background subscribers and serves HTTP until ctx is
// canceled. Resources are released with Shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.startWorkers(ctx); err != nil {
		return err
	}

	srv, err := Resolve[*server.Server](a)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	srv.RegisterRoutes()
	return srv.Start(ctx)
}

func (a *App) startWorkers(ctx context.Context) error {
	subscriber, err := Resolve[*notify.Subscriber](a)
	if err != nil {
		return fmt.Errorf("build welcome email subscriber: %w", err)
	}
	return subscriber.Start(ctx)
}

// Shutdown closes every resource opened so far, most recent first.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for idx := len(closers) - 1; idx >= 0; idx-- {
		c := closers[idx]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to close resource", "event", "shutdown_error", "resource", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) onShutdown(name string, fn func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func (a *App) provideSurreal(i do.Injector) (*database.Connection, error) {
	cfg := do.MustInvoke[config.Provider](i)

	ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout)
	defer cancel()

	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	a.onShutdown("surrealdb", conn.Close)

	// Schema statements get the whole connect budget.
	if err := database.Migrate(database.WithTimeout(ctx, ConnectTimeout), conn); err != nil {
		return nil, err
	}
	conn.StartMonitoring()
	return conn, nil
}

func (a *App) providePostgres(i do.Injector) (*pgxpool.Pool, error) {
	cfg := do.MustInvoke[config.Provider](i)

	ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.GetPostgresURL())
	if err != nil {
		return nil, err
	}
	a.onShutdown("postgres", func(context.Context) error {
		pool.Close()
		return nil
	})

	if err := postgres.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (a *App) provideBridge(i do.Injector) (*pubsub.WatermillBridge, error) {
	bridge := pubsub.NewWatermillBridge()
	a.onShutdown("pubsub", func(context.Context) error { return bridge.Close() })
	return bridge, nil
}

func provideIdentities(i do.Injector) (domain.IdentityProvider, error) {
	cfg := do.MustInvoke[*config.Config](i)

	switch cfg.GetIdentityBackend() {
	case config.BackendSurreal:
		conn, err := do.Invoke[*database.Connection](i)
		if err != nil {
			return nil, err
		}
		return database.NewSurrealIdentityStore(conn, cfg.GetDBNs(), cfg.GetDBDb()), nil
	case config.BackendMemory:
		slog.Warn("Using in-memory identity backend; accounts are lost on restart", "event", "identity_backend_memory")
		return memory.NewIdentityStore(), nil
	default:
		return nil, fmt.Errorf("unknown identity backend %q", cfg.GetIdentityBackend())
	}
}

func provideProfiles(i do.Injector) (domain.ProfileRepository, error) {
	cfg := do.MustInvoke[*config.Config](i)

	switch cfg.GetProfileStore() {
	case config.BackendSurreal:
		conn, err := do.Invoke[*database.Connection](i)
		if err != nil {
			return nil, err
		}
		return database.NewSurrealProfileStore(conn), nil
	case config.BackendPostgres:
		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}
		return postgres.NewProfileStore(pool), nil
	case config.BackendMemory:
		return memory.NewProfileStore(), nil
	default:
		return nil, fmt.Errorf("unknown profile store %q", cfg.GetProfileStore())
	}
}

func provideSignup(i do.Injector) (*signup.Service, error) {
	identities, err := do.Invoke[domain.IdentityProvider](i)
	if err != nil {
		return nil, err
	}
	profiles, err := do.Invoke[domain.ProfileRepository](i)
	if err != nil {
		return nil, err
	}
	publisher, err := do.Invoke[pubsub.Publisher](i)
	if err != nil {
		return nil, err
	}
	cfg := do.MustInvoke[config.Provider](i)
	return signup.NewService(identities, profiles, publisher, cfg.GetPhoneCountryCode()), nil
}

func provideNotify(i do.Injector) (*notify.Subscriber, error) {
	subscriber, err := do.Invoke[pubsub.Subscriber](i)
	if err != nil {
		return nil, err
	}
	sender, err := do.Invoke[domain.EmailSender](i)
	if err != nil {
		return nil, err
	}
	cfg := do.MustInvoke[config.Provider](i)
	return notify.NewSubscriber(subscriber, sender, cfg.GetAppBaseURL()), nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	identities, err := do.Invoke[domain.IdentityProvider](i)
	if err != nil {
		return nil, err
	}
	profiles, err := do.Invoke[domain.ProfileRepository](i)
	if err != nil {
		return nil, err
	}
	svc, err := do.Invoke[*signup.Service](i)
	if err != nil {
		return nil, err
	}
	var checks []handlers.HealthChecker
	if do.MustInvoke[*config.Config](i).UsesSurreal() {
		conn, err := do.Invoke[*database.Connection](i)
		if err != nil {
			return nil, err
		}
		checks = append(checks, conn)
	}
	return server.New(server.Dependencies{
		Config:       do.MustInvoke[config.Provider](i),
		Identities:   identities,
		Profiles:     profiles,
		Signup:       svc,
		HealthChecks: checks,
	})
}

// Serve builds the application from cfg and runs it until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, opts ...Option) error {
	a, err := New(cfg, opts...)
	if err != nil {
		return err
	}

	runErr := a.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	return errors.Join(runErr, a.Shutdown(shutdownCtx))
}
