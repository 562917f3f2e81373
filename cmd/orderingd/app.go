package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-reorder/components/ordering"
	"github.com/goliatone/go-reorder/components/ordering/commands"
	"github.com/goliatone/go-reorder/components/ordering/gorouter"
	"github.com/goliatone/go-reorder/components/ordering/httpapi"
	"github.com/goliatone/go-reorder/pkg/activity"
	"github.com/goliatone/go-reorder/pkg/activity/usersink"
	"github.com/goliatone/go-reorder/pkg/goadmin"
	"github.com/goliatone/go-reorder/pkg/pgstore"
	"github.com/goliatone/go-reorder/pkg/redishook"
	"github.com/goliatone/go-reorder/pkg/session"
	"github.com/goliatone/go-reorder/pkg/telemetry"
)

type appConfig struct {
	Addr         string
	Transport    string
	BasePath     string
	DatabaseURL  string
	RedisAddr    string
	RedisChannel string
	ManifestPath string
	Seed         bool
	Tokens       []string
	Activity     bool
}

type app struct {
	cfg        appConfig
	logger     *zap.Logger
	service    *ordering.Service
	broadcast  *ordering.BroadcastHook
	executor   *httpapi.CommandExecutor
	controller *ordering.Controller
	verifier   httpapi.TokenVerifier
	redis      *redis.Client
	closers    []func()
}

func newLogger(level string, development bool) (*zap.Logger, error) {
	return telemetry.NewLogger(level, development)
}

// build wires storage, hooks, commands and the board renderer.
func build(ctx context.Context, cfg appConfig, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &app{cfg: cfg, logger: logger, broadcast: ordering.NewBroadcastHook()}
	tel := telemetry.NewZap(logger)

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var refresh ordering.RefreshHook = a.broadcast
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("orderingd: redis ping: %w", err)
		}
		a.closers = append(a.closers, func() { _ = a.redis.Close() })
		// Local subscribers receive events through the relay, including our own.
		refresh = redishook.New(a.redis, cfg.RedisChannel)
	}
	refresh = ordering.MultiHook{
		refresh,
		&ordering.NotificationsHook{Client: zapNotifications{logger: logger.Named("events")}},
	}

	var hooks activity.Hooks
	if cfg.Activity {
		hooks = activity.Hooks{usersink.Hook{Sink: zapSink{logger: logger.Named("activity")}}}
	}

	registry := ordering.NewRegistry()
	a.service = ordering.NewService(ordering.Options{
		Store:          store,
		Registry:       registry,
		RefreshHook:    refresh,
		Telemetry:      tel,
		ActivityHooks:  hooks,
		ActivityConfig: activity.Config{Enabled: cfg.Activity},
	})

	seed := commands.NewSeedCollectionsCommand(registry, a.service, tel)
	if err := seed.Execute(ctx, commands.SeedCollectionsInput{
		ManifestPath: cfg.ManifestPath,
		SeedItems:    cfg.Seed && cfg.DatabaseURL == "",
	}); err != nil {
		a.Close()
		return nil, err
	}

	if len(cfg.Tokens) > 0 {
		tokens, err := session.ParseStaticTokens(cfg.Tokens)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.verifier = tokens
	}

	renderer, err := ordering.NewTemplateRenderer()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("orderingd: board templates: %w", err)
	}
	a.controller = ordering.NewController(ordering.ControllerOptions{
		Service:  a.service,
		Renderer: renderer,
	})
	a.executor = httpapi.NewCommandExecutor(a.service, tel)

	admin, err := goadmin.New(goadmin.Config{
		EnableOrdering: true,
		Service:        a.service,
		MenuBuilder:    loggingMenuBuilder{logger: logger.Named("menu")},
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (ordering.Store, error) {
	if a.cfg.DatabaseURL == "" {
		a.logger.Info("using in-memory store")
		return ordering.NewMemoryStore(), nil
	}
	store, err := pgstore.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	a.logger.Info("using postgres store")
	return store, nil
}

// Close releases external connections in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run serves HTTP until ctx is cancelled, relaying redis events when enabled.
func (a *app) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if a.redis != nil {
		g.Go(func() error {
			return redishook.Relay(ctx, a.redis, a.cfg.RedisChannel, a.broadcast)
		})
	}
	switch a.cfg.Transport {
	case "mux":
		srv := &http.Server{Addr: a.cfg.Addr, Handler: a.muxHandler(), ReadHeaderTimeout: 10 * time.Second}
		g.Go(func() error {
			a.logger.Info("listening", zap.String("addr", a.cfg.Addr), zap.String("transport", "mux"))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	default:
		server := router.NewFiberAdapter()
		if err := a.registerFiber(server.Router()); err != nil {
			return err
		}
		g.Go(func() error {
			a.logger.Info("listening", zap.String("addr", a.cfg.Addr), zap.String("transport", "fiber"))
			return server.Serve(a.cfg.Addr)
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

func (a *app) registerFiber(r router.Router[*fiber.App]) error {
	return gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     r,
		API:        a.executor,
		Controller: a.controller,
		Broadcast:  a.broadcast,
		Verifier:   a.verifier,
		BasePath:   a.basePath(),
	})
}

func (a *app) muxHandler() http.Handler {
	handlers := &httpapi.Handlers{
		API:    a.executor,
		Board:  a.controller,
		Events: a.broadcast,
	}
	mux := http.NewServeMux()
	base := a.basePath()
	mux.Handle(base+"/", http.StripPrefix(base, httpapi.NewRouter(handlers, a.verifier)))
	return mux
}

func (a *app) basePath() string {
	base := "/" + strings.Trim(a.cfg.BasePath, "/")
	if base == "/" {
		return "/api"
	}
	return base
}

type zapSink struct {
	logger *zap.Logger
}

func (s zapSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.logger.Info(record.Verb,
		zap.String("object_type", record.ObjectType),
		zap.String("object_id", record.ObjectID),
		zap.String("channel", record.Channel),
		zap.Any("data", record.Data),
	)
	return nil
}

// zapNotifications records every collection event with the admin that
// triggered it, when the request carried a session.
type zapNotifications struct {
	logger *zap.Logger
}

func (n zapNotifications) PublishCollectionEvent(ctx context.Context, event ordering.CollectionEvent) error {
	fields := []zap.Field{
		zap.String("collection", event.Collection),
		zap.String("scope", event.Scope),
		zap.String("reason", event.Reason),
	}
	if event.ItemID != "" {
		fields = append(fields, zap.String("item_id", event.ItemID))
	}
	if s, ok := session.FromContext(ctx); ok {
		if user, ok := s.User(); ok {
			fields = append(fields, zap.String("user_id", user.ID), zap.String("tenant_id", user.TenantID))
		}
	}
	n.logger.Info("collection updated", fields...)
	return nil
}

type loggingMenuBuilder struct {
	logger *zap.Logger
}

func (b loggingMenuBuilder) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	b.logger.Debug("menu item",
		zap.String("menu", menuCode),
		zap.String("label", item.Label),
		zap.String("route", item.Route),
		zap.Int("position", item.Position),
	)
	return nil
}
