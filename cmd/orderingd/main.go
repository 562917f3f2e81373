package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type cli struct {
	Serve serveCmd `cmd:"" default:"withargs" help:"Serve the ordered collections API and board."`
}

type serveCmd struct {
	Addr        string   `default:":9876" env:"ORDERING_ADDR" help:"Listen address."`
	Transport   string   `default:"fiber" enum:"fiber,mux" env:"ORDERING_TRANSPORT" help:"HTTP stack (fiber via go-router, or net/http via gorilla/mux)."`
	BasePath    string   `default:"/api" env:"ORDERING_BASE_PATH" help:"Path prefix of the API routes."`
	DatabaseURL string   `name:"database-url" env:"ORDERING_DATABASE_URL" help:"PostgreSQL DSN. The in-memory store is used when empty."`
	RedisAddr   string   `name:"redis-addr" env:"ORDERING_REDIS_ADDR" help:"Redis address used to fan collection events out across instances."`
	RedisChan   string   `name:"redis-channel" default:"ordering:events" env:"ORDERING_REDIS_CHANNEL" help:"Redis pub/sub channel for collection events."`
	Manifest    string   `type:"path" env:"ORDERING_MANIFEST" help:"Collection manifest (YAML/JSON) registered at startup."`
	Seed        bool     `default:"true" negatable:"" env:"ORDERING_SEED" help:"Seed demo banners and featured images."`
	Token       []string `env:"ORDERING_TOKENS" help:"Accepted bearer tokens as token=user[@tenant]. Auth is disabled when empty."`
	LogLevel    string   `default:"info" env:"ORDERING_LOG_LEVEL" help:"Log level (debug, info, warn, error)."`
	Development bool     `env:"ORDERING_DEV" help:"Human readable development logging."`
	Activity    bool     `default:"true" negatable:"" env:"ORDERING_ACTIVITY" help:"Log activity records for every change."`
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli{},
		kong.Name("orderingd"),
		kong.Description("Ordered collections backend for banners and featured images."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	kctx.FatalIfErrorf(kctx.Run())
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	logger, err := newLogger(cmd.LogLevel, cmd.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := build(ctx, cmd.config(), logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}

func (cmd *serveCmd) config() appConfig {
	return appConfig{
		Addr:         cmd.Addr,
		Transport:    cmd.Transport,
		BasePath:     cmd.BasePath,
		DatabaseURL:  cmd.DatabaseURL,
		RedisAddr:    cmd.RedisAddr,
		RedisChannel: cmd.RedisChan,
		ManifestPath: cmd.Manifest,
		Seed:         cmd.Seed,
		Tokens:       cmd.Token,
		Activity:     cmd.Activity,
	}
}
