package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"procurement/db"
	"procurement/db/memstore"
	"procurement/db/migrations"
	"procurement/internal/config"
	"procurement/internal/contentgen"
	"procurement/internal/handlers"
	"procurement/internal/httpserver"
	"procurement/internal/logging"
	"procurement/internal/metrics"
	"procurement/internal/notify"
	"procurement/internal/service"
	"procurement/internal/session"
	"procurement/models"
)

var envFiles = []string{".env", ".env.local"}

func newServeCmd() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), memory)
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "keep data in memory instead of PostgreSQL")
	return cmd
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// connect открывает PostgreSQL и при необходимости накатывает миграции
func connect(ctx context.Context, cfg *config.Config, migrate bool) (*sqlx.DB, error) {
	if err := cfg.RequirePostgres(); err != nil {
		return nil, err
	}
	dbConn, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresConn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB: %w", err)
	}
	if migrate {
		if err := migrations.Run(ctx, dbConn.DB, "up"); err != nil {
			dbConn.Close()
			return nil, err
		}
	}
	return dbConn, nil
}

func sessionStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("sessions are kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return session.NewRedisStore(client), func() { client.Close() }, nil
}

func generator(cfg *config.Config, log logrus.FieldLogger) *contentgen.Generator {
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, content generation falls back to placeholders")
		return contentgen.New(nil, log)
	}
	return contentgen.New(contentgen.NewOpenAICompleter(contentgen.OpenAIConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
	}), log)
}

// seedMemory заполняет пустое хранилище тем, что в Postgres дают миграции и seed-user
func seedMemory(ctx context.Context, store *memstore.Store, svc *service.Service, users map[string]string, log logrus.FieldLogger) error {
	for _, tpl := range memstore.DefaultTemplates {
		if err := store.CreateTemplate(ctx, &tpl); err != nil {
			return fmt.Errorf("seed template %s: %w", tpl.ID, err)
		}
	}
	if len(users) == 0 {
		log.Warn("SEED_USERS is empty, nobody can log in")
		return nil
	}
	emails := make([]string, 0, len(users))
	for email := range users {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		u, err := svc.RegisterUser(ctx, models.User{Email: email, FullName: email, Role: users[email]})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", email, err)
		}
		log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user seeded")
	}
	return nil
}

func serve(ctx context.Context, memory bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	var store service.Storage
	var mem *memstore.Store
	if memory {
		log.Warn("running with in-memory storage, data is lost on exit")
		mem = memstore.New()
		store = mem
	} else {
		dbConn, err := connect(ctx, cfg, cfg.MigrationsOnStart)
		if err != nil {
			return err
		}
		defer dbConn.Close()
		store = db.NewStorage(dbConn)
	}

	sessions, closeSessions, err := sessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	dispatcher := notify.NewDispatcher(store, log)
	svc := service.New(store,
		service.WithGenerator(generator(cfg, log)),
		service.WithNotifier(dispatcher),
		service.WithLogger(log),
	)
	if mem != nil {
		if err := seedMemory(ctx, mem, svc, cfg.SeedUsers, log); err != nil {
			return err
		}
	}
	h := handlers.NewHandler(svc, sessions, handlers.Config{
		AuthUserHeader: cfg.AuthUserHeader,
		SessionTTL:     cfg.SessionTTL,
		Logger:         log,
	})

	log.WithField("address", cfg.ServerAddress).Info("starting server")
	server := httpserver.New(h.Router(cfg.MetricsPath, metrics.Handler()), cfg.ServerAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.WithField("signal", s.String()).Info("shutting down")
	case err := <-server.Notify():
		return fmt.Errorf("server stopped: %w", err)
	}

	if err := server.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dispatcher.Wait(waitCtx); err != nil {
		log.WithError(err).Warn("pending notifications were dropped")
	}
	log.Info("successful shutdown")
	return nil
}
