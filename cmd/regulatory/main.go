package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lambdakit/lambdakit/core/api"
	"github.com/lambdakit/lambdakit/core/config"
	"github.com/lambdakit/lambdakit/core/event"
	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/core/healthcheck"
	"github.com/lambdakit/lambdakit/core/logger"
	"github.com/lambdakit/lambdakit/core/server"
	"github.com/lambdakit/lambdakit/datasource"
	"github.com/lambdakit/lambdakit/integration/opensearch"
	"github.com/lambdakit/lambdakit/middleware"
	"github.com/lambdakit/lambdakit/regulatory"
)

type appConfig struct {
	AppName      string  `env:"APP_NAME" envDefault:"regulatory-api"`
	Environment  string  `env:"APP_ENV" envDefault:"development"`
	RoutePrefix  string  `env:"ROUTE_PREFIX"`
	IndexPrefix  string  `env:"REGULATORY_INDEX_PREFIX" envDefault:"regulatory"`
	RateLimitRPS float64 `env:"RATE_LIMIT_RPS" envDefault:"25"`

	Server server.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	registry := datasource.NewRegistry()
	defer registry.ReleaseAll()

	client, err := registry.Acquire(ctx, datasource.DefaultClientName)
	if err != nil {
		log.Error("search backend unavailable", logger.Error(err))
		os.Exit(1)
	}

	dao, err := regulatory.NewDAO(client, regulatory.WithIndexPrefix(cfg.IndexPrefix))
	if err != nil {
		log.Error("data access setup failed", logger.Error(err))
		os.Exit(1)
	}

	app := newAPI(cfg, log, dao, opensearch.Healthcheck(client))

	if onLambda() {
		lambda.Start(app.Handler())
		return
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		log.Error("server setup failed", logger.Error(err))
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx, app); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// newAPI assembles the route table, middleware, and lifecycle hooks. Probes
// feed the readiness endpoint; tests substitute stubs.
func newAPI(cfg appConfig, log *slog.Logger, dao *regulatory.DAO, probes ...func(context.Context) error) *api.API {
	healthPath := cfg.RoutePrefix + "/health"
	skipHealth := func(r *handler.Request) bool { return r.Path == healthPath }

	app := api.New(
		api.WithPrefix(cfg.RoutePrefix),
		api.WithLogger(log),
	)

	app.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			UseExisting:        true,
			UseLambdaRequestID: true,
		}),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: log,
			Skip:   skipHealth,
		}),
		middleware.RateLimit(middleware.RateLimitConfig{
			RPS:  cfg.RateLimitRPS,
			Skip: skipHealth,
		}),
	)

	app.On(event.TypeError, func(e event.Event) error {
		attrs := []any{slog.Any("data", e.Data)}
		if e.Context != nil {
			if id, ok := middleware.GetRequestID(e.Context); ok {
				attrs = append(attrs, logger.RequestID(id))
			}
		}
		log.Error("dispatch error", attrs...)
		return nil
	})

	app.Get("/health", healthcheck.Handler(log, probes...))
	app.Get("/regulations", searchRegulations(dao))
	app.Get("/regulations/latest", latestRegulations(dao))
	app.Get("/regulations/{id}", getRegulation(dao))
	app.Get("/regulations/{id}/related", relatedRegulations(dao))
	app.Get("/topics/{topic}/regulations", regulationsByTopic(dao))
	app.Post("/regulations", createRegulation(dao))
	app.Delete("/regulations/{id}", deleteRegulation(dao))

	return app
}

func newLogger(cfg appConfig) *slog.Logger {
	opts := []logger.Option{logger.WithLambdaContext()}
	switch cfg.Environment {
	case "production":
		opts = append(opts, logger.WithProduction(cfg.AppName))
	case "staging":
		opts = append(opts, logger.WithStaging(cfg.AppName))
	default:
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	}
	return logger.New(opts...)
}

// onLambda reports whether the process runs inside the Lambda runtime.
func onLambda() bool {
	return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
}
