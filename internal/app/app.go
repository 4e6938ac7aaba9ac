// Package app wires configuration into the resolver handlers shared by the
// server and the CLI.
package app

import (
	"context"
	"fmt"

	"address-validator/internal/common/config"
	"address-validator/internal/common/database"
	commonhttp "address-validator/internal/common/http"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/observability"
	"address-validator/internal/graphql"
	getlogs "address-validator/internal/resolvers/activity/get-logs"
	logactivity "address-validator/internal/resolvers/activity/log-activity"
	"address-validator/internal/resolvers/activity/recorder"
	validateaddress "address-validator/internal/resolvers/address/validate-address"
	"address-validator/internal/resolvers/locality/lookup"
	searchlocations "address-validator/internal/resolvers/locality/search-locations"
	createsession "address-validator/internal/resolvers/session/create-session"
	sessionstate "address-validator/internal/resolvers/session/session-state"
	"address-validator/internal/server"
)

type App struct {
	Config *config.Config
	Logger logger.Logger
	Obs    *observability.Observability

	Elasticsearch *database.ElasticsearchClient
	// Redis is nil when the session store is disabled.
	Redis *database.RedisClient

	Recorder       *recorder.Recorder
	Lookup         *lookup.Handler
	Validator      *validateaddress.Handler
	Searcher       *searchlocations.Handler
	ActivityLogger *logactivity.Handler
	LogReader      *getlogs.Handler
	SessionCreator *createsession.Handler
	Sessions       *sessionstate.Handler
}

func New(cfg *config.Config, log logger.Logger, obs *observability.Observability) (*App, error) {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	a := &App{
		Config:        cfg,
		Logger:        log,
		Obs:           obs,
		Elasticsearch: es,
	}

	lookupCfg := lookup.LoadConfig(cfg.Upstream)
	upstream := commonhttp.NewClient(lookupCfg.Timeout, cfg.Upstream.AuthToken)

	a.Recorder = recorder.New(recorder.LoadConfig(cfg), es.Client, obs, log)
	a.Lookup = lookup.NewHandler(lookupCfg, upstream, obs, log)
	a.Validator = validateaddress.NewHandler(
		validateaddress.LoadConfig(cfg.Features.ServerSideLogging), a.Lookup, a.Recorder, obs, log)
	a.Searcher = searchlocations.NewHandler(
		searchlocations.LoadConfig(cfg.Features.ServerSideLogging), a.Lookup, a.Recorder, obs, log)
	a.ActivityLogger = logactivity.NewHandler(logactivity.LoadConfig(), a.Recorder, obs, log)
	a.LogReader = getlogs.NewHandler(getlogs.LoadConfig(cfg.Database.Elasticsearch), es.Client, obs, log)

	if cfg.Session.Enabled {
		a.Redis = database.NewRedis(cfg.Database.Redis)
		a.SessionCreator = createsession.NewHandler(createsession.LoadConfig(cfg.Session), a.Redis.Sessions(), obs, log)
		a.Sessions = sessionstate.NewHandler(sessionstate.LoadConfig(cfg.Session), a.Redis.Sessions(), obs, log)
	}

	return a, nil
}

// GraphQLDependencies returns the schema dependencies. Session resolvers are
// left unset when the session store is disabled.
func (a *App) GraphQLDependencies() graphql.Dependencies {
	deps := graphql.Dependencies{
		Validator:      a.Validator,
		Searcher:       a.Searcher,
		ActivityLogger: a.ActivityLogger,
		LogReader:      a.LogReader,
		AppConfig: graphql.AppConfig{
			GoogleMapsAPIKey: a.Config.Maps.APIKey,
			AnalyticsEnabled: a.Config.Features.ServerSideLogging,
			BaseURL:          a.Config.App.BaseURL,
		},
	}
	if a.Sessions != nil && a.SessionCreator != nil {
		deps.Sessions = a.Sessions
		deps.SessionCreator = a.SessionCreator
	}
	return deps
}

// ReadinessChecks lists the dependencies /ready pings.
func (a *App) ReadinessChecks() map[string]server.Pinger {
	checks := map[string]server.Pinger{
		"elasticsearch": a.Elasticsearch,
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis
	}
	return checks
}

// DrainActivity waits for queued activity writes until ctx is done.
func (a *App) DrainActivity(ctx context.Context) error {
	return a.Recorder.Drain(ctx)
}

// Close flushes queued activity writes, bounded by one write timeout, and
// releases the store clients.
func (a *App) Close() {
	timeout := recorder.LoadConfig(a.Config).Timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.DrainActivity(ctx); err != nil {
		a.Logger.Warn("activity writes still pending at close", map[string]interface{}{"error": err})
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("failed to close redis client", map[string]interface{}{"error": err})
		}
	}
}
