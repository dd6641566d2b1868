package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/config"
	"github.com/quantforge/macrosim/internal/database"
	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/events"
	"github.com/quantforge/macrosim/internal/modules/comparison"
	"github.com/quantforge/macrosim/internal/modules/evolution"
	"github.com/quantforge/macrosim/internal/modules/montecarlo"
	"github.com/quantforge/macrosim/internal/modules/results"
	"github.com/quantforge/macrosim/internal/modules/scenarios"
	"github.com/quantforge/macrosim/internal/server"
	"github.com/quantforge/macrosim/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting macrosim")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ev := events.NewManager(log)

	// Result store
	repo := results.NewRepository(db, time.Duration(cfg.ResultTTLHours)*time.Hour, nil, ev, log)

	// Scenario catalog and engines
	catalog := scenarios.DefaultCatalog()
	baseline, _ := scenarios.FindScenario(catalog, scenarios.BaselineScenarioID)

	scenarioSvc := scenarios.NewService(scenarios.Config{
		Iterations: cfg.Iterations,
		Seed:       cfg.SeedPtr(),
		Baseline:   &baseline,
	}, ev, log)

	comparisonSvc := comparison.NewService(log)

	engine := buildEvolution(cfg, catalog, baseline, ev, log)
	if err := engine.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start evolution engine")
	}
	defer engine.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Log:     log,
		AppCfg:  cfg,

		Montecarlo: montecarlo.NewHandler(domain.SimulationConfig{
			Iterations: cfg.Iterations,
			Seed:       cfg.SeedPtr(),
		}, log),
		Scenarios:  scenarios.NewHandler(scenarioSvc, catalog, repo, log),
		Comparison: comparison.NewHandler(comparisonSvc, scenarioSvc, catalog, log),
		Evolution:  evolution.NewHandler(engine, log),
		Results:    results.NewHandler(repo, log),
		System:     server.NewSystemHandlers(cfg, engine, repo, log),
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// buildEvolution assembles the time-based engine with the default drift
// and regime-rule set over the built-in catalog.
func buildEvolution(cfg *config.Config, catalog []domain.EconomicScenario, baseline domain.EconomicScenario, ev *events.Manager, log zerolog.Logger) *evolution.Engine {
	initial := baseline
	if cfg.InitialScenarioID != "" {
		if found, ok := scenarios.FindScenario(catalog, cfg.InitialScenarioID); ok {
			initial = found
		} else {
			log.Warn().Str("scenario_id", cfg.InitialScenarioID).Msg("Unknown initial scenario, using baseline")
		}
	}

	lateExpansion := 4.0
	drawnOutRecession := 1.5

	return evolution.New(evolution.Config{
		Cadence:                evolution.Cadence(cfg.EvolutionCadence),
		RetentionYears:         cfg.RetentionYears,
		SmoothingWindow:        cfg.SmoothingWindow,
		DriftEnabled:           cfg.DriftEnabled,
		RegimeDetectionEnabled: cfg.RegimeDetection,
		TransitionDuration:     time.Duration(cfg.TransitionDays) * 24 * time.Hour,
		Seed:                   cfg.SeedPtr(),
	}, initial, evolution.Options{
		Catalog: catalog,
		Events:  ev,
		Drifts: []evolution.DriftSpec{
			{
				Parameter:      domain.ParamInflationMean,
				Volatility:     0.004,
				Min:            -0.02,
				Max:            0.12,
				ReversionSpeed: 0.5,
				LongRunMean:    0.025,
			},
			{
				Parameter:      domain.ParamInterestRate,
				Volatility:     0.003,
				Min:            0,
				Max:            0.15,
				ReversionSpeed: 0.3,
				LongRunMean:    0.03,
			},
			{
				Parameter:  domain.ParamMarketReturnVolatility,
				Volatility: 0.01,
				Min:        0.05,
				Max:        0.60,
			},
		},
		Rules: []evolution.RegimeChangeRule{
			{
				// Long expansions become fragile
				FromScenarioID:               scenarios.BaselineScenarioID,
				ToScenarioID:                 "recession",
				TransitionProbabilityPerTick: 0.02,
				Triggers:                     evolution.TriggerConditions{TimeThresholdYears: &lateExpansion},
				TransitionSpeed:              evolution.SpeedGradual,
			},
			{
				FromScenarioID:               "recession",
				ToScenarioID:                 scenarios.BaselineScenarioID,
				TransitionProbabilityPerTick: 0.03,
				Triggers:                     evolution.TriggerConditions{TimeThresholdYears: &drawnOutRecession},
				TransitionSpeed:              evolution.SpeedSmooth,
			},
			{
				// Overheating expansion tips into a boom
				FromScenarioID:               scenarios.BaselineScenarioID,
				ToScenarioID:                 "boom",
				TransitionProbabilityPerTick: 0.01,
				Triggers: evolution.TriggerConditions{
					ParameterThresholds: []evolution.ParameterThreshold{
						{Parameter: domain.ParamInflationMean, Comparison: evolution.CompareGreater, Value: 0.035},
					},
				},
				TransitionSpeed: evolution.SpeedGradual,
			},
		},
	}, log)
}
