package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"housevalue/server/config"
	"housevalue/server/internal/api"
	"housevalue/server/internal/database"
	"housevalue/server/internal/estimator"
	"housevalue/server/internal/models"
	"housevalue/server/internal/processor"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	app := newApp(logger)
	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("housevalue failed")
	}
}

func newApp(logger *logrus.Logger) *cli.App {
	serve := &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{envFileFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.StringSlice("env-file")...)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}

	return &cli.App{
		Name:   "housevalue",
		Usage:  "House price estimation API",
		Action: serve.Action,
		Flags:  []cli.Flag{envFileFlag()},
		Commands: []*cli.Command{
			serve,
			estimateCommand(),
		},
	}
}

func envFileFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "env-file",
		Usage: "env files to load before reading the environment",
	}
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Print the estimate for one property as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "location", Value: "Suburb"},
			&cli.IntFlag{Name: "bedrooms", Value: 3},
			&cli.Float64Flag{Name: "bathrooms", Value: 2},
			&cli.IntFlag{Name: "sqft", Value: 2000},
			&cli.IntFlag{Name: "year-built", Value: 2000},
			&cli.Float64Flag{Name: "lot-size", Value: 0.5},
			&cli.IntFlag{Name: "floors", Value: 1},
			&cli.BoolFlag{Name: "waterfront"},
			&cli.IntFlag{Name: "condition", Value: 6},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.StringSlice("env-file")...)
			if err != nil {
				return err
			}
			zones, est, err := buildEstimator(cfg)
			if err != nil {
				return err
			}

			features, err := api.NewFeatureValidator(zones, cfg.Estimator.ReferenceYear).Validate(models.PropertyFeatures{
				Location:       c.String("location"),
				Bedrooms:       c.Int("bedrooms"),
				Bathrooms:      c.Float64("bathrooms"),
				Sqft:           c.Int("sqft"),
				YearBuilt:      c.Int("year-built"),
				LotSize:        c.Float64("lot-size"),
				Floors:         c.Int("floors"),
				Waterfront:     c.Bool("waterfront"),
				ConditionGrade: c.Int("condition"),
			})
			if err != nil {
				return err
			}
			prediction := est.Estimate(features)

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(prediction)
		},
	}
}

func buildEstimator(cfg *config.Config) (*config.ZoneTable, estimator.Estimator, error) {
	zones, err := config.LoadZoneTable(cfg.Estimator.ZonesFile)
	if err != nil {
		return nil, nil, err
	}

	est, err := estimator.New(cfg.Estimator.Strategy, estimator.Options{
		Zones:          zones,
		ConfidenceBand: cfg.Estimator.ConfidenceBand,
		ReferenceYear:  cfg.Estimator.ReferenceYear,
	})
	if err != nil {
		return nil, nil, err
	}
	return zones, est, nil
}

func runServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warn("Unknown log level, keeping info")
	}

	zones, est, err := buildEstimator(cfg)
	if err != nil {
		return fmt.Errorf("build estimator: %w", err)
	}
	logger.WithField("strategy", est.Name()).Info("Estimator ready")

	db, err := database.NewDatabase(cfg.Database.DSN, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := seedDataset(ctx, cfg, db, zones, est, logger); err != nil {
		return fmt.Errorf("seed dataset: %w", err)
	}

	handler := api.NewHandler(db, est, zones, cfg.Estimator.ReferenceYear, logger)
	router := api.NewRouter(cfg, handler, logger)
	return api.Serve(ctx, cfg, router, logger)
}

// seedDataset fills an empty dataset with generated sample listings
func seedDataset(ctx context.Context, cfg *config.Config, db *database.Database, zones *config.ZoneTable, est estimator.Estimator, logger *logrus.Logger) error {
	count, err := db.CountProperties(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.WithField("properties", count).Info("Dataset already seeded")
		return nil
	}

	listings := database.GenerateSampleListings(cfg.Database.SeedCount, cfg.Database.SeedValue, zones, est)
	if err := processor.NewBatchProcessor(db.GetDB(), cfg, logger).Process(ctx, listings); err != nil {
		return err
	}

	logger.WithField("properties", len(listings)).Info("Seeded sample dataset")
	return nil
}
