package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5010"`

		// Gin mode: debug, release or test
		Mode string `env:"GIN_MODE" envDefault:"release"`

		// Origins allowed to call the API from a browser
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Database struct {
		// SQLite DSN of the sample dataset; in-memory unless overridden
		DSN string `env:"DATABASE_DSN" envDefault:"file::memory:?cache=shared"`

		// Number of sample listings generated when the dataset is empty
		SeedCount int `env:"SEED_COUNT" envDefault:"400"`

		// Random seed of the sample generator
		SeedValue int64 `env:"SEED_VALUE" envDefault:"42"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of listings written in one transaction
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"1"`
	}

	Estimator struct {
		Strategy string `env:"ESTIMATOR_STRATEGY" envDefault:"heuristic-linear"`

		// Half-width of the confidence interval as a fraction of the estimate
		ConfidenceBand float64 `env:"ESTIMATOR_CONFIDENCE_BAND" envDefault:"0.10"`

		// Year used to compute building age; 0 means the current year at startup
		ReferenceYear int `env:"ESTIMATOR_REFERENCE_YEAR" envDefault:"0"`

		// Optional JSON file replacing the built-in zone table
		ZonesFile string `env:"ZONES_FILE"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}
}

// LoadConfig reads the optional env files and parses the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Estimator.ReferenceYear == 0 {
		cfg.Estimator.ReferenceYear = time.Now().Year()
	}
	if cfg.Estimator.ConfidenceBand < 0 || cfg.Estimator.ConfidenceBand >= 1 {
		return nil, fmt.Errorf("confidence band must be in [0, 1), got %v", cfg.Estimator.ConfidenceBand)
	}
	if cfg.BatchProcessing.MaxBatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchProcessing.MaxBatchSize)
	}

	return cfg, nil
}
