package presets

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/tendant/simple-feed/pkg/simplefeed"
	"github.com/tendant/simple-feed/pkg/simplefeed/config"
	memoryrepo "github.com/tendant/simple-feed/pkg/simplefeed/repo/memory"
)

// Configuration Presets
//
// Ready-made service setups for the common cases. Each one remains customizable
// through its own functional options.

// NewDevelopment creates a service configured for local development.
//
// Features:
//   - In-memory repository (instant startup, no setup required)
//   - Debug-level text logging
//   - Domain events written to the log
//
// Example:
//
//	svc, err := presets.NewDevelopment()
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewDevelopment(opts ...DevelopmentOption) (simplefeed.Service, error) {
	cfg := &devConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	svc, err := simplefeed.New(
		simplefeed.WithRepository(memoryrepo.New()),
		simplefeed.WithEventSink(simplefeed.NewLoggingEventSink(cfg.logger)),
		simplefeed.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

// NewTesting creates a service configured for unit and integration tests.
//
// Features:
//   - In-memory repository (isolated per test)
//   - No event logging (cleaner test output)
//   - Supports parallel test execution
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    svc := presets.NewTesting(t)
//	    // Use service in test...
//	}
func NewTesting(t testing.TB, opts ...TestingOption) simplefeed.Service {
	t.Helper()

	cfg := &testConfig{
		repository: memoryrepo.New(),
		eventSink:  simplefeed.NewNoopEventSink(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	svc, err := simplefeed.New(
		simplefeed.WithRepository(cfg.repository),
		simplefeed.WithEventSink(cfg.eventSink),
	)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}
	return svc
}

// NewProduction creates a service configured for production deployment.
//
// Configuration is read from the environment (see config.WithEnv) and then
// the supplied options are applied.
//
// Required:
//   - DATABASE_URL: PostgreSQL connection string (memory is not allowed)
//   - JWT_SECRET: HS256 secret for bearer-token auth
//
// Example:
//
//	svc, err := presets.NewProduction()
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewProduction(opts ...ProductionOption) (simplefeed.Service, error) {
	configOpts := []config.Option{
		config.WithEnv(""),
		config.WithEnvironment("production"),
	}
	for _, opt := range opts {
		configOpts = append(configOpts, config.Option(opt))
	}

	cfg, err := config.Load(configOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid production configuration: %w", err)
	}
	if cfg.DatabaseType != "postgres" {
		return nil, fmt.Errorf("production preset requires a postgres DATABASE_URL (memory not allowed in production)")
	}

	return cfg.BuildService()
}

// devConfig holds development preset configuration
type devConfig struct {
	logger *slog.Logger
}

// testConfig holds testing preset configuration
type testConfig struct {
	repository simplefeed.Repository
	eventSink  simplefeed.EventSink
}

// DevelopmentOption is a functional option for NewDevelopment
type DevelopmentOption func(*devConfig)

// WithDevLogger replaces the default debug logger
func WithDevLogger(logger *slog.Logger) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.logger = logger
	}
}

// TestingOption is a functional option for NewTesting
type TestingOption func(*testConfig)

// WithTestRepository swaps the in-memory repository, e.g. for a Postgres-backed one
func WithTestRepository(repo simplefeed.Repository) TestingOption {
	return func(cfg *testConfig) {
		cfg.repository = repo
	}
}

// WithTestEventSink captures events instead of discarding them
func WithTestEventSink(sink simplefeed.EventSink) TestingOption {
	return func(cfg *testConfig) {
		cfg.eventSink = sink
	}
}

// ProductionOption is a functional option for NewProduction
type ProductionOption config.Option

// WithProdDatabase sets the production Postgres URL and schema
func WithProdDatabase(url, schema string) ProductionOption {
	return func(cfg *config.ServerConfig) error {
		if err := config.WithDatabase("postgres", url)(cfg); err != nil {
			return err
		}
		return config.WithDatabaseSchema(schema)(cfg)
	}
}

// WithProdJWTSecret sets the bearer-token secret
func WithProdJWTSecret(secret string) ProductionOption {
	return ProductionOption(config.WithJWTSecret(secret))
}
