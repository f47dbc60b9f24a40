//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package asyncquery_test

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/suparena/asyncquery"
	"github.com/suparena/asyncquery/config"
	"github.com/suparena/asyncquery/conformance"
)

// openProvider opens cfg.Provider or skips when the variables it needs are unset.
func openProvider(t *testing.T, provider string, required ...string) conformance.Fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if err := config.LoadEnv(); err != nil {
		t.Logf("No .env file loaded: %v", err)
	}
	for _, name := range required {
		if os.Getenv(name) == "" {
			t.Skipf("%s not set, skipping integration test", name)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.Provider = provider
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Invalid config: %v", err)
	}

	store, closeFn, err := asyncquery.DefaultProviders().Open(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open %s: %v", provider, err)
	}
	t.Cleanup(func() { closeFn() })
	return conformance.StoreFixture(store)
}

func TestIntegrationDynamoDBConformance(t *testing.T) {
	fixture := openProvider(t, "dynamodb", "AWS_DDB_TABLE", "AWS_REGION", "AWS_ACCESS_KEY", "AWS_SECRET_KEY")
	conformance.RunAllWith(t, fixture, conformance.RunOptions{
		Kinds: []string{"int64", "decimal?"},
	})
}

func TestIntegrationRedisConformance(t *testing.T) {
	fixture := openProvider(t, "redis", "REDIS_ADDR")
	conformance.RunAll(t, fixture)
}

func TestIntegrationSQLiteFileConformance(t *testing.T) {
	fixture := openProvider(t, "sqlite", "SQLITE_DSN")
	conformance.RunAll(t, fixture)
}
