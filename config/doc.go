/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads conformance run settings from YAML with environment
// overrides.
//
// Recognised variables: ASYNCQUERY_PROVIDER, AWS_ACCESS_KEY, AWS_SECRET_KEY,
// AWS_REGION, AWS_DDB_TABLE, REDIS_ADDR and SQLITE_DSN. LoadEnv reads them
// from .env files first.
package config
