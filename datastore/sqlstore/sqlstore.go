/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqlstore provides a SQLite DataStore built on database/sql and the
// pure Go modernc.org/sqlite driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/storagemodels"
)

// Name is the provider name of the SQLite store.
const Name = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS sequence_items (
	seq     TEXT    NOT NULL,
	idx     INTEGER NOT NULL,
	val     TEXT    NOT NULL DEFAULT '',
	is_null INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (seq, idx)
) WITHOUT ROWID`

// DataStore implements datastore.DataStore on a sequence_items table.
type DataStore struct {
	db *sql.DB
}

var (
	_ datastore.DataStore   = (*DataStore)(nil)
	_ datastore.FirstReader = (*DataStore)(nil)
	_ datastore.Counter     = (*DataStore)(nil)
)

// Open opens the SQLite database at dsn and creates the schema if needed.
// Connections are limited to one so in-memory databases stay shared.
func Open(ctx context.Context, dsn string) (*DataStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open database and creates the schema if needed.
func New(ctx context.Context, db *sql.DB) (*DataStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DataStore{db: db}, nil
}

// Close closes the underlying database.
func (s *DataStore) Close() error {
	return s.db.Close()
}

// Name returns the provider name
func (s *DataStore) Name() string {
	return Name
}

// Put replaces the sequence stored under key inside one transaction.
func (s *DataStore) Put(ctx context.Context, key string, items []storagemodels.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sequence_items WHERE seq = ?`, key); err != nil {
		return fmt.Errorf("failed to clear sequence %q: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sequence_items (seq, idx, val, is_null) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, key, item.Index, item.Value, item.Null); err != nil {
			return fmt.Errorf("failed to insert item %d: %w", item.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sequence %q: %w", key, err)
	}
	return nil
}

// Stream pages through the sequence ordered by index, using the last seen
// index as the cursor.
func (s *DataStore) Stream(ctx context.Context, key string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	fetch := func(ctx context.Context, cursor any, limit int32) ([]storagemodels.Item, any, error) {
		after := int64(-1)
		if cursor != nil {
			after = cursor.(int64)
		}

		items, err := s.page(ctx, key, after, limit)
		if err != nil {
			return nil, nil, err
		}
		if len(items) == 0 || len(items) < int(limit) {
			return items, nil, nil
		}
		return items, items[len(items)-1].Index, nil
	}

	return datastore.StreamPages(ctx, fetch, isBusy, opts...)
}

// page reads the full page before returning so the connection is released
// between pages.
func (s *DataStore) page(ctx context.Context, key string, after int64, limit int32) ([]storagemodels.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, val, is_null FROM sequence_items WHERE seq = ? AND idx > ? ORDER BY idx LIMIT ?`,
		key, after, limit)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	items := make([]storagemodels.Item, 0, limit)
	for rows.Next() {
		var item storagemodels.Item
		if err := rows.Scan(&item.Index, &item.Value, &item.Null); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return items, nil
}

// First returns the item with the lowest index.
func (s *DataStore) First(ctx context.Context, key string) (storagemodels.Item, bool, error) {
	var item storagemodels.Item
	err := s.db.QueryRowContext(ctx,
		`SELECT idx, val, is_null FROM sequence_items WHERE seq = ? ORDER BY idx LIMIT 1`, key,
	).Scan(&item.Index, &item.Value, &item.Null)
	if errors.Is(err, sql.ErrNoRows) {
		return storagemodels.Item{}, false, nil
	}
	if err != nil {
		return storagemodels.Item{}, false, fmt.Errorf("first query error: %w", err)
	}
	return item, true, nil
}

// Count returns the number of items stored under key.
func (s *DataStore) Count(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sequence_items WHERE seq = ?`, key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count query error: %w", err)
	}
	return n, nil
}

// Delete removes the sequence stored under key.
func (s *DataStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sequence_items WHERE seq = ?`, key); err != nil {
		return fmt.Errorf("failed to delete sequence %q: %w", key, err)
	}
	return nil
}

// isBusy reports lock contention, which clears up on retry. Extended result
// codes keep the primary code in the low byte.
func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
