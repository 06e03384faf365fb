// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package database persists analyses and contact submissions in BadgerDB.
//
// Documents are stored as JSON under per-collection key prefixes. Each
// document carries a secondary time-index key whose byte order inverts the
// creation timestamp, so a plain prefix iteration yields newest-first
// listings without an in-memory sort.
//
// Key layout:
//
//	analysis:<id>                      -> Analysis JSON
//	analysis_ts:<inverse-nanos>:<id>   -> id
//	contact:<id>                       -> Contact JSON
//	contact_ts:<inverse-nanos>:<id>    -> id
package database

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/navarasa/analyzer/internal/config"
	"github.com/navarasa/analyzer/internal/logging"
)

// Key prefixes for BadgerDB storage
const (
	analysisKeyPrefix   = "analysis:"
	analysisTSKeyPrefix = "analysis_ts:"
	contactKeyPrefix    = "contact:"
	contactTSKeyPrefix  = "contact_ts:"
)

// Store wraps the BadgerDB handle shared by the analysis and contact
// collections. Safe for concurrent use; Badger provides SSI transactions.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the document store at the configured path. With
// InMemory set the store lives entirely in RAM, which the tests use.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", cfg.Path, err)
	}

	return &Store{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the store is usable by running an empty read transaction.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return fmt.Errorf("document store is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// RunValueLogGC triggers one round of Badger value-log garbage collection.
// Badger never reclaims value-log space on its own; callers run this
// periodically. badger.ErrNoRewrite (nothing to reclaim) is reported as
// (false, nil). In-memory stores have no value log and always return false.
func (s *Store) RunValueLogGC(discardRatio float64) (bool, error) {
	if s.db.Opts().InMemory {
		return false, nil
	}

	err := s.db.RunValueLogGC(discardRatio)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrNoRewrite):
		return false, nil
	default:
		return false, fmt.Errorf("badger value log gc: %w", err)
	}
}

// inverseNanos maps a creation timestamp to a fixed-width decimal string
// whose lexicographic order is the reverse of chronological order.
func inverseNanos(unixNano int64) string {
	return fmt.Sprintf("%020d", math.MaxInt64-unixNano)
}

// countPrefix counts keys under a prefix without fetching values.
func (s *Store) countPrefix(prefix string) (int64, error) {
	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// badgerLogger adapts Badger's internal logging to zerolog. Badger is
// chatty at INFO during compaction, so its info and debug lines are
// demoted to debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf("badger: "+strings.TrimSpace(format), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf("badger: "+strings.TrimSpace(format), args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+strings.TrimSpace(format), args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+strings.TrimSpace(format), args...)
}
