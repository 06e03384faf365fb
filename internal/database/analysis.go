// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/navarasa/analyzer/internal/metrics"
	"github.com/navarasa/analyzer/internal/models"
)

// ErrAnalysisNotFound is returned when no analysis exists for an ID.
var ErrAnalysisNotFound = errors.New("analysis not found")

// storedAnalysis is the persisted representation. The API model hides
// FilePath from JSON; storage still needs it, so the wrapper re-adds it.
type storedAnalysis struct {
	models.Analysis
	FilePath string `json:"filePath"`
}

func marshalAnalysis(a *models.Analysis) ([]byte, error) {
	return json.Marshal(storedAnalysis{Analysis: *a, FilePath: a.FilePath})
}

func unmarshalAnalysis(val []byte, a *models.Analysis) error {
	var sa storedAnalysis
	if err := json.Unmarshal(val, &sa); err != nil {
		return err
	}
	*a = sa.Analysis
	a.FilePath = sa.FilePath
	return nil
}

// AnalysisFilter narrows and orders analysis listings. Zero values match
// everything and sort newest first.
type AnalysisFilter struct {
	// Emotion filters on PrimaryEmotion equality.
	Emotion string

	// SortBy orders the listing descending by the named field. Supported:
	// "createdAt" (default, served by the time index), "confidence",
	// "fileSize", "duration".
	SortBy string
}

// AnalysisSortFields lists the accepted SortBy values.
var AnalysisSortFields = map[string]bool{
	"createdAt":  true,
	"confidence": true,
	"fileSize":   true,
	"duration":   true,
}

// CreateAnalysis assigns an ID and timestamps and persists the record
// together with its time-index key.
func (s *Store) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	start := time.Now()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	data, err := marshalAnalysis(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(analysisKeyPrefix+a.ID), data); err != nil {
			return fmt.Errorf("set analysis: %w", err)
		}

		tsKey := []byte(analysisTSKeyPrefix + inverseNanos(a.CreatedAt.UnixNano()) + ":" + a.ID)
		if err := txn.Set(tsKey, []byte(a.ID)); err != nil {
			return fmt.Errorf("set analysis time index: %w", err)
		}

		return nil
	})

	metrics.RecordStoreOperation("create", "analysis", time.Since(start), err)
	if err == nil {
		metrics.StoreDocuments.WithLabelValues("analysis").Inc()
	}
	return err
}

// GetAnalysis retrieves one analysis by ID.
func (s *Store) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	start := time.Now()

	var a models.Analysis
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(analysisKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrAnalysisNotFound
		}
		if err != nil {
			return fmt.Errorf("get analysis: %w", err)
		}

		return item.Value(func(val []byte) error {
			return unmarshalAnalysis(val, &a)
		})
	})

	metrics.RecordStoreOperation("get", "analysis", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnalyses returns one page of analyses along with the total number of
// records matching the filter. Page is 1-based. The default createdAt order
// comes straight off the time index; other sort fields load the matching
// set and sort it in memory, which is fine at this store's scale.
func (s *Store) ListAnalyses(ctx context.Context, page, limit int, filter AnalysisFilter) ([]*models.Analysis, int64, error) {
	if filter.SortBy != "" && filter.SortBy != "createdAt" {
		return s.listAnalysesSorted(ctx, page, limit, filter)
	}

	start := time.Now()

	var (
		results []*models.Analysis
		total   int64
	)
	skip := int64(page-1) * int64(limit)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(analysisTSKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get([]byte(analysisKeyPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue // index entry outlived the record
			}
			if err != nil {
				return fmt.Errorf("get analysis %s: %w", id, err)
			}

			var a models.Analysis
			if err := item.Value(func(val []byte) error {
				return unmarshalAnalysis(val, &a)
			}); err != nil {
				return fmt.Errorf("unmarshal analysis %s: %w", id, err)
			}

			if filter.Emotion != "" && a.PrimaryEmotion != filter.Emotion {
				continue
			}

			total++
			if total <= skip || len(results) >= limit {
				continue
			}
			results = append(results, &a)
		}
		return nil
	})

	metrics.RecordStoreOperation("list", "analysis", time.Since(start), err)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// listAnalysesSorted serves the non-default sort fields.
func (s *Store) listAnalysesSorted(ctx context.Context, page, limit int, filter AnalysisFilter) ([]*models.Analysis, int64, error) {
	start := time.Now()

	var matched []*models.Analysis
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(analysisKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var a models.Analysis
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalAnalysis(val, &a)
			}); err != nil {
				return fmt.Errorf("unmarshal analysis: %w", err)
			}
			if filter.Emotion != "" && a.PrimaryEmotion != filter.Emotion {
				continue
			}
			matched = append(matched, &a)
		}
		return nil
	})

	metrics.RecordStoreOperation("list", "analysis", time.Since(start), err)
	if err != nil {
		return nil, 0, err
	}

	sortKey := func(a *models.Analysis) float64 {
		switch filter.SortBy {
		case "confidence":
			return a.Confidence
		case "fileSize":
			return float64(a.FileSize)
		case "duration":
			return a.Duration
		default:
			return float64(a.CreatedAt.UnixNano())
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return sortKey(matched[i]) > sortKey(matched[j])
	})

	total := int64(len(matched))
	from := (page - 1) * limit
	if from >= len(matched) {
		return nil, total, nil
	}
	to := from + limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], total, nil
}

// DeleteAnalysis removes an analysis and its time-index key. Deleting an
// absent ID returns ErrAnalysisNotFound so callers can 404.
func (s *Store) DeleteAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	start := time.Now()

	a, err := s.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(analysisKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete analysis: %w", err)
		}

		tsKey := []byte(analysisTSKeyPrefix + inverseNanos(a.CreatedAt.UnixNano()) + ":" + id)
		if err := txn.Delete(tsKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete analysis time index: %w", err)
		}

		return nil
	})

	metrics.RecordStoreOperation("delete", "analysis", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	metrics.StoreDocuments.WithLabelValues("analysis").Dec()
	return a, nil
}

// CountAnalyses returns the total number of stored analyses.
func (s *Store) CountAnalyses(ctx context.Context) (int64, error) {
	return s.countPrefix(analysisKeyPrefix)
}
