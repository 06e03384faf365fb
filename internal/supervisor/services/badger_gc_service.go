// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package services

import (
	"context"
	"time"

	"github.com/navarasa/analyzer/internal/logging"
)

// ValueLogGC is the slice of the document store this service drives.
// Satisfied by *database.Store.
type ValueLogGC interface {
	RunValueLogGC(discardRatio float64) (bool, error)
}

// BadgerGCService periodically reclaims Badger value-log space. When a GC
// round rewrites a log file another round runs immediately, since reclaimable
// space tends to come in batches after bulk deletes.
type BadgerGCService struct {
	store        ValueLogGC
	interval     time.Duration
	discardRatio float64
}

// NewBadgerGCService creates the maintenance loop. Interval defaults to
// 5 minutes, discard ratio to 0.5.
func NewBadgerGCService(store ValueLogGC, interval time.Duration, discardRatio float64) *BadgerGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &BadgerGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
	}
}

// Serve implements suture.Service.
func (g *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.collect(ctx)
		}
	}
}

func (g *BadgerGCService) collect(ctx context.Context) {
	for {
		rewritten, err := g.store.RunValueLogGC(g.discardRatio)
		if err != nil {
			logging.Warn().Err(err).Msg("badger value log gc failed")
			return
		}
		if !rewritten || ctx.Err() != nil {
			return
		}
		logging.Debug().Msg("badger value log file reclaimed")
	}
}

// String identifies the service in supervision logs.
func (g *BadgerGCService) String() string {
	return "badger-gc"
}
