// Package service orchestrates a complete migration run around the
// importer pipeline: single-run locking, loading the export, snapshotting
// the statistics and notifying downstream consumers. Both the migrate CLI
// and the admin API call into it.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/importer"
	"github.com/iliyamo/warranty-migration/internal/legacy"
	"github.com/iliyamo/warranty-migration/internal/queue"
	"github.com/iliyamo/warranty-migration/internal/runlock"
)

const lastRunKey = "warranty:migration:last_run"

// ErrRunInProgress mirrors the run lock's failure for callers that do not
// want to import the runlock package.
var ErrRunInProgress = runlock.ErrHeld

// Migration runs the pipeline with its operational trimmings. Redis may be
// nil; locking and snapshots then degrade to no-ops.
type Migration struct {
	DB    *sql.DB
	Redis *redis.Client
	Log   zerolog.Logger
}

// Execute loads the export at inputPath and runs the full pipeline, or the
// fix-up variant when fixup is set. The returned statistics are complete on
// success and partial when err is non-nil; either way they have been
// snapshotted and the completion event published before returning.
func (m *Migration) Execute(ctx context.Context, inputPath string, fixup bool) (importer.Statistics, error) {
	doc, err := legacy.Load(inputPath)
	if err != nil {
		return importer.Statistics{}, err
	}

	lock := runlock.New(m.Redis, 2*time.Hour)
	token := uuid.NewString()
	if err := lock.Acquire(ctx, token); err != nil {
		return importer.Statistics{}, err
	}
	defer func() {
		if rerr := lock.Release(context.WithoutCancel(ctx), token); rerr != nil {
			m.Log.Warn().Err(rerr).Msg("could not release run lock")
		}
	}()

	mode := importer.ModeFirstPass
	if fixup {
		mode = importer.ModeFixUp
	}
	stats, runErr := importer.New(m.DB, m.Log).Run(ctx, doc, mode)

	m.snapshot(ctx, stats)
	if perr := queue.PublishMigrationCompleted(ctx, queue.NewMigrationCompletedEvent(stats, runErr)); perr != nil {
		// A lost notification must not fail a finished migration.
		m.Log.Warn().Err(perr).Msg("could not publish completion event")
	}
	return stats, runErr
}

// LastRun returns the most recent statistics snapshot, or (nil, nil) when
// none is available.
func (m *Migration) LastRun(ctx context.Context) (json.RawMessage, error) {
	if m.Redis == nil {
		return nil, nil
	}
	raw, err := m.Redis.Get(ctx, lastRunKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (m *Migration) snapshot(ctx context.Context, stats importer.Statistics) {
	if m.Redis == nil {
		return
	}
	body, err := json.Marshal(stats)
	if err != nil {
		m.Log.Warn().Err(err).Msg("could not marshal statistics snapshot")
		return
	}
	if err := m.Redis.Set(ctx, lastRunKey, body, 0).Err(); err != nil {
		m.Log.Warn().Err(err).Msg("could not store statistics snapshot")
	}
}
