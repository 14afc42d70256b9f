// Package queue publishes migration domain events to RabbitMQ. Downstream
// collaborators (the mail dispatcher, reporting) consume them; this engine
// only publishes.
package queue

import (
	"time"

	"github.com/iliyamo/warranty-migration/internal/importer"
)

// MigrationCompletedEvent is published after a pipeline run finishes,
// successfully or not. It carries enough for downstream consumers to log,
// notify, or reconcile without querying the primary database.
type MigrationCompletedEvent struct {
	RunID      string              `json:"run_id"`
	Mode       string              `json:"mode"`
	Users      importer.StageCount `json:"users"`
	Vehicles   importer.StageCount `json:"vehicles"`
	Warranties importer.StageCount `json:"warranties"`
	ErrorCount int                 `json:"error_count"`
	Fatal      string              `json:"fatal,omitempty"`
	StartedAt  string              `json:"started_at"`
	FinishedAt string              `json:"finished_at"`
}

// NewMigrationCompletedEvent maps run statistics onto the wire payload.
func NewMigrationCompletedEvent(stats importer.Statistics, fatal error) MigrationCompletedEvent {
	ev := MigrationCompletedEvent{
		RunID:      stats.RunID,
		Mode:       stats.Mode,
		Users:      stats.Users,
		Vehicles:   stats.Vehicles,
		Warranties: stats.Warranties,
		ErrorCount: len(stats.Errors),
		StartedAt:  stats.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: stats.FinishedAt.UTC().Format(time.RFC3339),
	}
	if fatal != nil {
		ev.Fatal = fatal.Error()
	}
	return ev
}
