package importer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/legacy"
	"github.com/iliyamo/warranty-migration/internal/repository"
)

// Legacy table names consumed from the export.
const (
	tableUsers      = "CLIENTE"
	tableVehicles   = "VEICULO"
	tableWarranties = "PRODUTO_APLICADO"
)

// Pipeline wires the repositories and runs the stages in dependency order.
// It is single-threaded on purpose: identifier resolution depends on the
// previous stage's committed writes, and the dominant cost is per-row
// decoding, not I/O wait.
type Pipeline struct {
	db         *sql.DB
	users      *repository.UserRepo
	vehicles   *repository.VehicleRepo
	products   *repository.ProductRepo
	warranties *repository.WarrantyRepo
	log        zerolog.Logger
	now        func() time.Time
}

// New builds a Pipeline over the given store handle.
func New(db *sql.DB, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		db:         db,
		users:      repository.NewUserRepo(db),
		vehicles:   repository.NewVehicleRepo(db),
		products:   repository.NewProductRepo(db),
		warranties: repository.NewWarrantyRepo(db),
		log:        logger,
		now:        time.Now,
	}
}

// Run executes the full pipeline against a loaded export and returns the
// merged statistics. Row-level problems never abort the run; the only
// fatal class is a store failure, which ends the current stage and skips
// the remaining ones since they depend on committed state. The partial
// statistics collected so far are returned alongside the error, and the
// caller may safely retry thanks to the idempotent dedup keys.
func (p *Pipeline) Run(ctx context.Context, doc *legacy.Document, mode Mode) (Statistics, error) {
	stats := Statistics{
		RunID:     uuid.NewString(),
		Mode:      mode.String(),
		StartedAt: p.now(),
	}
	log := p.log.With().Str("run_id", stats.RunID).Str("mode", stats.Mode).Logger()
	log.Info().Msg("migration run started")

	stages := []struct {
		entity *StageCount
		run    func(context.Context, zerolog.Logger, *legacy.Document, Mode) (StageResult, error)
	}{
		{&stats.Users, p.importUsers},
		{&stats.Vehicles, p.importVehicles},
		{&stats.Warranties, p.importWarranties},
	}
	for _, s := range stages {
		res, err := s.run(ctx, log, doc, mode)
		stats.merge(s.entity, res)
		if err != nil {
			stats.FinishedAt = p.now()
			log.Error().Err(err).Msg("migration run aborted")
			return stats, err
		}
	}

	stats.FinishedAt = p.now()
	log.Info().
		Int("users", stats.Users.Imported).
		Int("vehicles", stats.Vehicles.Imported).
		Int("warranties", stats.Warranties.Imported).
		Int("errors", len(stats.Errors)).
		Msg("migration run finished")
	return stats, nil
}

// rowLabel is the per-row context carried into log lines and error strings.
func rowLabel(legacyID *string) string {
	if legacy.Blank(legacyID) {
		return "(no legacy id)"
	}
	return *legacyID
}

// opt normalizes an optional legacy field: blank becomes NULL in the store.
func opt(s *string) *string {
	if legacy.Blank(s) {
		return nil
	}
	return s
}

// decodeDate parses an optional legacy date field, logging a warning when a
// present value matches none of the supported formats. Callers that need a
// non-null value substitute the current time.
func decodeDate(log zerolog.Logger, entity, label, field string, s *string) *time.Time {
	if legacy.Blank(s) {
		return nil
	}
	t := legacy.ParseDate(*s)
	if t == nil {
		log.Warn().Str("entity", entity).Str("legacy_id", label).
			Str("field", field).Str("value", *s).Msg("unparseable date")
	}
	return t
}
