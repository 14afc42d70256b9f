package importer

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/legacy"
	"github.com/iliyamo/warranty-migration/internal/model"
)

// importVehicles migrates the VEICULO table. Owner linkage is hard: a
// vehicle whose owner has not been migrated is skipped, never defaulted.
func (p *Pipeline) importVehicles(ctx context.Context, log zerolog.Logger, doc *legacy.Document, mode Mode) (StageResult, error) {
	var res StageResult
	rows, err := doc.Table(tableVehicles)
	if err != nil {
		return res, err
	}
	// The user stage committed before this one started, so the map sees
	// every account migrated in this run.
	owners, err := p.users.LegacyIDMap(ctx)
	if err != nil {
		return res, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	for i := range rows {
		rec := legacy.VehicleRecordFromRow(&rows[i])
		if err := p.importVehicle(ctx, log, tx, rec, owners, mode, &res); err != nil {
			_ = tx.Rollback()
			return res, err
		}
	}
	return res, tx.Commit()
}

func (p *Pipeline) importVehicle(ctx context.Context, log zerolog.Logger, tx *sql.Tx, rec legacy.VehicleRecord, owners map[string]uint64, mode Mode, res *StageResult) error {
	label := rowLabel(rec.LegacyID)
	if legacy.Blank(rec.OwnerLegacyID) {
		res.fail("vehicle", label, "missing required field ID_CLIENTE")
		return nil
	}
	if legacy.Blank(rec.Make) || legacy.Blank(rec.Model) || legacy.Blank(rec.Plate) {
		res.fail("vehicle", label, "missing required field MARCA, MODELO or PLACA")
		return nil
	}
	ownerID, ok := owners[*rec.OwnerLegacyID]
	if !ok {
		res.fail("vehicle", label, "owner "+*rec.OwnerLegacyID+" has no migrated user")
		return nil
	}

	existing, err := p.vehicles.FindByOwnerAndPlateTx(ctx, tx, ownerID, *rec.Plate)
	if err != nil {
		return err
	}
	if existing != nil {
		if mode == ModeFixUp && existing.LegacyVehicleID == nil && !legacy.Blank(rec.LegacyID) {
			if err := p.vehicles.SetLegacyIDTx(ctx, tx, existing.ID, *rec.LegacyID); err != nil {
				return err
			}
			res.Backfilled++
			log.Info().Str("legacy_id", *rec.LegacyID).Uint64("vehicle_id", existing.ID).
				Msg("backfilled legacy id on existing vehicle")
			return nil
		}
		res.Skipped++
		log.Debug().Str("legacy_id", label).Msg("vehicle already present")
		return nil
	}

	var year *int
	if !legacy.Blank(rec.ModelYear) {
		year = legacy.ParseModelYear(*rec.ModelYear)
	}
	v := model.Vehicle{
		UserID:          ownerID,
		Make:            *rec.Make,
		Model:           *rec.Model,
		ModelYear:       year,
		Plate:           *rec.Plate,
		Color:           opt(rec.Color),
		Chassis:         opt(rec.Chassis),
		LegacyVehicleID: opt(rec.LegacyID),
		Active:          true,
	}
	if err := p.vehicles.InsertTx(ctx, tx, &v); err != nil {
		return err
	}
	res.Imported++
	return nil
}
