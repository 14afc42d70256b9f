package importer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/legacy"
	"github.com/iliyamo/warranty-migration/internal/model"
)

// importWarranties migrates the PRODUTO_APLICADO table. Owner linkage is
// hard; vehicle linkage is soft: a warranty is never dropped only because
// its vehicle cannot be resolved, a placeholder is synthesized instead.
func (p *Pipeline) importWarranties(ctx context.Context, log zerolog.Logger, doc *legacy.Document, mode Mode) (StageResult, error) {
	var res StageResult
	rows, err := doc.Table(tableWarranties)
	if err != nil {
		return res, err
	}
	owners, err := p.users.LegacyIDMap(ctx)
	if err != nil {
		return res, err
	}
	vehicles, err := p.vehicles.LegacyIDMap(ctx)
	if err != nil {
		return res, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	for i := range rows {
		rec := legacy.WarrantyRecordFromRow(&rows[i])
		if err := p.importWarranty(ctx, log, tx, rec, owners, vehicles, &res); err != nil {
			_ = tx.Rollback()
			return res, err
		}
	}
	return res, tx.Commit()
}

func (p *Pipeline) importWarranty(ctx context.Context, log zerolog.Logger, tx *sql.Tx, rec legacy.WarrantyRecord, owners, vehicles map[string]uint64, res *StageResult) error {
	label := rowLabel(rec.OwnerLegacyID)
	if legacy.Blank(rec.OwnerLegacyID) {
		res.fail("warranty", label, "missing required field ID_CLIENTE")
		return nil
	}
	if legacy.Blank(rec.ProductRef) || legacy.Blank(rec.BatchLot) {
		res.fail("warranty", label, "missing required field REFERENCIA or LOTE")
		return nil
	}
	ownerID, ok := owners[*rec.OwnerLegacyID]
	if !ok {
		res.fail("warranty", label, "owner "+*rec.OwnerLegacyID+" has no migrated user")
		return nil
	}

	exists, err := p.warranties.ExistsByNaturalKeyTx(ctx, tx, ownerID, *rec.ProductRef, *rec.BatchLot)
	if err != nil {
		return err
	}
	if exists {
		res.Skipped++
		log.Debug().Str("legacy_id", label).Str("reference", *rec.ProductRef).
			Msg("warranty already present")
		return nil
	}

	vehicleID, err := p.resolveVehicle(ctx, log, tx, rec, ownerID, vehicles)
	if err != nil {
		return err
	}
	productID, err := p.resolveProduct(ctx, tx, *rec.ProductRef)
	if err != nil {
		return err
	}

	installDate := decodeDate(log, "warranty", label, "DATA_APLICACAO", rec.InstallDate)
	mileage := 0
	if !legacy.Blank(rec.Mileage) {
		mileage = legacy.ParseMileage(*rec.Mileage)
	}
	w := model.Warranty{
		UserID:        ownerID,
		ProductID:     productID,
		VehicleID:     vehicleID,
		ProductRef:    *rec.ProductRef,
		BatchLot:      *rec.BatchLot,
		InstallDate:   p.now(),
		InvoiceNumber: opt(rec.InvoiceNumber),
		WorkshopName:  opt(rec.WorkshopName),
		Mileage:       mileage,
		Active:        true,
		CreatedAt:     p.now(),
	}
	if installDate != nil {
		w.InstallDate = *installDate
	}
	if err := p.warranties.InsertTx(ctx, tx, &w); err != nil {
		return err
	}
	res.Imported++
	return nil
}

// resolveVehicle walks the resolution ladder: the legacy vehicle id when it
// maps to a migrated vehicle, else the owner's first vehicle in stable id
// order, else a synthesized placeholder. The placeholder plate embeds the
// owner's legacy id so reruns land on the same row.
func (p *Pipeline) resolveVehicle(ctx context.Context, log zerolog.Logger, tx *sql.Tx, rec legacy.WarrantyRecord, ownerID uint64, vehicles map[string]uint64) (uint64, error) {
	if !legacy.Blank(rec.VehicleLegacyID) {
		if id, ok := vehicles[*rec.VehicleLegacyID]; ok {
			return id, nil
		}
	}
	first, err := p.vehicles.FirstByOwnerTx(ctx, tx, ownerID)
	if err != nil {
		return 0, err
	}
	if first != nil {
		return first.ID, nil
	}

	v := model.Vehicle{
		UserID: ownerID,
		Make:   model.PlaceholderMakeModel,
		Model:  model.PlaceholderMakeModel,
		Plate:  model.PlaceholderPlatePrefix + *rec.OwnerLegacyID,
		Active: true,
	}
	if err := p.vehicles.InsertTx(ctx, tx, &v); err != nil {
		return 0, err
	}
	log.Warn().Str("owner_legacy_id", *rec.OwnerLegacyID).Uint64("vehicle_id", v.ID).
		Msg("synthesized placeholder vehicle for warranty")
	return v.ID, nil
}

// resolveProduct upserts by SKU: an unknown REFERENCIA gets a placeholder
// product rather than failing the row.
func (p *Pipeline) resolveProduct(ctx context.Context, tx *sql.Tx, sku string) (uint64, error) {
	prod, err := p.products.FindBySKUTx(ctx, tx, sku)
	if err != nil {
		return 0, err
	}
	if prod != nil {
		return prod.ID, nil
	}
	np := model.Product{
		SKU:         sku,
		Description: fmt.Sprintf("legacy product %s", sku),
		Active:      true,
	}
	if err := p.products.InsertTx(ctx, tx, &np); err != nil {
		return 0, err
	}
	return np.ID, nil
}
