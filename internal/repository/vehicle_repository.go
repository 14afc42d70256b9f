package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/warranty-migration/internal/model"
)

type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

const vehicleColumns = "id,user_id,make,model,model_year,plate,color,chassis,legacy_vehicle_id,active"

// LegacyIDMap returns the legacy-vehicle-id -> target-id lookup built from
// active vehicles already carrying a legacy id.
func (r *VehicleRepo) LegacyIDMap(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, legacy_vehicle_id FROM vehicles WHERE legacy_vehicle_id IS NOT NULL AND active = 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]uint64)
	for rows.Next() {
		var id uint64
		var legacyID string
		if err := rows.Scan(&id, &legacyID); err != nil {
			return nil, err
		}
		m[legacyID] = id
	}
	return m, rows.Err()
}

// FindByOwnerAndPlateTx fetches the active vehicle matching the
// (owner, plate) natural key. Returns (nil, nil) when no row matches.
func (r *VehicleRepo) FindByOwnerAndPlateTx(ctx context.Context, tx *sql.Tx, userID uint64, plate string) (*model.Vehicle, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE user_id = ? AND plate = ? AND active = 1 LIMIT 1",
		userID, plate)
	return scanVehicle(row)
}

// FirstByOwnerTx fetches the owner's first vehicle in stable id order; the
// warranty stage uses it as the deterministic fallback vehicle link.
// Returns (nil, nil) when the owner has no vehicles.
func (r *VehicleRepo) FirstByOwnerTx(ctx context.Context, tx *sql.Tx, userID uint64) (*model.Vehicle, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE user_id = ? AND active = 1 ORDER BY id LIMIT 1",
		userID)
	return scanVehicle(row)
}

// InsertTx inserts a vehicle and populates the generated ID on v.
func (r *VehicleRepo) InsertTx(ctx context.Context, tx *sql.Tx, v *model.Vehicle) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO vehicles (user_id,make,model,model_year,plate,color,chassis,legacy_vehicle_id,active)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		v.UserID, v.Make, v.Model, v.ModelYear, v.Plate, v.Color, v.Chassis,
		v.LegacyVehicleID, v.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// SetLegacyIDTx backfills a missing legacy vehicle id; rows that already
// carry one are untouched.
func (r *VehicleRepo) SetLegacyIDTx(ctx context.Context, tx *sql.Tx, id uint64, legacyID string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE vehicles SET legacy_vehicle_id = ? WHERE id = ? AND legacy_vehicle_id IS NULL",
		legacyID, id)
	return err
}

func scanVehicle(row *sql.Row) (*model.Vehicle, error) {
	var v model.Vehicle
	var year sql.NullInt64
	var color, chassis, legacyID sql.NullString
	err := row.Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &year, &v.Plate,
		&color, &chassis, &legacyID, &v.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		v.ModelYear = &y
	}
	v.Color = nullString(color)
	v.Chassis = nullString(chassis)
	v.LegacyVehicleID = nullString(legacyID)
	return &v, nil
}
