package model

// Vehicle represents a row in the `vehicles` table. Rows come from the
// VEICULO table of the export or, for warranties whose vehicle could not be
// resolved, from the placeholder synthesized by the warranty stage.
// (UserID, Plate) is the natural key among active rows.
type Vehicle struct {
	ID              uint64  // vehicles.id
	UserID          uint64  // vehicles.user_id (owning account)
	Make            string  // vehicles.make
	Model           string  // vehicles.model
	ModelYear       *int    // vehicles.model_year (nullable)
	Plate           string  // vehicles.plate
	Color           *string // vehicles.color
	Chassis         *string // vehicles.chassis
	LegacyVehicleID *string // vehicles.legacy_vehicle_id (nullable)
	Active          bool    // vehicles.active
}

// Sentinel values used for synthesized placeholder vehicles. The plate
// carries the owner id so repeated fix-up runs dedup onto the same row.
const (
	PlaceholderMakeModel   = "not informed"
	PlaceholderPlatePrefix = "MIG-"
)
