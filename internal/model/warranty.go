package model

import "time"

// Warranty represents an installed-product warranty application in the
// `warranties` table. ProductRef and BatchLot retain the legacy REFERENCIA
// and LOTE verbatim; together with UserID they form the natural key that
// stands in for the stable warranty id the source data never had.
type Warranty struct {
	ID            uint64    // warranties.id
	UserID        uint64    // warranties.user_id
	ProductID     uint64    // warranties.product_id
	VehicleID     uint64    // warranties.vehicle_id
	ProductRef    string    // warranties.product_reference (legacy REFERENCIA)
	BatchLot      string    // warranties.batch_lot (legacy LOTE)
	InstallDate   time.Time // warranties.install_date
	InvoiceNumber *string   // warranties.invoice_number
	WorkshopName  *string   // warranties.workshop_name
	Mileage       int       // warranties.mileage
	Active        bool      // warranties.active
	CreatedAt     time.Time // warranties.created_at
}
