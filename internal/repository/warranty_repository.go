package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/warranty-migration/internal/model"
)

type WarrantyRepo struct{ DB *sql.DB }

func NewWarrantyRepo(db *sql.DB) *WarrantyRepo { return &WarrantyRepo{DB: db} }

// ExistsByNaturalKeyTx reports whether an active warranty already exists
// for (owner, product reference, batch lot), the composite natural key
// standing in for the stable legacy warranty id the source never had.
func (r *WarrantyRepo) ExistsByNaturalKeyTx(ctx context.Context, tx *sql.Tx, userID uint64, productRef, batchLot string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM warranties WHERE user_id = ? AND product_reference = ? AND batch_lot = ? AND active = 1",
		userID, productRef, batchLot).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertTx inserts a warranty and populates the generated ID on w.
func (r *WarrantyRepo) InsertTx(ctx context.Context, tx *sql.Tx, w *model.Warranty) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO warranties (user_id,product_id,vehicle_id,product_reference,batch_lot,install_date,invoice_number,workshop_name,mileage,active,created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		w.UserID, w.ProductID, w.VehicleID, w.ProductRef, w.BatchLot,
		w.InstallDate, w.InvoiceNumber, w.WorkshopName, w.Mileage, w.Active,
		w.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}
