package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/warranty-migration/internal/model"
)

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// FindBySKUTx fetches an active product by SKU. Returns (nil, nil) when no
// row matches.
func (r *ProductRepo) FindBySKUTx(ctx context.Context, tx *sql.Tx, sku string) (*model.Product, error) {
	var p model.Product
	err := tx.QueryRowContext(ctx,
		"SELECT id,sku,description,active FROM products WHERE sku = ? AND active = 1 LIMIT 1",
		sku).Scan(&p.ID, &p.SKU, &p.Description, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertTx inserts a product and populates the generated ID on p.
func (r *ProductRepo) InsertTx(ctx context.Context, tx *sql.Tx, p *model.Product) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO products (sku,description,active) VALUES (?,?,?)",
		p.SKU, p.Description, p.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}
