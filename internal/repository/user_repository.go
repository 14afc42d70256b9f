package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/warranty-migration/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,tax_id,phone,address,city,state,postal_code,password_hash,birth_date,legacy_id,confirmed,active,created_at"

// LegacyIDMap scans the active users that already carry a legacy id and
// returns the legacy-id -> target-id lookup used by the later stages.
func (r *UserRepo) LegacyIDMap(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, legacy_id FROM users WHERE legacy_id IS NOT NULL AND active = 1")
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

// FindByEmailTx fetches an active user by normalized email within the
// stage transaction. Returns (nil, nil) when no row matches.
func (r *UserRepo) FindByEmailTx(ctx context.Context, tx *sql.Tx, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := tx.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? AND active = 1 LIMIT 1", email)
	return scanUser(row)
}

// FindByTaxIDTx fetches an active user by tax id (CPF/CNPJ) within the
// stage transaction. Returns (nil, nil) when no row matches.
func (r *UserRepo) FindByTaxIDTx(ctx context.Context, tx *sql.Tx, taxID string) (*model.User, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE tax_id = ? AND active = 1 LIMIT 1", taxID)
	return scanUser(row)
}

// InsertTx inserts a user and populates the generated ID on u.
func (r *UserRepo) InsertTx(ctx context.Context, tx *sql.Tx, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (name,email,tax_id,phone,address,city,state,postal_code,password_hash,birth_date,legacy_id,confirmed,active,created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.Name, u.Email, u.TaxID, u.Phone, u.Address, u.City, u.State,
		u.PostalCode, u.PasswordHash, u.BirthDate, u.LegacyID, u.Confirmed,
		u.Active, u.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// SetLegacyIDTx backfills a missing legacy id. The WHERE clause keeps the
// set-once invariant: a row that already carries a legacy id is untouched.
func (r *UserRepo) SetLegacyIDTx(ctx context.Context, tx *sql.Tx, id uint64, legacyID string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET legacy_id = ? WHERE id = ? AND legacy_id IS NULL",
		legacyID, id)
	return err
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var taxID, phone, address, city, state, postal, hash, legacyID sql.NullString
	var birth sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &taxID, &phone, &address, &city,
		&state, &postal, &hash, &birth, &legacyID, &u.Confirmed, &u.Active,
		&u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.TaxID = nullString(taxID)
	u.Phone = nullString(phone)
	u.Address = nullString(address)
	u.City = nullString(city)
	u.State = nullString(state)
	u.PostalCode = nullString(postal)
	u.PasswordHash = nullString(hash)
	u.LegacyID = nullString(legacyID)
	u.BirthDate = nullTime(birth)
	return &u, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
