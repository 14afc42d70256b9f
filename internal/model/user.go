package model

import "time"

// User represents a warranty-program account as stored in the `users`
// table. The schema is owned by the main application; the migration engine
// only consumes it. PasswordHash stays nil when the legacy credential could
// not be decoded; such accounts have no usable credential until the reset
// flow issues one. LegacyID links the row back to the export's ID_CLIENTE
// and, once set, is never overwritten with a different value.
type User struct {
	ID           uint64     // users.id
	Name         string     // users.name
	Email        string     // users.email (unique among active rows)
	TaxID        *string    // users.tax_id (CPF/CNPJ)
	Phone        *string    // users.phone
	Address      *string    // users.address
	City         *string    // users.city
	State        *string    // users.state
	PostalCode   *string    // users.postal_code
	PasswordHash *string    // users.password_hash (nullable)
	BirthDate    *time.Time // users.birth_date (nullable)
	LegacyID     *string    // users.legacy_id (nullable back-reference)
	Confirmed    bool       // users.confirmed
	Active       bool       // users.active
	CreatedAt    time.Time  // users.created_at
}
