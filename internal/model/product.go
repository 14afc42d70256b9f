package model

// Product represents a row in the `products` table. The warranty stage
// upserts products by SKU; no other stage touches this table.
type Product struct {
	ID          uint64 // products.id
	SKU         string // products.sku (unique)
	Description string // products.description
	Active      bool   // products.active
}
