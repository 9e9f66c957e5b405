package model

import "time"

// Cigar is a single physical stick in the inventory. Each row carries a
// 64-character hex content hash that is globally unique and immutable
// once assigned; it is the natural identifier used in URLs and in the
// container membership table. Product, size and location are hard
// references; purchase date and price are optional intake metadata.
//
// Fields:
//  ID            – primary key identifier.
//  Hash          – unique 64-char hex content hash.
//  ProductID     – reference into products.
//  SizeID        – reference into sizes.
//  LocationID    – current location of the stick.
//  PurchaseDate  – when the stick was bought (nullable).
//  PurchasePrice – price paid, DECIMAL(12,2) carried as string (nullable).
//  Smoked        – whether the stick has been smoked.
//  OwnerID       – user who took the stick into inventory.
//  CreatedAt     – intake timestamp.
type Cigar struct {
	ID            uint64     // cigars.id
	Hash          string     // cigars.hash
	ProductID     uint64     // cigars.product_id
	SizeID        uint64     // cigars.size_id
	LocationID    uint64     // cigars.location_id
	PurchaseDate  *time.Time // cigars.purchase_date (nullable)
	PurchasePrice *string    // cigars.purchase_price (nullable)
	Smoked        bool       // cigars.smoked
	OwnerID       uint64     // cigars.owner_id
	CreatedAt     time.Time  // cigars.created_at
}

// CigarDetail is a cigar joined with the names of its product, brand,
// size and location for display. Returned by hash and id lookups.
type CigarDetail struct {
	Cigar
	ProductName  string // products.name
	BrandName    string // brands.name
	SizeName     string // sizes.name
	LocationName string // locations.name
}
