package model

// Brand is a manufacturer in the `brands` reference table. Brands are
// maintained by administrators and referenced by products.
type Brand struct {
	ID   uint64 // brands.id
	Name string // brands.name
}

// Product is a named line produced by a brand. Every cigar in the
// inventory resolves to exactly one product.
type Product struct {
	ID      uint64 // products.id
	Name    string // products.name
	BrandID uint64 // products.brand_id
}

// Size describes a vitola: its ring gauge and length in both unit
// systems. Dimensions are DECIMAL(12,2) columns and are carried as
// strings so no precision is lost crossing the driver boundary.
type Size struct {
	ID       uint64 // sizes.id
	Name     string // sizes.name
	Width64  string // sizes.width_64 (ring gauge, 64ths of an inch)
	WidthMM  string // sizes.width_mm
	LengthCM string // sizes.length_cm
	LengthIN string // sizes.length_in
}
