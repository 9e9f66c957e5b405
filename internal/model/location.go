package model

// Location is a place where cigars are kept (a shelf, a cabinet, a
// friend's humidor). OwnerID is nil for shared locations created by an
// administrator. A cigar points at most to one current location; every
// change of that pointer is recorded in the transfers ledger.
type Location struct {
	ID      uint64  // locations.id
	Name    string  // locations.name
	OwnerID *uint64 // locations.owner_id (nullable)
}
