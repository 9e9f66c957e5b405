package model

import "time"

// Transfer is one entry in the append-only provenance ledger. Each row
// records a cigar moving from one location to another at a point in
// time. Transfers are written in the same transaction as the location
// change and are never updated or deleted afterwards.
type Transfer struct {
	ID      uint64    // transfers.id
	CigarID uint64    // transfers.cigar_id
	FromID  uint64    // transfers.from_id
	ToID    uint64    // transfers.to_id
	MovedAt time.Time // transfers.moved_at
}
