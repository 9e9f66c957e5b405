// Package queue defines message payloads exchanged over the message broker.
package queue

// CigarTransferredQueue and SessionLoggedQueue are the durable queue
// names the publisher and consumer agree on.
const (
	CigarTransferredQueue = "cigar.transferred"
	SessionLoggedQueue    = "session.logged"
)

// CigarTransferredEvent is published after a location move commits. It
// mirrors the ledger row plus display names, so downstream consumers
// can log or notify without querying the primary database.
type CigarTransferredEvent struct {
	TransferID   uint64 `json:"transfer_id"`
	CigarHash    string `json:"cigar_hash"`
	OwnerID      uint64 `json:"owner_id"`
	FromID       uint64 `json:"from_id"`
	FromLocation string `json:"from_location"`
	ToID         uint64 `json:"to_id"`
	ToLocation   string `json:"to_location"`
	MovedAt      string `json:"moved_at"`
}

// SessionLoggedEvent is published when a smoking session is recorded.
type SessionLoggedEvent struct {
	SessionID   uint64   `json:"session_id"`
	OwnerID     uint64   `json:"owner_id"`
	Date        string   `json:"date"`
	CigarHashes []string `json:"cigar_hashes"`
}
