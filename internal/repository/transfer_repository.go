package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ashline/cigar-cellar/internal/model"
)

// TransferRepo reads the provenance ledger. It deliberately has no
// update or delete methods: ledger rows are written once, inside
// CigarRepo.Move, and kept forever.
type TransferRepo struct{ db *sql.DB }

func NewTransferRepo(db *sql.DB) *TransferRepo { return &TransferRepo{db: db} }

// appendTransferTx writes a ledger row inside the caller's transaction.
// Only CigarRepo.Move uses it; there is no standalone append because a
// transfer must never exist without the matching location change.
func appendTransferTx(ctx context.Context, tx *sql.Tx, cigarID, fromID, toID uint64) (model.Transfer, error) {
	movedAt := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO transfers (cigar_id, from_id, to_id, moved_at) VALUES (?,?,?,?)",
		cigarID, fromID, toID, movedAt)
	if err != nil {
		return model.Transfer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Transfer{}, err
	}
	return model.Transfer{
		ID:      uint64(id),
		CigarID: cigarID,
		FromID:  fromID,
		ToID:    toID,
		MovedAt: movedAt,
	}, nil
}

// ListByCigar returns the full movement history of a stick, oldest
// first, which replays its chain of custody.
func (r *TransferRepo) ListByCigar(ctx context.Context, cigarID uint64) ([]*model.Transfer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, cigar_id, from_id, to_id, moved_at FROM transfers WHERE cigar_id = ? ORDER BY id",
		cigarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Transfer
	for rows.Next() {
		t := new(model.Transfer)
		if err := rows.Scan(&t.ID, &t.CigarID, &t.FromID, &t.ToID, &t.MovedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
