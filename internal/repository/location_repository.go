package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ashline/cigar-cellar/internal/model"
)

type LocationRepo struct{ db *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// Create inserts a location. OwnerID nil makes it a shared location
// (admin-managed); otherwise the row belongs to the creating user. The
// acting user is always passed in explicitly by the handler.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO locations (name, owner_id) VALUES (?, ?)", l.Name, l.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	var (
		l     model.Location
		owner sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id FROM locations WHERE id = ?", id).Scan(&l.ID, &l.Name, &owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	if owner.Valid {
		o := uint64(owner.Int64)
		l.OwnerID = &o
	}
	return &l, nil
}

// ListVisible returns the locations an actor can see: shared rows plus
// their own. Admins see everything.
func (r *LocationRepo) ListVisible(ctx context.Context, actorID uint64, admin bool) ([]*model.Location, error) {
	q := "SELECT id, name, owner_id FROM locations WHERE owner_id IS NULL OR owner_id = ? ORDER BY id"
	args := []any{actorID}
	if admin {
		q = "SELECT id, name, owner_id FROM locations ORDER BY id"
		args = nil
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Location
	for rows.Next() {
		var (
			l     model.Location
			owner sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.Name, &owner); err != nil {
			return nil, err
		}
		if owner.Valid {
			o := uint64(owner.Int64)
			l.OwnerID = &o
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LocationRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE locations SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location unless cigars are stored there or the
// transfer ledger references it. Ledger rows are immutable, so a
// location that ever appeared in a transfer cannot be deleted.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var dependents int
	if err = tx.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM cigars WHERE location_id = ?)
		     + (SELECT COUNT(*) FROM transfers WHERE from_id = ? OR to_id = ?)`,
		id, id, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrInUse
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
