// Reference-data repositories (brands, products, sizes, container
// types) share a shape: plain CRUD over a lookup table whose rows
// ordinary users may read but only administrators may write, and whose
// deletion is blocked while inventory still points at them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ashline/cigar-cellar/internal/model"
)

type BrandRepo struct{ db *sql.DB }

func NewBrandRepo(db *sql.DB) *BrandRepo { return &BrandRepo{db: db} }

// Create inserts a brand and populates its ID.
func (r *BrandRepo) Create(ctx context.Context, b *model.Brand) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO brands (name) VALUES (?)", b.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns ErrBrandNotFound when no row exists.
func (r *BrandRepo) GetByID(ctx context.Context, id uint64) (*model.Brand, error) {
	var b model.Brand
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM brands WHERE id = ?", id).Scan(&b.ID, &b.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns all brands ordered by name.
func (r *BrandRepo) List(ctx context.Context) ([]*model.Brand, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM brands ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Brand
	for rows.Next() {
		b := new(model.Brand)
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames a brand. sql.ErrNoRows when nothing matched.
func (r *BrandRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE brands SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a brand unless products still reference it, in which
// case ErrInUse is returned. Check and delete run in one transaction.
func (r *BrandRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE brand_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrInUse
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM brands WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBrandNotFound
	}
	return nil
}
