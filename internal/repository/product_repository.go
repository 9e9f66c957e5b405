package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ashline/cigar-cellar/internal/model"
)

type ProductRepo struct{ db *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// Create inserts a product after verifying its brand exists. A missing
// brand yields ErrDanglingRef rather than a raw FK violation.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM brands WHERE id = ?)", p.BrandID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrDanglingRef
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, brand_id) VALUES (?, ?)", p.Name, p.BrandID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, brand_id FROM products WHERE id = ?", id).Scan(&p.ID, &p.Name, &p.BrandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByBrand returns the products of one brand ordered by name.
func (r *ProductRepo) ListByBrand(ctx context.Context, brandID uint64) ([]*model.Product, error) {
	return r.list(ctx, "SELECT id, name, brand_id FROM products WHERE brand_id = ? ORDER BY name", brandID)
}

// List returns all products ordered by name.
func (r *ProductRepo) List(ctx context.Context) ([]*model.Product, error) {
	return r.list(ctx, "SELECT id, name, brand_id FROM products ORDER BY name")
}

func (r *ProductRepo) list(ctx context.Context, q string, args ...any) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p := new(model.Product)
		if err := rows.Scan(&p.ID, &p.Name, &p.BrandID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames a product and/or moves it to another brand.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM brands WHERE id = ?)", p.BrandID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrDanglingRef
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = ?, brand_id = ? WHERE id = ?", p.Name, p.BrandID, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product unless cigars still reference it.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) (err error) {
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
		"SELECT COUNT(*) FROM cigars WHERE product_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrInUse
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
