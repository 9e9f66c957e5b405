package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ashline/cigar-cellar/internal/model"
)

type SizeRepo struct{ db *sql.DB }

func NewSizeRepo(db *sql.DB) *SizeRepo { return &SizeRepo{db: db} }

func (r *SizeRepo) Create(ctx context.Context, s *model.Size) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sizes (name, width_64, width_mm, length_cm, length_in) VALUES (?,?,?,?,?)",
		s.Name, s.Width64, s.WidthMM, s.LengthCM, s.LengthIN)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

func (r *SizeRepo) GetByID(ctx context.Context, id uint64) (*model.Size, error) {
	var s model.Size
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, width_64, width_mm, length_cm, length_in FROM sizes WHERE id = ?",
		id).Scan(&s.ID, &s.Name, &s.Width64, &s.WidthMM, &s.LengthCM, &s.LengthIN)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSizeNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SizeRepo) List(ctx context.Context) ([]*model.Size, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, width_64, width_mm, length_cm, length_in FROM sizes ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Size
	for rows.Next() {
		s := new(model.Size)
		if err := rows.Scan(&s.ID, &s.Name, &s.Width64, &s.WidthMM, &s.LengthCM, &s.LengthIN); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SizeRepo) Update(ctx context.Context, s *model.Size) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sizes SET name=?, width_64=?, width_mm=?, length_cm=?, length_in=? WHERE id=?",
		s.Name, s.Width64, s.WidthMM, s.LengthCM, s.LengthIN, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSizeNotFound
	}
	return nil
}

// Delete removes a size unless cigars still reference it.
func (r *SizeRepo) Delete(ctx context.Context, id uint64) (err error) {
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
		"SELECT COUNT(*) FROM cigars WHERE size_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrInUse
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sizes WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSizeNotFound
	}
	return nil
}
