package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ashline/cigar-cellar/internal/model"
)

type ContainerTypeRepo struct{ db *sql.DB }

func NewContainerTypeRepo(db *sql.DB) *ContainerTypeRepo { return &ContainerTypeRepo{db: db} }

func (r *ContainerTypeRepo) Create(ctx context.Context, t *model.ContainerType) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO container_types (name) VALUES (?)", t.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

func (r *ContainerTypeRepo) GetByID(ctx context.Context, id uint64) (*model.ContainerType, error) {
	var t model.ContainerType
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM container_types WHERE id = ?", id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContainerTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ContainerTypeRepo) List(ctx context.Context) ([]*model.ContainerType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM container_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ContainerType
	for rows.Next() {
		t := new(model.ContainerType)
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContainerTypeRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE container_types SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContainerTypeNotFound
	}
	return nil
}

// Delete removes a container type unless containers still use it.
func (r *ContainerTypeRepo) Delete(ctx context.Context, id uint64) (err error) {
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
		"SELECT COUNT(*) FROM containers WHERE type_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrInUse
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM container_types WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContainerTypeNotFound
	}
	return nil
}
