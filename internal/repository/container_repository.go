package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ashline/cigar-cellar/internal/model"
)

// ContainerRepo manages the nestable container tree and the
// container_inventory membership table. The parent adjacency list
// cannot express acyclicity declaratively, so every parent assignment
// walks the proposed ancestor chain first and rejects cycles.
type ContainerRepo struct{ db *sql.DB }

func NewContainerRepo(db *sql.DB) *ContainerRepo { return &ContainerRepo{db: db} }

// parentLookup resolves a container's parent. The second result is
// false when the container does not exist at all.
type parentLookup func(id uint64) (parent *uint64, ok bool, err error)

// wouldCycle walks up from parentID and reports whether containerID is
// among its ancestors. The visited set bounds the walk even if the
// stored tree is already corrupt.
func wouldCycle(containerID, parentID uint64, parentOf parentLookup) (bool, error) {
	if containerID == parentID {
		return true, nil
	}
	visited := map[uint64]bool{parentID: true}
	cur := parentID
	for {
		parent, ok, err := parentOf(cur)
		if err != nil {
			return false, err
		}
		if !ok || parent == nil {
			return false, nil
		}
		if *parent == containerID {
			return true, nil
		}
		if visited[*parent] {
			return true, nil
		}
		visited[*parent] = true
		cur = *parent
	}
}

func txParentLookup(ctx context.Context, tx *sql.Tx) parentLookup {
	return func(id uint64) (*uint64, bool, error) {
		var parent sql.NullInt64
		err := tx.QueryRowContext(ctx,
			"SELECT parent_id FROM containers WHERE id = ?", id).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if !parent.Valid {
			return nil, true, nil
		}
		p := uint64(parent.Int64)
		return &p, true, nil
	}
}

// Create inserts a container. The type must exist and the parent, if
// given, must exist too; ErrDanglingRef otherwise. A fresh row cannot
// close a cycle on its own so no walk is needed here.
func (r *ContainerRepo) Create(ctx context.Context, c *model.Container) (err error) {
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

	var typeExists bool
	if err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM container_types WHERE id = ?)", c.TypeID).Scan(&typeExists); err != nil {
		return err
	}
	if !typeExists {
		return ErrDanglingRef
	}
	if c.ParentID != nil {
		if _, ok, lerr := txParentLookup(ctx, tx)(*c.ParentID); lerr != nil {
			return lerr
		} else if !ok {
			return ErrDanglingRef
		}
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO containers (name, type_id, parent_id, owner_id) VALUES (?,?,?,?)",
		c.Name, c.TypeID, c.ParentID, c.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

func (r *ContainerRepo) GetByID(ctx context.Context, id uint64) (*model.Container, error) {
	var (
		c      model.Container
		parent sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, type_id, parent_id, owner_id FROM containers WHERE id = ?",
		id).Scan(&c.ID, &c.Name, &c.TypeID, &parent, &c.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContainerNotFound
		}
		return nil, err
	}
	if parent.Valid {
		p := uint64(parent.Int64)
		c.ParentID = &p
	}
	return &c, nil
}

// ListByOwner returns all containers for one owner ordered by id.
func (r *ContainerRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Container, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, type_id, parent_id, owner_id FROM containers WHERE owner_id = ? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Container
	for rows.Next() {
		var (
			c      model.Container
			parent sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.TypeID, &parent, &c.OwnerID); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := uint64(parent.Int64)
			c.ParentID = &p
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetParent re-parents a container. parentID nil detaches it to a root.
// The walk and the update run in the same transaction so a concurrent
// re-parent cannot slip a cycle in between check and write.
func (r *ContainerRepo) SetParent(ctx context.Context, id uint64, parentID *uint64) (err error) {
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

	lookup := txParentLookup(ctx, tx)
	if _, ok, lerr := lookup(id); lerr != nil {
		return lerr
	} else if !ok {
		return ErrContainerNotFound
	}
	if parentID != nil {
		if _, ok, lerr := lookup(*parentID); lerr != nil {
			return lerr
		} else if !ok {
			return ErrDanglingRef
		}
		cyclic, cerr := wouldCycle(id, *parentID, lookup)
		if cerr != nil {
			return cerr
		}
		if cyclic {
			return ErrCycleDetected
		}
	}

	_, err = tx.ExecContext(ctx, "UPDATE containers SET parent_id = ? WHERE id = ?", parentID, id)
	return err
}

// Rename updates a container's display name.
func (r *ContainerRepo) Rename(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE containers SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContainerNotFound
	}
	return nil
}

// Delete removes a container and every descendant. Cigars linked
// through container_inventory are detached, never deleted. Descendants
// are collected breadth-first and removed leaves-first so the parent FK
// never blocks the delete.
func (r *ContainerRepo) Delete(ctx context.Context, id uint64) (err error) {
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

	if _, ok, lerr := txParentLookup(ctx, tx)(id); lerr != nil {
		return lerr
	} else if !ok {
		return ErrContainerNotFound
	}

	doomed := []uint64{id}
	frontier := []uint64{id}
	for len(frontier) > 0 {
		var next []uint64
		for _, pid := range frontier {
			rows, qerr := tx.QueryContext(ctx, "SELECT id FROM containers WHERE parent_id = ?", pid)
			if qerr != nil {
				err = qerr
				return err
			}
			for rows.Next() {
				var child uint64
				if err = rows.Scan(&child); err != nil {
					rows.Close()
					return err
				}
				next = append(next, child)
			}
			if err = rows.Err(); err != nil {
				rows.Close()
				return err
			}
			rows.Close()
		}
		doomed = append(doomed, next...)
		frontier = next
	}

	// Detach membership first, then delete children before parents.
	for i := len(doomed) - 1; i >= 0; i-- {
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM container_inventory WHERE container_id = ?", doomed[i]); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM containers WHERE id = ?", doomed[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddCigar links a cigar into a container.
func (r *ContainerRepo) AddCigar(ctx context.Context, containerID, cigarID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO container_inventory (container_id, cigar_id) VALUES (?, ?)",
		containerID, cigarID)
	return err
}

// RemoveCigar detaches a cigar from a container.
func (r *ContainerRepo) RemoveCigar(ctx context.Context, containerID, cigarID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM container_inventory WHERE container_id = ? AND cigar_id = ?",
		containerID, cigarID)
	return err
}
