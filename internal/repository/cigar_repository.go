package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ashline/cigar-cellar/internal/model"
)

// CigarRepo is the inventory core. Sticks enter through Intake, change
// location only through Move (which writes the transfer ledger in the
// same transaction) and are flipped to smoked when a session logs them.
type CigarRepo struct{ db *sql.DB }

func NewCigarRepo(db *sql.DB) *CigarRepo { return &CigarRepo{db: db} }

const cigarCols = "id, hash, product_id, size_id, location_id, purchase_date, purchase_price, smoked, owner_id, created_at"

func scanCigar(row interface{ Scan(...any) error }, c *model.Cigar) error {
	var (
		purchaseDate  sql.NullTime
		purchasePrice sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Hash, &c.ProductID, &c.SizeID, &c.LocationID,
		&purchaseDate, &purchasePrice, &c.Smoked, &c.OwnerID, &c.CreatedAt); err != nil {
		return err
	}
	if purchaseDate.Valid {
		d := purchaseDate.Time
		c.PurchaseDate = &d
	}
	if purchasePrice.Valid {
		p := purchasePrice.String
		c.PurchasePrice = &p
	}
	return nil
}

// Intake inserts a stick. The hash must be unused (ErrDuplicateHash)
// and product, size and location must all exist (ErrDanglingRef). The
// existence checks and the insert share one transaction.
func (r *CigarRepo) Intake(ctx context.Context, c *model.Cigar) (err error) {
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

	var productOK, sizeOK, locationOK bool
	if err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM products  WHERE id = ?),
		       EXISTS(SELECT 1 FROM sizes     WHERE id = ?),
		       EXISTS(SELECT 1 FROM locations WHERE id = ?)`,
		c.ProductID, c.SizeID, c.LocationID).Scan(&productOK, &sizeOK, &locationOK); err != nil {
		return err
	}
	if !productOK || !sizeOK || !locationOK {
		return ErrDanglingRef
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO cigars (hash, product_id, size_id, location_id, purchase_date, purchase_price, smoked, owner_id)
		VALUES (?,?,?,?,?,?,?,?)`,
		c.Hash, c.ProductID, c.SizeID, c.LocationID, c.PurchaseDate, c.PurchasePrice, c.Smoked, c.OwnerID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateHash
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByHash looks up a stick by its content hash with resolved product,
// brand, size and location names.
func (r *CigarRepo) GetByHash(ctx context.Context, hash string) (*model.CigarDetail, error) {
	return r.getDetail(ctx, "c.hash = ?", hash)
}

// GetByID is the id-keyed variant of GetByHash.
func (r *CigarRepo) GetByID(ctx context.Context, id uint64) (*model.CigarDetail, error) {
	return r.getDetail(ctx, "c.id = ?", id)
}

func (r *CigarRepo) getDetail(ctx context.Context, where string, arg any) (*model.CigarDetail, error) {
	q := `
		SELECT c.id, c.hash, c.product_id, c.size_id, c.location_id,
		       c.purchase_date, c.purchase_price, c.smoked, c.owner_id, c.created_at,
		       p.name, b.name, s.name, l.name
		FROM cigars c
		JOIN products p  ON p.id = c.product_id
		JOIN brands b    ON b.id = p.brand_id
		JOIN sizes s     ON s.id = c.size_id
		JOIN locations l ON l.id = c.location_id
		WHERE ` + where
	var (
		d             model.CigarDetail
		purchaseDate  sql.NullTime
		purchasePrice sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&d.ID, &d.Hash, &d.ProductID, &d.SizeID, &d.LocationID,
		&purchaseDate, &purchasePrice, &d.Smoked, &d.OwnerID, &d.CreatedAt,
		&d.ProductName, &d.BrandName, &d.SizeName, &d.LocationName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCigarNotFound
		}
		return nil, err
	}
	if purchaseDate.Valid {
		t := purchaseDate.Time
		d.PurchaseDate = &t
	}
	if purchasePrice.Valid {
		p := purchasePrice.String
		d.PurchasePrice = &p
	}
	return &d, nil
}

// ListByOwner returns an owner's sticks, optionally filtered by
// location and/or product (zero means no filter).
func (r *CigarRepo) ListByOwner(ctx context.Context, ownerID, locationID, productID uint64) ([]*model.Cigar, error) {
	q := "SELECT " + cigarCols + " FROM cigars WHERE owner_id = ?"
	args := []any{ownerID}
	if locationID != 0 {
		q += " AND location_id = ?"
		args = append(args, locationID)
	}
	if productID != 0 {
		q += " AND product_id = ?"
		args = append(args, productID)
	}
	q += " ORDER BY id"
	return r.list(ctx, q, args...)
}

// ListByLocation returns every stick stored at a location.
func (r *CigarRepo) ListByLocation(ctx context.Context, locationID uint64) ([]*model.Cigar, error) {
	return r.list(ctx, "SELECT "+cigarCols+" FROM cigars WHERE location_id = ? ORDER BY id", locationID)
}

// ListByProduct returns every stick of a product.
func (r *CigarRepo) ListByProduct(ctx context.Context, productID uint64) ([]*model.Cigar, error) {
	return r.list(ctx, "SELECT "+cigarCols+" FROM cigars WHERE product_id = ? ORDER BY id", productID)
}

// ListByContainer returns the sticks linked into a container.
func (r *CigarRepo) ListByContainer(ctx context.Context, containerID uint64) ([]*model.Cigar, error) {
	const q = `SELECT c.id, c.hash, c.product_id, c.size_id, c.location_id,
	                  c.purchase_date, c.purchase_price, c.smoked, c.owner_id, c.created_at
	           FROM cigars c
	           JOIN container_inventory ci ON ci.cigar_id = c.id
	           WHERE ci.container_id = ? ORDER BY c.id`
	return r.list(ctx, q, containerID)
}

func (r *CigarRepo) list(ctx context.Context, q string, args ...any) ([]*model.Cigar, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Cigar
	for rows.Next() {
		c := new(model.Cigar)
		if err := scanCigar(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSmoked flips the smoked flag.
func (r *CigarRepo) MarkSmoked(ctx context.Context, id uint64, smoked bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE cigars SET smoked = ? WHERE id = ?", smoked, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCigarNotFound
	}
	return nil
}

// Move relocates a stick and appends the matching transfer ledger row
// as one logical unit: the UPDATE and the INSERT commit together or not
// at all, so the ledger can never silently miss a move. The prior
// location is read under FOR UPDATE to pin it for the duration.
func (r *CigarRepo) Move(ctx context.Context, id, toLocationID uint64) (t model.Transfer, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transfer{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var fromID uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT location_id FROM cigars WHERE id = ? FOR UPDATE", id).Scan(&fromID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCigarNotFound
		}
		return model.Transfer{}, err
	}

	var locationOK bool
	if err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM locations WHERE id = ?)", toLocationID).Scan(&locationOK); err != nil {
		return model.Transfer{}, err
	}
	if !locationOK {
		err = ErrDanglingRef
		return model.Transfer{}, err
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE cigars SET location_id = ? WHERE id = ?", toLocationID, id); err != nil {
		return model.Transfer{}, err
	}

	t, err = appendTransferTx(ctx, tx, id, fromID, toLocationID)
	if err != nil {
		return model.Transfer{}, err
	}
	return t, nil
}
