package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ashline/cigar-cellar/internal/model"
)

// SessionRepo creates smoking sessions. A session, its cigar links and
// the ratings recorded against each cigar are born together in one
// transaction; the smoked flag of every participating stick flips in
// the same unit.
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// SessionEntry is one cigar smoked during a session together with the
// rating recorded for it. Score pointers left nil save an incomplete
// rating.
type SessionEntry struct {
	CigarID      uint64
	AppNotes     *string
	AppScore     *int
	SmokeNotes   *string
	SmokeScore   *int
	TasteNotes   *string
	TasteScore   *int
	OverallNotes *string
	OverallScore *int
}

// Log creates the session and all its entries. Every cigar must exist
// and belong to ownerID; ErrDanglingRef is returned for unknown cigars
// and ErrForbidden when a stick belongs to someone else. Any failure
// rolls the whole event back.
func (r *SessionRepo) Log(ctx context.Context, ownerID uint64, date time.Time, entries []SessionEntry) (s model.Session, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Session{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (date, owner_id) VALUES (?, ?)", date, ownerID)
	if err != nil {
		return model.Session{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Session{}, err
	}
	s = model.Session{ID: uint64(id), Date: date, OwnerID: ownerID}

	for _, e := range entries {
		var cigarOwner uint64
		err = tx.QueryRowContext(ctx,
			"SELECT owner_id FROM cigars WHERE id = ? FOR UPDATE", e.CigarID).Scan(&cigarOwner)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = ErrDanglingRef
			}
			return model.Session{}, err
		}
		if cigarOwner != ownerID {
			err = ErrForbidden
			return model.Session{}, err
		}

		if _, err = tx.ExecContext(ctx,
			"INSERT INTO session_inventory (session_id, cigar_id) VALUES (?, ?)",
			s.ID, e.CigarID); err != nil {
			return model.Session{}, err
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO ratings (cigar_id, session_id, owner_id,
			                     app_notes, app_score, smoke_notes, smoke_score,
			                     taste_notes, taste_score, overall_notes, overall_score)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			e.CigarID, s.ID, ownerID,
			e.AppNotes, e.AppScore, e.SmokeNotes, e.SmokeScore,
			e.TasteNotes, e.TasteScore, e.OverallNotes, e.OverallScore); err != nil {
			return model.Session{}, err
		}
		if _, err = tx.ExecContext(ctx,
			"UPDATE cigars SET smoked = 1 WHERE id = ?", e.CigarID); err != nil {
			return model.Session{}, err
		}
	}
	return s, nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		"SELECT id, date, owner_id FROM sessions WHERE id = ?", id).Scan(&s.ID, &s.Date, &s.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns a user's sessions, newest first.
func (r *SessionRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date, owner_id FROM sessions WHERE owner_id = ? ORDER BY date DESC, id DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s := new(model.Session)
		if err := rows.Scan(&s.ID, &s.Date, &s.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CigarHashes returns the content hashes of the sticks smoked in a
// session, used when publishing the session event.
func (r *SessionRepo) CigarHashes(ctx context.Context, sessionID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.hash FROM cigars c
		JOIN session_inventory si ON si.cigar_id = c.id
		WHERE si.session_id = ? ORDER BY c.id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRatings returns every rating recorded in a session.
func (r *SessionRepo) ListRatings(ctx context.Context, sessionID uint64) ([]*model.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cigar_id, session_id, owner_id,
		       app_notes, app_score, smoke_notes, smoke_score,
		       taste_notes, taste_score, overall_notes, overall_score
		FROM ratings WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Rating
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRatingsByCigar returns every rating a stick has received.
func (r *SessionRepo) ListRatingsByCigar(ctx context.Context, cigarID uint64) ([]*model.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cigar_id, session_id, owner_id,
		       app_notes, app_score, smoke_notes, smoke_score,
		       taste_notes, taste_score, overall_notes, overall_score
		FROM ratings WHERE cigar_id = ? ORDER BY id`, cigarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Rating
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRating(rows *sql.Rows) (*model.Rating, error) {
	var (
		rt                                             model.Rating
		appNotes, smokeNotes, tasteNotes, overallNotes sql.NullString
		appScore, smokeScore, tasteScore, overallScore sql.NullInt64
	)
	if err := rows.Scan(&rt.ID, &rt.CigarID, &rt.SessionID, &rt.OwnerID,
		&appNotes, &appScore, &smokeNotes, &smokeScore,
		&tasteNotes, &tasteScore, &overallNotes, &overallScore); err != nil {
		return nil, err
	}
	assignStr := func(dst **string, v sql.NullString) {
		if v.Valid {
			s := v.String
			*dst = &s
		}
	}
	assignInt := func(dst **int, v sql.NullInt64) {
		if v.Valid {
			n := int(v.Int64)
			*dst = &n
		}
	}
	assignStr(&rt.AppNotes, appNotes)
	assignInt(&rt.AppScore, appScore)
	assignStr(&rt.SmokeNotes, smokeNotes)
	assignInt(&rt.SmokeScore, smokeScore)
	assignStr(&rt.TasteNotes, tasteNotes)
	assignInt(&rt.TasteScore, tasteScore)
	assignStr(&rt.OverallNotes, overallNotes)
	assignInt(&rt.OverallScore, overallScore)
	return &rt, nil
}
