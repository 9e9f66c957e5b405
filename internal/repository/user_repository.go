package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ashline/cigar-cellar/internal/model"
	"github.com/ashline/cigar-cellar/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password string, admin bool, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, admin) VALUES (?,?,?)",
		email, hash, admin)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,admin,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,admin,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// IsAdmin resolves the admin capability: the users.admin flag and the
// `superuser` role grant are two storage forms of the same thing, so
// either one qualifies.
func (r *UserRepo) IsAdmin(ctx context.Context, id uint64) (bool, error) {
	var admin bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT u.admin OR EXISTS (
		    SELECT 1 FROM user_roles ur
		    JOIN roles ro ON ro.id = ur.role_id
		    WHERE ur.user_id = u.id AND ro.name = 'superuser')
		FROM users u WHERE u.id = ? LIMIT 1`, id).Scan(&admin)
	return admin, err
}

// GrantRole links a user to a role by role name.
func (r *UserRepo) GrantRole(ctx context.Context, userID uint64, roleName string) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT IGNORE INTO user_roles (user_id, role_id)
		SELECT ?, id FROM roles WHERE name = ?`, userID, roleName)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the role name is unknown or the grant already existed;
		// distinguish so callers can surface a dangling role name.
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM roles WHERE name=?)", roleName).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrDanglingRef
		}
	}
	return nil
}

// RevokeRole removes a role grant by role name.
func (r *UserRepo) RevokeRole(ctx context.Context, userID uint64, roleName string) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE ur FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = ? AND ro.name = ?`, userID, roleName)
	return err
}

// Deactivate revokes every refresh token for the user. The row itself
// stays so owned inventory keeps a valid owner reference.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL", id)
	return err
}
