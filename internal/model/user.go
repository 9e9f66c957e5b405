package model

import "time"

// User represents an account row in the `users` table. Passwords are
// stored as bcrypt hashes only. The Admin flag and the `superuser`
// role are convergent: either grants access to reference data and to
// rows owned by other users. The json tags are omitted because these
// structs are used internally by the repository layer; handlers define
// separate response types.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Admin        – whether the user may manage reference data.
//  CreatedAt    – registration timestamp.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Admin        bool      // users.admin
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role is a row in the `roles` table. Users reference roles through
// the user_roles join table.
//
// Fields:
//  ID          – numeric identifier of the role.
//  Name        – unique role name (e.g. "superuser").
//  Description – human-readable purpose of the role.
type Role struct {
	ID          uint8  // roles.id
	Name        string // roles.name
	Description string // roles.description
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token is stored; the raw value is returned to the
// client once and never persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
