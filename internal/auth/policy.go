// Package auth holds the capability policy that decides what an
// authenticated user may see and change. It consumes an identity that
// the JWT middleware already validated; login and session mechanics
// live elsewhere.
package auth

// Actor is the authenticated identity a request acts as. Admin is true
// when the user carries the admin flag or holds the superuser role;
// the two are resolved into this single capability at token issue time.
type Actor struct {
	ID    uint64
	Admin bool
}

// CanRead reports whether the actor may read a row owned by ownerID.
// A nil ownerID marks shared rows readable by any authenticated user.
func CanRead(a Actor, ownerID *uint64) bool {
	if a.Admin {
		return true
	}
	if ownerID == nil {
		return true
	}
	return *ownerID == a.ID
}

// CanWrite reports whether the actor may modify a row owned by ownerID.
// Shared rows (nil owner) are writable only by admins.
func CanWrite(a Actor, ownerID *uint64) bool {
	if a.Admin {
		return true
	}
	if ownerID == nil {
		return false
	}
	return *ownerID == a.ID
}

// CanManageReference reports whether the actor may create, update or
// delete reference data (brands, products, sizes, container types).
func CanManageReference(a Actor) bool {
	return a.Admin
}

// Owned is a convenience for the common owner-column case.
func Owned(id uint64) *uint64 { return &id }
