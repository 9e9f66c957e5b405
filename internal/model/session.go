package model

import "time"

// Session is a discrete smoking event. The cigars smoked during the
// session are linked through the session_inventory join table and each
// gets a Rating recorded against both the cigar and the session.
type Session struct {
	ID      uint64    // sessions.id
	Date    time.Time // sessions.date
	OwnerID uint64    // sessions.owner_id
}
