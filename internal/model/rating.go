package model

// Rating scores a cigar smoked during a session across four aspects:
// appearance, smoke/burn, taste and overall impression. Each aspect is
// a free-text note plus an integer score. Scores are nullable so a
// rating can be saved half-finished; the total is never stored.
type Rating struct {
	ID           uint64  // ratings.id
	CigarID      uint64  // ratings.cigar_id
	SessionID    uint64  // ratings.session_id
	OwnerID      uint64  // ratings.owner_id
	AppNotes     *string // ratings.app_notes (nullable)
	AppScore     *int    // ratings.app_score (nullable)
	SmokeNotes   *string // ratings.smoke_notes (nullable)
	SmokeScore   *int    // ratings.smoke_score (nullable)
	TasteNotes   *string // ratings.taste_notes (nullable)
	TasteScore   *int    // ratings.taste_score (nullable)
	OverallNotes *string // ratings.overall_notes (nullable)
	OverallScore *int    // ratings.overall_score (nullable)
}

// Total returns the arithmetic sum of the four component scores. The
// second return value is false while any component is missing: an
// incomplete rating has no numeric total.
func (r Rating) Total() (int, bool) {
	if r.AppScore == nil || r.SmokeScore == nil || r.TasteScore == nil || r.OverallScore == nil {
		return 0, false
	}
	return *r.AppScore + *r.SmokeScore + *r.TasteScore + *r.OverallScore, true
}
