package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/auth"
	"github.com/ashline/cigar-cellar/internal/middleware"
	"github.com/ashline/cigar-cellar/internal/model"
	"github.com/ashline/cigar-cellar/internal/queue"
	"github.com/ashline/cigar-cellar/internal/repository"
	queue_publisher "github.com/ashline/cigar-cellar/internal/service"
	"github.com/ashline/cigar-cellar/internal/utils"
)

// SessionHandler serves smoking sessions and the ratings recorded in
// them.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Cigars   *repository.CigarRepo
}

func NewSessionHandler(sessions *repository.SessionRepo, cigars *repository.CigarRepo) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Cigars: cigars}
}

type sessionEntryReq struct {
	CigarID      uint64  `json:"cigar_id"`
	AppNotes     *string `json:"app_notes"`
	AppScore     *int    `json:"app_score"`
	SmokeNotes   *string `json:"smoke_notes"`
	SmokeScore   *int    `json:"smoke_score"`
	TasteNotes   *string `json:"taste_notes"`
	TasteScore   *int    `json:"taste_score"`
	OverallNotes *string `json:"overall_notes"`
	OverallScore *int    `json:"overall_score"`
}

type sessionReq struct {
	Date    string            `json:"date"` // YYYY-MM-DD, defaults to today
	Entries []sessionEntryReq `json:"entries"`
}

type ratingResp struct {
	ID           uint64  `json:"id"`
	CigarID      uint64  `json:"cigar_id"`
	SessionID    uint64  `json:"session_id"`
	AppNotes     *string `json:"app_notes,omitempty"`
	AppScore     *int    `json:"app_score,omitempty"`
	SmokeNotes   *string `json:"smoke_notes,omitempty"`
	SmokeScore   *int    `json:"smoke_score,omitempty"`
	TasteNotes   *string `json:"taste_notes,omitempty"`
	TasteScore   *int    `json:"taste_score,omitempty"`
	OverallNotes *string `json:"overall_notes,omitempty"`
	OverallScore *int    `json:"overall_score,omitempty"`
	Total        *int    `json:"total,omitempty"` // absent while any score is missing
}

func toRatingResp(r *model.Rating) ratingResp {
	out := ratingResp{
		ID:           r.ID,
		CigarID:      r.CigarID,
		SessionID:    r.SessionID,
		AppNotes:     r.AppNotes,
		AppScore:     r.AppScore,
		SmokeNotes:   r.SmokeNotes,
		SmokeScore:   r.SmokeScore,
		TasteNotes:   r.TasteNotes,
		TasteScore:   r.TasteScore,
		OverallNotes: r.OverallNotes,
		OverallScore: r.OverallScore,
	}
	if total, ok := r.Total(); ok {
		out.Total = &total
	}
	return out
}

type sessionResp struct {
	ID      uint64 `json:"id"`
	Date    string `json:"date"`
	OwnerID uint64 `json:"owner_id"`
}

func toSessionResp(s *model.Session) sessionResp {
	return sessionResp{ID: s.ID, Date: s.Date.Format("2006-01-02"), OwnerID: s.OwnerID}
}

func validScore(p *int) bool {
	return p == nil || *p >= 0
}

// Log records a session: the sticks smoked, a rating per stick, and
// the smoked flag on each. Everything commits together or not at all.
func (h *SessionHandler) Log(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Entries) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one entry is required"})
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}

	entries := make([]repository.SessionEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		if e.CigarID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry cigar_id required"})
		}
		if !validScore(e.AppScore) || !validScore(e.SmokeScore) ||
			!validScore(e.TasteScore) || !validScore(e.OverallScore) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "scores must not be negative"})
		}
		entries = append(entries, repository.SessionEntry{
			CigarID:      e.CigarID,
			AppNotes:     e.AppNotes,
			AppScore:     e.AppScore,
			SmokeNotes:   e.SmokeNotes,
			SmokeScore:   e.SmokeScore,
			TasteNotes:   e.TasteNotes,
			TasteScore:   e.TasteScore,
			OverallNotes: e.OverallNotes,
			OverallScore: e.OverallScore,
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Sessions.Log(ctx, actor.ID, date, entries)
	if err != nil {
		return repoError(c, err)
	}

	hashes, herr := h.Sessions.CigarHashes(ctx, s.ID)
	if herr != nil {
		log.Printf("session: collect hashes for event failed: %v", herr)
	}
	if perr := queue_publisher.PublishSessionLogged(c.Request().Context(), queue.SessionLoggedEvent{
		SessionID:   s.ID,
		OwnerID:     s.OwnerID,
		Date:        s.Date.Format("2006-01-02"),
		CigarHashes: hashes,
	}); perr != nil {
		log.Printf("session: publish event failed: %v", perr)
	}

	return c.JSON(http.StatusCreated, toSessionResp(&s))
}

// List returns the acting user's sessions, newest first.
func (h *SessionHandler) List(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sessions, err := h.Sessions.ListByOwner(ctx, actor.ID)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one session.
func (h *SessionHandler) Get(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, auth.Owned(s.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

// Ratings returns the ratings recorded in a session, totals included
// where all four scores are present.
func (h *SessionHandler) Ratings(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, auth.Owned(s.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	ratings, err := h.Sessions.ListRatings(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]ratingResp, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, toRatingResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// CigarRatings returns every rating a stick has received across all
// sessions, looked up by hash.
func (h *SessionHandler) CigarRatings(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hash := strings.ToLower(c.Param("hash"))
	if !utils.ValidCigarHash(hash) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hash"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Cigars.GetByHash(ctx, hash)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, auth.Owned(d.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	ratings, err := h.Sessions.ListRatingsByCigar(ctx, d.ID)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]ratingResp, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, toRatingResp(r))
	}
	return c.JSON(http.StatusOK, out)
}
