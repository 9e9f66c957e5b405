package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/auth"
	"github.com/ashline/cigar-cellar/internal/middleware"
	"github.com/ashline/cigar-cellar/internal/model"
	"github.com/ashline/cigar-cellar/internal/repository"
)

// LocationHandler serves the storage location endpoints.
type LocationHandler struct {
	Locations *repository.LocationRepo
	Cigars    *repository.CigarRepo
}

func NewLocationHandler(locations *repository.LocationRepo, cigars *repository.CigarRepo) *LocationHandler {
	return &LocationHandler{Locations: locations, Cigars: cigars}
}

type locationReq struct {
	Name   string `json:"name"`
	Shared bool   `json:"shared"` // admin only: nil owner, visible to everyone
}

type locationResp struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	OwnerID *uint64 `json:"owner_id,omitempty"`
}

func toLocationResp(l *model.Location) locationResp {
	return locationResp{ID: l.ID, Name: l.Name, OwnerID: l.OwnerID}
}

// Create makes a location owned by the acting user, or a shared one
// when an administrator asks for it.
func (h *LocationHandler) Create(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	loc := &model.Location{Name: req.Name}
	if req.Shared {
		if !actor.Admin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only administrators can create shared locations"})
		}
	} else {
		owner := actor.ID
		loc.OwnerID = &owner
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Locations.Create(ctx, loc); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toLocationResp(loc))
}

// List returns the locations visible to the acting user: their own
// plus shared ones, or everything for administrators.
func (h *LocationHandler) List(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	locs, err := h.Locations.ListVisible(ctx, actor.ID, actor.Admin)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]locationResp, 0, len(locs))
	for _, l := range locs {
		out = append(out, toLocationResp(l))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one location.
func (h *LocationHandler) Get(c echo.Context) error {
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
	loc, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, loc.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toLocationResp(loc))
}

// Rename renames a location.
func (h *LocationHandler) Rename(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	loc, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanWrite(actor, loc.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Locations.UpdateName(ctx, id, req.Name); err != nil {
		return repoError(c, err)
	}
	loc.Name = req.Name
	return c.JSON(http.StatusOK, toLocationResp(loc))
}

// Delete removes a location. The repository refuses when any cigar
// still sits there or the transfer ledger references it.
func (h *LocationHandler) Delete(c echo.Context) error {
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
	loc, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanWrite(actor, loc.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Locations.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCigars lists the sticks currently stored at a location.
func (h *LocationHandler) ListCigars(c echo.Context) error {
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
	loc, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, loc.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	cigars, err := h.Cigars.ListByLocation(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]cigarResp, 0, len(cigars))
	for _, cg := range cigars {
		if !auth.CanRead(actor, auth.Owned(cg.OwnerID)) {
			continue // shared location can hold other users' sticks
		}
		out = append(out, toCigarResp(cg))
	}
	return c.JSON(http.StatusOK, out)
}
