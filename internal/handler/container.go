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

// ContainerHandler serves the nesting container endpoints. Containers
// form a forest per owner; reparenting goes through the repository so
// the cycle check and the update share one transaction.
type ContainerHandler struct {
	Containers *repository.ContainerRepo
	Cigars     *repository.CigarRepo
}

func NewContainerHandler(containers *repository.ContainerRepo, cigars *repository.CigarRepo) *ContainerHandler {
	return &ContainerHandler{Containers: containers, Cigars: cigars}
}

type containerReq struct {
	Name     string  `json:"name"`
	TypeID   uint64  `json:"type_id"`
	ParentID *uint64 `json:"parent_id"`
}

type containerResp struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	TypeID   uint64  `json:"type_id"`
	ParentID *uint64 `json:"parent_id,omitempty"`
	OwnerID  uint64  `json:"owner_id"`
}

func toContainerResp(ct *model.Container) containerResp {
	return containerResp{ID: ct.ID, Name: ct.Name, TypeID: ct.TypeID, ParentID: ct.ParentID, OwnerID: ct.OwnerID}
}

// loadOwned fetches a container and enforces write access for the actor.
func (h *ContainerHandler) loadOwned(c echo.Context, actor auth.Actor) (*model.Container, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ct, err := h.Containers.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(c, err)
	}
	if !auth.CanWrite(actor, auth.Owned(ct.OwnerID)) {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return ct, nil
}

// Create makes a new container for the acting user.
func (h *ContainerHandler) Create(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req containerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.TypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and type_id are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.ParentID != nil {
		parent, err := h.Containers.GetByID(ctx, *req.ParentID)
		if err != nil {
			return repoError(c, err)
		}
		if !auth.CanWrite(actor, auth.Owned(parent.OwnerID)) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	ct := &model.Container{
		Name:     req.Name,
		TypeID:   req.TypeID,
		ParentID: req.ParentID,
		OwnerID:  actor.ID,
	}
	if err := h.Containers.Create(ctx, ct); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toContainerResp(ct))
}

// List returns the acting user's containers.
func (h *ContainerHandler) List(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cts, err := h.Containers.ListByOwner(ctx, actor.ID)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]containerResp, 0, len(cts))
	for _, ct := range cts {
		out = append(out, toContainerResp(ct))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one container.
func (h *ContainerHandler) Get(c echo.Context) error {
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
	ct, err := h.Containers.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, auth.Owned(ct.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toContainerResp(ct))
}

// Rename renames a container.
func (h *ContainerHandler) Rename(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req containerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ct, err := h.loadOwned(c, actor)
	if ct == nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Containers.Rename(ctx, ct.ID, req.Name); err != nil {
		return repoError(c, err)
	}
	ct.Name = req.Name
	return c.JSON(http.StatusOK, toContainerResp(ct))
}

type setParentReq struct {
	ParentID *uint64 `json:"parent_id"` // nil detaches to root
}

// SetParent moves a container under a new parent, or to the root when
// parent_id is null. A move that would put the container among its own
// descendants is rejected.
func (h *ContainerHandler) SetParent(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setParentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ct, err := h.loadOwned(c, actor)
	if ct == nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if req.ParentID != nil {
		parent, perr := h.Containers.GetByID(ctx, *req.ParentID)
		if perr != nil {
			return repoError(c, perr)
		}
		if !auth.CanWrite(actor, auth.Owned(parent.OwnerID)) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	if err := h.Containers.SetParent(ctx, ct.ID, req.ParentID); err != nil {
		return repoError(c, err)
	}
	ct.ParentID = req.ParentID
	return c.JSON(http.StatusOK, toContainerResp(ct))
}

// Delete removes a container and its whole subtree. Cigar membership
// rows are detached; the cigars themselves stay in inventory.
func (h *ContainerHandler) Delete(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ct, err := h.loadOwned(c, actor)
	if ct == nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Containers.Delete(ctx, ct.ID); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type membershipReq struct {
	CigarID uint64 `json:"cigar_id"`
}

// AddCigar places a stick into a container. The stick must belong to
// someone the actor may write for.
func (h *ContainerHandler) AddCigar(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req membershipReq
	if err := c.Bind(&req); err != nil || req.CigarID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cigar_id required"})
	}
	ct, err := h.loadOwned(c, actor)
	if ct == nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Cigars.GetByID(ctx, req.CigarID)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanWrite(actor, auth.Owned(d.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Containers.AddCigar(ctx, ct.ID, req.CigarID); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"container_id": ct.ID, "cigar_id": req.CigarID})
}

// RemoveCigar takes a stick out of a container.
func (h *ContainerHandler) RemoveCigar(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ct, err := h.loadOwned(c, actor)
	if ct == nil {
		return err
	}
	cigarID, err := parseID(c, "cigar_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cigar_id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Containers.RemoveCigar(ctx, ct.ID, cigarID); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCigars lists the sticks held directly by a container.
func (h *ContainerHandler) ListCigars(c echo.Context) error {
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
	ct, err := h.Containers.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanRead(actor, auth.Owned(ct.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	cigars, err := h.Cigars.ListByContainer(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]cigarResp, 0, len(cigars))
	for _, cg := range cigars {
		out = append(out, toCigarResp(cg))
	}
	return c.JSON(http.StatusOK, out)
}
