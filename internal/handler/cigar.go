package handler

import (
	"log"
	"net/http"
	"strconv"
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

// CigarHandler serves the inventory endpoints: intake, hash lookup,
// listings, the smoked flag and location moves with their ledger.
type CigarHandler struct {
	Cigars    *repository.CigarRepo
	Transfers *repository.TransferRepo
	Locations *repository.LocationRepo
}

func NewCigarHandler(cigars *repository.CigarRepo, transfers *repository.TransferRepo, locations *repository.LocationRepo) *CigarHandler {
	return &CigarHandler{Cigars: cigars, Transfers: transfers, Locations: locations}
}

type intakeReq struct {
	Hash          string  `json:"hash"` // optional; generated when empty
	ProductID     uint64  `json:"product_id"`
	SizeID        uint64  `json:"size_id"`
	LocationID    uint64  `json:"location_id"`
	PurchaseDate  *string `json:"purchase_date"` // YYYY-MM-DD
	PurchasePrice *string `json:"purchase_price"`
}

type cigarResp struct {
	ID            uint64  `json:"id"`
	Hash          string  `json:"hash"`
	ProductID     uint64  `json:"product_id"`
	SizeID        uint64  `json:"size_id"`
	LocationID    uint64  `json:"location_id"`
	PurchaseDate  *string `json:"purchase_date,omitempty"`
	PurchasePrice *string `json:"purchase_price,omitempty"`
	Smoked        bool    `json:"smoked"`
	OwnerID       uint64  `json:"owner_id"`
}

type cigarDetailResp struct {
	cigarResp
	ProductName  string `json:"product_name"`
	BrandName    string `json:"brand_name"`
	SizeName     string `json:"size_name"`
	LocationName string `json:"location_name"`
}

func toCigarResp(c *model.Cigar) cigarResp {
	out := cigarResp{
		ID:            c.ID,
		Hash:          c.Hash,
		ProductID:     c.ProductID,
		SizeID:        c.SizeID,
		LocationID:    c.LocationID,
		PurchasePrice: c.PurchasePrice,
		Smoked:        c.Smoked,
		OwnerID:       c.OwnerID,
	}
	if c.PurchaseDate != nil {
		d := c.PurchaseDate.Format("2006-01-02")
		out.PurchaseDate = &d
	}
	return out
}

// Intake takes a new stick into inventory for the acting user.
func (h *CigarHandler) Intake(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req intakeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ProductID == 0 || req.SizeID == 0 || req.LocationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id, size_id and location_id are required"})
	}

	hash := strings.ToLower(strings.TrimSpace(req.Hash))
	if hash == "" {
		var err error
		if hash, err = utils.NewCigarHash(req.ProductID, req.SizeID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash generation failed"})
		}
	} else if !utils.ValidCigarHash(hash) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hash must be 64 hex characters"})
	}

	cigar := &model.Cigar{
		Hash:          hash,
		ProductID:     req.ProductID,
		SizeID:        req.SizeID,
		LocationID:    req.LocationID,
		PurchasePrice: req.PurchasePrice,
		OwnerID:       actor.ID,
	}
	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		d, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "purchase_date must be YYYY-MM-DD"})
		}
		cigar.PurchaseDate = &d
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Cigars.Intake(ctx, cigar); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toCigarResp(cigar))
}

// GetByHash looks up a stick by content hash with resolved names.
func (h *CigarHandler) GetByHash(c echo.Context) error {
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
	return c.JSON(http.StatusOK, cigarDetailResp{
		cigarResp:    toCigarResp(&d.Cigar),
		ProductName:  d.ProductName,
		BrandName:    d.BrandName,
		SizeName:     d.SizeName,
		LocationName: d.LocationName,
	})
}

// List returns the acting user's sticks, optionally filtered by
// location_id and/or product_id query parameters.
func (h *CigarHandler) List(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	locationID, _ := strconv.ParseUint(c.QueryParam("location_id"), 10, 64)
	productID, _ := strconv.ParseUint(c.QueryParam("product_id"), 10, 64)

	ctx, cancel := reqCtx(c)
	defer cancel()
	cigars, err := h.Cigars.ListByOwner(ctx, actor.ID, locationID, productID)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]cigarResp, 0, len(cigars))
	for _, cg := range cigars {
		out = append(out, toCigarResp(cg))
	}
	return c.JSON(http.StatusOK, out)
}

type moveReq struct {
	LocationID uint64 `json:"location_id"`
}

// Move relocates a stick. The location update and the ledger append
// commit together inside the repository; the event publish afterwards
// is advisory and failures there are only logged.
func (h *CigarHandler) Move(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hash := strings.ToLower(c.Param("hash"))
	if !utils.ValidCigarHash(hash) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hash"})
	}
	var req moveReq
	if err := c.Bind(&req); err != nil || req.LocationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Cigars.GetByHash(ctx, hash)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanWrite(actor, auth.Owned(d.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	transfer, err := h.Cigars.Move(ctx, d.ID, req.LocationID)
	if err != nil {
		return repoError(c, err)
	}

	fromName := d.LocationName
	toName := ""
	if loc, lerr := h.Locations.GetByID(ctx, req.LocationID); lerr == nil {
		toName = loc.Name
	}
	if perr := queue_publisher.PublishCigarTransferred(c.Request().Context(), queue.CigarTransferredEvent{
		TransferID:   transfer.ID,
		CigarHash:    d.Hash,
		OwnerID:      d.OwnerID,
		FromID:       transfer.FromID,
		FromLocation: fromName,
		ToID:         transfer.ToID,
		ToLocation:   toName,
		MovedAt:      transfer.MovedAt.Format(time.RFC3339),
	}); perr != nil {
		log.Printf("cigar-move: publish event failed: %v", perr)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"transfer": echo.Map{
			"id":       transfer.ID,
			"cigar_id": transfer.CigarID,
			"from_id":  transfer.FromID,
			"to_id":    transfer.ToID,
			"moved_at": transfer.MovedAt,
		},
	})
}

type smokeReq struct {
	Smoked *bool `json:"smoked"` // nil defaults to true
}

// Smoke flips the smoked flag on a stick.
func (h *CigarHandler) Smoke(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hash := strings.ToLower(c.Param("hash"))
	if !utils.ValidCigarHash(hash) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hash"})
	}
	var req smokeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	smoked := true
	if req.Smoked != nil {
		smoked = *req.Smoked
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Cigars.GetByHash(ctx, hash)
	if err != nil {
		return repoError(c, err)
	}
	if !auth.CanWrite(actor, auth.Owned(d.OwnerID)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Cigars.MarkSmoked(ctx, d.ID, smoked); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hash": hash, "smoked": smoked})
}

// ListTransfers returns the full provenance ledger of a stick.
func (h *CigarHandler) ListTransfers(c echo.Context) error {
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
	transfers, err := h.Transfers.ListByCigar(ctx, d.ID)
	if err != nil {
		return repoError(c, err)
	}
	type transferResp struct {
		ID      uint64    `json:"id"`
		FromID  uint64    `json:"from_id"`
		ToID    uint64    `json:"to_id"`
		MovedAt time.Time `json:"moved_at"`
	}
	out := make([]transferResp, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, transferResp{ID: t.ID, FromID: t.FromID, ToID: t.ToID, MovedAt: t.MovedAt})
	}
	return c.JSON(http.StatusOK, out)
}
