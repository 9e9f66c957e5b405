package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/model"
	"github.com/ashline/cigar-cellar/internal/repository"
)

// ReferenceHandler serves the shared reference tables: brands,
// products, sizes and container types. Reads are open to every
// authenticated user; writes are mounted behind the admin guard by
// the router.
type ReferenceHandler struct {
	Brands         *repository.BrandRepo
	Products       *repository.ProductRepo
	Sizes          *repository.SizeRepo
	ContainerTypes *repository.ContainerTypeRepo
}

func NewReferenceHandler(brands *repository.BrandRepo, products *repository.ProductRepo, sizes *repository.SizeRepo, types *repository.ContainerTypeRepo) *ReferenceHandler {
	return &ReferenceHandler{Brands: brands, Products: products, Sizes: sizes, ContainerTypes: types}
}

type nameReq struct {
	Name string `json:"name"`
}

func bindName(c echo.Context) (string, error) {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return "", c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	return name, nil
}

// --- brands ---

func (h *ReferenceHandler) CreateBrand(c echo.Context) error {
	name, err := bindName(c)
	if name == "" {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b := &model.Brand{Name: name}
	if err := h.Brands.Create(ctx, b); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *ReferenceHandler) ListBrands(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	brands, err := h.Brands.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *ReferenceHandler) GetBrand(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *ReferenceHandler) RenameBrand(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	name, err := bindName(c)
	if name == "" {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Brands.UpdateName(ctx, id, name); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, model.Brand{ID: id, Name: name})
}

// DeleteBrand removes a brand. Brands with products stay put.
func (h *ReferenceHandler) DeleteBrand(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Brands.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- products ---

type productReq struct {
	Name    string `json:"name"`
	BrandID uint64 `json:"brand_id"`
}

func (h *ReferenceHandler) CreateProduct(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.BrandID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and brand_id are required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p := &model.Product{Name: req.Name, BrandID: req.BrandID}
	if err := h.Products.Create(ctx, p); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ListProducts returns all products, or only one brand's when the
// brand_id query parameter is present.
func (h *ReferenceHandler) ListProducts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	var (
		products []*model.Product
		err      error
	)
	if brandID, perr := parseQueryID(c, "brand_id"); perr == nil && brandID > 0 {
		products, err = h.Products.ListByBrand(ctx, brandID)
	} else {
		products, err = h.Products.List(ctx)
	}
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ReferenceHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ReferenceHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.BrandID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and brand_id are required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p := &model.Product{ID: id, Name: req.Name, BrandID: req.BrandID}
	if err := h.Products.Update(ctx, p); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ReferenceHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Products.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- sizes ---

type sizeReq struct {
	Name     string `json:"name"`
	Width64  string `json:"width_64"`
	WidthMM  string `json:"width_mm"`
	LengthCM string `json:"length_cm"`
	LengthIN string `json:"length_in"`
}

func (h *ReferenceHandler) CreateSize(c echo.Context) error {
	var req sizeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s := &model.Size{Name: req.Name, Width64: req.Width64, WidthMM: req.WidthMM, LengthCM: req.LengthCM, LengthIN: req.LengthIN}
	if err := h.Sizes.Create(ctx, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ReferenceHandler) ListSizes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	sizes, err := h.Sizes.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, sizes)
}

func (h *ReferenceHandler) GetSize(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Sizes.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ReferenceHandler) UpdateSize(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req sizeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s := &model.Size{ID: id, Name: req.Name, Width64: req.Width64, WidthMM: req.WidthMM, LengthCM: req.LengthCM, LengthIN: req.LengthIN}
	if err := h.Sizes.Update(ctx, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ReferenceHandler) DeleteSize(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Sizes.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- container types ---

func (h *ReferenceHandler) CreateContainerType(c echo.Context) error {
	name, err := bindName(c)
	if name == "" {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t := &model.ContainerType{Name: name}
	if err := h.ContainerTypes.Create(ctx, t); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *ReferenceHandler) ListContainerTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	types, err := h.ContainerTypes.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *ReferenceHandler) GetContainerType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.ContainerTypes.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ReferenceHandler) RenameContainerType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	name, err := bindName(c)
	if name == "" {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.ContainerTypes.UpdateName(ctx, id, name); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, model.ContainerType{ID: id, Name: name})
}

func (h *ReferenceHandler) DeleteContainerType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.ContainerTypes.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
