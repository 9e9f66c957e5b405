package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/repository"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func parseQueryID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.QueryParam(name), 10, 64)
}

// repoError maps the repository error taxonomy onto HTTP statuses:
// conflicts 409, dangling references 400, missing rows 404, ownership
// denials 403, everything else 500.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateHash),
		errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrCycleDetected),
		errors.Is(err, repository.ErrInUse):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrDanglingRef):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrBrandNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrSizeNotFound),
		errors.Is(err, repository.ErrLocationNotFound),
		errors.Is(err, repository.ErrContainerTypeNotFound),
		errors.Is(err, repository.ErrContainerNotFound),
		errors.Is(err, repository.ErrCigarNotFound),
		errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
