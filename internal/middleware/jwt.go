package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/auth"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and stores the resolved auth.Actor in the request context under
// "actor". Handlers retrieve it with CurrentActor.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			sub, ok := claims["sub"].(float64) // JSON numbers decode as float64
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			admin, _ := claims["admin"].(bool)

			c.Set("actor", auth.Actor{ID: uint64(sub), Admin: admin})
			return next(c)
		}
	}
}

// CurrentActor extracts the authenticated identity placed in context by
// JWTAuth. The bool is false on unauthenticated routes.
func CurrentActor(c echo.Context) (auth.Actor, bool) {
	a, ok := c.Get("actor").(auth.Actor)
	return a, ok
}

// RequireAdmin aborts with 403 unless the actor carries the admin
// capability. It must run after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := CurrentActor(c)
			if !ok || !auth.CanManageReference(a) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
