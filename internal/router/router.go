package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/handler"
	"github.com/ashline/cigar-cellar/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the token lifecycle. Register, login, refresh and
// logout live under /v1/auth without a JWT; /v1/me and the revoke-all
// endpoint require one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.GET("/me", a.Me)
	protected.POST("/auth/logout-all", a.LogoutAll)
}

// API bundles the handlers mounted behind authentication so main does
// not pass a dozen parameters positionally.
type API struct {
	Cigars     *handler.CigarHandler
	Locations  *handler.LocationHandler
	Containers *handler.ContainerHandler
	Sessions   *handler.SessionHandler
	Reference  *handler.ReferenceHandler
}

// RegisterAPI registers the authenticated inventory API under /v1 and
// the reference-table writes under /v1/admin. Extra middleware (the
// response cache and the rate limiter) is applied to the whole
// authenticated surface.
func RegisterAPI(e *echo.Echo, api API, jwtSecret string, extra ...echo.MiddlewareFunc) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	for _, m := range extra {
		v1.Use(m)
	}

	// inventory
	v1.POST("/cigars", api.Cigars.Intake)
	v1.GET("/cigars", api.Cigars.List)
	v1.GET("/cigars/:hash", api.Cigars.GetByHash)
	v1.POST("/cigars/:hash/move", api.Cigars.Move)
	v1.POST("/cigars/:hash/smoke", api.Cigars.Smoke)
	v1.GET("/cigars/:hash/transfers", api.Cigars.ListTransfers)
	v1.GET("/cigars/:hash/ratings", api.Sessions.CigarRatings)

	// locations
	v1.POST("/locations", api.Locations.Create)
	v1.GET("/locations", api.Locations.List)
	v1.GET("/locations/:id", api.Locations.Get)
	v1.PATCH("/locations/:id", api.Locations.Rename)
	v1.DELETE("/locations/:id", api.Locations.Delete)
	v1.GET("/locations/:id/cigars", api.Locations.ListCigars)

	// containers
	v1.POST("/containers", api.Containers.Create)
	v1.GET("/containers", api.Containers.List)
	v1.GET("/containers/:id", api.Containers.Get)
	v1.PATCH("/containers/:id", api.Containers.Rename)
	v1.PUT("/containers/:id/parent", api.Containers.SetParent)
	v1.DELETE("/containers/:id", api.Containers.Delete)
	v1.GET("/containers/:id/cigars", api.Containers.ListCigars)
	v1.POST("/containers/:id/cigars", api.Containers.AddCigar)
	v1.DELETE("/containers/:id/cigars/:cigar_id", api.Containers.RemoveCigar)

	// sessions
	v1.POST("/sessions", api.Sessions.Log)
	v1.GET("/sessions", api.Sessions.List)
	v1.GET("/sessions/:id", api.Sessions.Get)
	v1.GET("/sessions/:id/ratings", api.Sessions.Ratings)

	// reference reads are open to every authenticated user
	v1.GET("/brands", api.Reference.ListBrands)
	v1.GET("/brands/:id", api.Reference.GetBrand)
	v1.GET("/products", api.Reference.ListProducts)
	v1.GET("/products/:id", api.Reference.GetProduct)
	v1.GET("/sizes", api.Reference.ListSizes)
	v1.GET("/sizes/:id", api.Reference.GetSize)
	v1.GET("/container-types", api.Reference.ListContainerTypes)
	v1.GET("/container-types/:id", api.Reference.GetContainerType)

	// reference writes are admin only
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/brands", api.Reference.CreateBrand)
	admin.PATCH("/brands/:id", api.Reference.RenameBrand)
	admin.DELETE("/brands/:id", api.Reference.DeleteBrand)
	admin.POST("/products", api.Reference.CreateProduct)
	admin.PUT("/products/:id", api.Reference.UpdateProduct)
	admin.DELETE("/products/:id", api.Reference.DeleteProduct)
	admin.POST("/sizes", api.Reference.CreateSize)
	admin.PUT("/sizes/:id", api.Reference.UpdateSize)
	admin.DELETE("/sizes/:id", api.Reference.DeleteSize)
	admin.POST("/container-types", api.Reference.CreateContainerType)
	admin.PATCH("/container-types/:id", api.Reference.RenameContainerType)
	admin.DELETE("/container-types/:id", api.Reference.DeleteContainerType)
}
