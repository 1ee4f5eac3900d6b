package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cleanops/internal/config"
	"cleanops/internal/handler"
	"cleanops/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	serviceHandler *handler.ServiceHandler,
	discountHandler *handler.DiscountHandler,
	locationHandler *handler.LocationHandler,
	loyaltyHandler *handler.LoyaltyHandler,
	reportHandler *handler.ReportHandler,
	seedHandler *handler.SeedHandler,
	profileResolver echo.MiddlewareFunc,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/signout", authHandler.SignOut)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.POST("/auth/reset-password/confirm", authHandler.ConfirmReset)
	api.POST("/auth/restore", authHandler.Restore)

	// Secured routes: JWT signature first, then profile resolution.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), profileResolver)

	// Own profile
	secured.GET("/me", profileHandler.Me)
	secured.PUT("/me", profileHandler.UpdateMe)
	secured.PUT("/me/password", profileHandler.UpdatePassword)

	// Service requests
	secured.GET("/services", serviceHandler.List)
	secured.POST("/services", serviceHandler.Create, RequirePermission(session.CanCreateServices))
	secured.GET("/services/:id", serviceHandler.Get)
	secured.POST("/services/:id/confirm", serviceHandler.Confirm, RequirePermission(session.CanConfirmServices))
	secured.POST("/services/:id/complete", serviceHandler.Complete, RequirePermission(session.CanConfirmServices))
	secured.POST("/services/:id/cancel", serviceHandler.Cancel)

	// Discount tiers
	secured.GET("/discounts", discountHandler.List)
	secured.POST("/discounts", discountHandler.Create, RequirePermission(session.CanManageDiscounts))
	secured.PUT("/discounts/:id", discountHandler.Update, RequirePermission(session.CanManageDiscounts))
	secured.DELETE("/discounts/:id", discountHandler.Delete, RequirePermission(session.CanManageDiscounts))

	// Saved addresses
	secured.GET("/locations", locationHandler.List)
	secured.POST("/locations", locationHandler.Create, RequirePermission(session.CanManageLocations))
	secured.PUT("/locations/:id", locationHandler.Update, RequirePermission(session.CanManageLocations))
	secured.DELETE("/locations/:id", locationHandler.Delete, RequirePermission(session.CanManageLocations))

	// Loyalty
	secured.GET("/loyalty", loyaltyHandler.Mine)
	secured.GET("/loyalty/:id", loyaltyHandler.Get)

	// User administration
	secured.GET("/users", profileHandler.ListUsers, RequirePermission(session.CanManageUsers))
	secured.GET("/users/:id", profileHandler.GetUser, RequirePermission(session.CanManageUsers))
	secured.PUT("/users/:id/role", profileHandler.UpdateUserRole, RequirePermission(session.CanManageUsers))
	secured.DELETE("/users/:id", profileHandler.DeactivateUser, RequirePermission(session.CanManageUsers))

	// Reports
	secured.GET("/reports/summary", reportHandler.Summary, RequirePermission(session.CanViewReports))
	secured.GET("/reports/export", reportHandler.Export, RequirePermission(session.CanViewReports))

	// Seed
	secured.POST("/seed/discounts", seedHandler.SeedDiscounts, RequirePermission(session.CanManageDiscounts))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
