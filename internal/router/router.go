package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"clarifyall/internal/auth"
	"clarifyall/internal/config"
	"clarifyall/internal/errors"
	"clarifyall/internal/handler"
	"clarifyall/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	toolHandler *handler.ToolHandler,
	categoryHandler *handler.CategoryHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded logos and avatars.
	e.Static("/files", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.GET("/tools", toolHandler.ListTools)
	api.GET("/tools/popular", toolHandler.PopularTools)
	api.GET("/tools/recent", toolHandler.RecentTools)
	api.GET("/tools/:id", toolHandler.GetTool)
	api.GET("/tools/:id/similar", toolHandler.SimilarTools)
	api.POST("/tools/:id/view", toolHandler.RecordView)
	api.POST("/tools/submit", toolHandler.SubmitTool)

	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:slug", categoryHandler.GetCategoryBySlug)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/change-password", authHandler.ChangePassword)

	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.POST("/users/avatar", userHandler.UploadAvatar)
	secured.GET("/users/tools", userHandler.SubmittedTools)
	secured.GET("/users/saved-tools", userHandler.SavedTools)
	secured.POST("/users/saved-tools/:toolId", userHandler.SaveTool)
	secured.DELETE("/users/saved-tools/:toolId", userHandler.UnsaveTool)
	secured.GET("/users/saved-tools/:toolId/check", userHandler.CheckSaved)
	secured.DELETE("/users/me", userHandler.DeleteAccount)

	// Admin routes: moderation and catalog management. The role comes from
	// the verified token, never from the request body.
	admin := secured.Group("/admin", RequireRole(model.RoleAdmin))

	admin.GET("/tools", toolHandler.ListAllTools)
	admin.PUT("/tools/:id", toolHandler.UpdateTool)
	admin.DELETE("/tools/:id", toolHandler.DeleteTool)
	admin.PUT("/tools/:id/approve", toolHandler.ApproveTool)
	admin.PUT("/tools/:id/reject", toolHandler.RejectTool)
	admin.POST("/tools/:id/logo", toolHandler.ReplaceLogo)
}

// RequireRole rejects requests whose verified token does not carry the role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid token",
					Code:  "UNAUTHORIZED",
				})
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient permissions",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
