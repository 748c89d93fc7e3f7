package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogapi/internal/auth"
	"blogapi/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	categoryHandler *handler.CategoryHandler,
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

	required := auth.Required(jwtService)
	optional := auth.Optional(jwtService)

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/categories", categoryHandler.List)

	// Read endpoints behave the same for anonymous callers but still attach
	// an identity when a valid token is supplied.
	api.GET("/posts", postHandler.List, optional)
	api.GET("/posts/:id", postHandler.Get, optional)

	// Writes require an authenticated caller.
	api.POST("/posts", postHandler.Create, required)
	api.PUT("/posts/:id", postHandler.Update, required)
	api.DELETE("/posts/:id", postHandler.Delete, required)
	api.POST("/categories", categoryHandler.Create, required)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
