package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
)

// contextKey is where echo-jwt stores the parsed token on the request context.
const contextKey = "user"

// Required rejects requests without a valid bearer token with 401 before any
// handler runs.
func Required(svc *JWTService) echo.MiddlewareFunc {
	cfg := baseConfig(svc)
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "missing or invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	return echojwt.WithConfig(cfg)
}

// Optional attempts verification but proceeds anonymously on any failure,
// including a missing Authorization header.
func Optional(svc *JWTService) echo.MiddlewareFunc {
	cfg := baseConfig(svc)
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return nil
	}
	return echojwt.WithConfig(cfg)
}

func baseConfig(svc *JWTService) echojwt.Config {
	return echojwt.Config{
		ContextKey:  contextKey,
		SigningKey:  svc.secret,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
	}
}

// ClaimsFrom returns the verified claims attached to the request, if any.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	return claims, ok
}
