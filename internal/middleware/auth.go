package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"legalbooking/internal/auth"
	apperrors "legalbooking/internal/errors"
)

const userContextKey = "user"

// JWT validates the bearer access token and stores it in the context under
// "user". Refresh tokens carry an ID and are refused.
func JWT(secret []byte) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		SigningKey:  secret,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  userContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized()
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			if claims, ok := Claims(c); !ok || claims.ID != "" {
				return unauthorized()
			}
			return next(c)
		})
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "missing or invalid token",
		Code:  "UNAUTHORIZED",
	})
}

// Claims returns the claims of the validated token, if any.
func Claims(c echo.Context) (*auth.Claims, bool) {
	token, ok := c.Get(userContextKey).(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.Claims)
	return claims, ok
}

// RequireRole rejects callers whose token role is not one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return unauthorized()
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}
}
