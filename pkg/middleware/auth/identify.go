package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_shopping/pkg/logging"
	"github.com/Skotchmaster/online_shopping/pkg/tokens"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// Identify attaches the caller behind a valid access token to the echo context
// and the request logger. Requests without a token, or with a bad one, pass
// through anonymously.
func Identify(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := accessToken(c)
			if raw == "" {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			claims, err := tokens.AccessClaimsFromToken(raw, secret)
			if err != nil {
				logging.FromContext(ctx).Debug("access_token_ignored", "error", err)
				return next(c)
			}
			userID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				return next(c)
			}

			c.Set(ContextUserID, uint(userID))
			c.Set(ContextUsername, claims.Username)

			l := logging.FromContext(ctx).With("user_id", userID)
			c.SetRequest(req.WithContext(logging.IntoContext(ctx, l)))
			return next(c)
		}
	}
}

func accessToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}
