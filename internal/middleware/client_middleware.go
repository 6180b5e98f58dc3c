package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const clientCookieName = "client_id"

// ClientID ensures every request carries a client id cookie. The id keys the
// session tier, so a client keeps its cart across requests without an account.
func ClientID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(clientCookieName)
			if err == nil && ck.Value != "" {
				c.Set("client_id", ck.Value)
				return next(c)
			}
			id := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     clientCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int((180 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
			})
			c.Set("client_id", id)
			return next(c)
		}
	}
}

// GetClientID returns the client id set by ClientID, or "".
func GetClientID(c echo.Context) string {
	if v, ok := c.Get("client_id").(string); ok {
		return v
	}
	return ""
}
