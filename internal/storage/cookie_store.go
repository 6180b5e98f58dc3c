package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// cookieMaxAge keeps the client artifact around well past the session.
const cookieMaxAge = 180 * 24 * time.Hour

// CookieStore is the durable client artifact, bound to one request. Values are
// base64url-wrapped JSON since cookie values cannot hold raw JSON characters.
// Writes are remembered so a later read in the same request sees them.
type CookieStore struct {
	ctx     echo.Context
	written map[string]string
}

func NewCookieStore(c echo.Context) *CookieStore {
	return &CookieStore{ctx: c, written: map[string]string{}}
}

func (s *CookieStore) Get(_ context.Context, cartID string) (string, bool, error) {
	if val, ok := s.written[cartID]; ok {
		return val, true, nil
	}
	ck, err := s.ctx.Cookie(cartID)
	if err != nil || ck.Value == "" {
		return "", false, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		// Corrupt cookie reads as absent.
		return "", false, nil
	}
	return string(decoded), true, nil
}

func (s *CookieStore) Set(_ context.Context, cartID, value string) error {
	s.ctx.SetCookie(&http.Cookie{
		Name:     cartID,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(value)),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
	})
	s.written[cartID] = value
	return nil
}

func (s *CookieStore) Delete(_ context.Context, cartID string) error {
	s.ctx.SetCookie(&http.Cookie{
		Name:     cartID,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	delete(s.written, cartID)
	return nil
}
