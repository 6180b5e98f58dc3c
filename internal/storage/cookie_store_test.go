package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCookieStoreReadsRequestCookie(t *testing.T) {
	payload := `{"code":"ABC","data":{"A":2}}`
	c, _ := newEchoContext(&http.Cookie{
		Name:  "cart",
		Value: base64.RawURLEncoding.EncodeToString([]byte(payload)),
	})

	store := NewCookieStore(c)
	val, ok, err := store.Get(context.Background(), "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, val)
}

func TestCookieStoreMissingAndCorrupt(t *testing.T) {
	c, _ := newEchoContext(&http.Cookie{Name: "wishlist", Value: "%%%not-base64%%%"})
	store := NewCookieStore(c)

	_, ok, err := store.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	// Corrupt value reads as absent, never as an error.
	_, ok, err = store.Get(context.Background(), "wishlist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCookieStoreSetWritesResponseCookie(t *testing.T) {
	c, rec := newEchoContext()
	store := NewCookieStore(c)

	payload := `{"code":"XYZ","data":{}}`
	require.NoError(t, store.Set(context.Background(), "cart", payload))

	// Same-request read sees the write.
	val, ok, err := store.Get(context.Background(), "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, val)

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "cart", cookies[0].Name)
	decoded, err := base64.RawURLEncoding.DecodeString(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, payload, string(decoded))
	assert.True(t, cookies[0].HttpOnly)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestCookieStoreDelete(t *testing.T) {
	c, rec := newEchoContext(&http.Cookie{
		Name:  "cart",
		Value: base64.RawURLEncoding.EncodeToString([]byte("{}")),
	})
	store := NewCookieStore(c)

	require.NoError(t, store.Delete(context.Background(), "cart"))

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
