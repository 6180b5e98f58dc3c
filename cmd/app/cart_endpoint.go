package main

import (
	"errors"
	"net/http"
	"regexp"

	"CartStoreAPI/internal/cart"
	"CartStoreAPI/internal/middleware"
	"CartStoreAPI/internal/model"
	"CartStoreAPI/internal/repository"
	"CartStoreAPI/internal/services"
	"CartStoreAPI/internal/storage"

	"github.com/labstack/echo/v4"
)

type putCartRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"quantity"`
}

type updateCartRequest struct {
	Qty int `json:"quantity"`
}

// Slot names become cookie names, so only a safe charset is allowed and the
// client id cookie is off limits.
var cartSlotPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,31}$`)

var errInvalidCartSlot = errors.New("invalid cart name")

// cartSlot picks which cart the request works on. Clients can keep several
// (cart, wishlist, ...) side by side via the ?cart= query param.
func cartSlot(c echo.Context) (string, error) {
	slot := c.QueryParam("cart")
	if slot == "" {
		return cart.DefaultCartID, nil
	}
	if slot == "client_id" || !cartSlotPattern.MatchString(slot) {
		return "", errInvalidCartSlot
	}
	return slot, nil
}

func cartStatus(err error) int {
	if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, cart.ErrPositionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func registerCartRoutes(g *echo.Group, cs *services.CartService) {
	p := g.Group("/cart")
	p.Use(middleware.ClientID())

	// GET cart
	p.GET("", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		resp, err := cs.Get(c.Request().Context(), clientID, slot, storage.NewCookieStore(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, resp)
	})

	// PUT (add) item, default qty 1
	p.POST("", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		req := new(putCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if req.Qty == 0 {
			req.Qty = 1
		}
		resp, err := cs.Put(c.Request().Context(), clientID, slot, storage.NewCookieStore(c), req.ProductID, req.Qty)
		if err != nil {
			return c.JSON(cartStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, resp)
	})

	// UPDATE quantity (0 removes)
	p.PUT("/:id", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		req := new(updateCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		resp, err := cs.Update(c.Request().Context(), clientID, slot, storage.NewCookieStore(c), c.Param("id"), req.Qty)
		if err != nil {
			return c.JSON(cartStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, resp)
	})

	// REMOVE item
	p.DELETE("/:id", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		resp, err := cs.Remove(c.Request().Context(), clientID, slot, storage.NewCookieStore(c), c.Param("id"))
		if err != nil {
			return c.JSON(cartStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, resp)
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		resp, err := cs.Clear(c.Request().Context(), clientID, slot, storage.NewCookieStore(c))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, resp)
	})

	// CONTACT info for the backing record
	p.PUT("/contact", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		info := new(model.ContactInfo)
		if err := c.Bind(info); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cs.SetContact(c.Request().Context(), clientID, slot, storage.NewCookieStore(c), *info); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "contact saved"})
	})

	// HASH for change detection
	p.GET("/hash", func(c echo.Context) error {
		clientID := middleware.GetClientID(c)
		slot, err := cartSlot(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		hash, err := cs.Hash(c.Request().Context(), clientID, slot, storage.NewCookieStore(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"hash": hash})
	})
}
