package main

import (
	"net/http"
	"strconv"

	"CartStoreAPI/internal/middleware"
	"CartStoreAPI/internal/model"
	"CartStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerProductRoutes(g *echo.Group, ps *services.ProductService) {
	p := g.Group("/products")

	p.GET("", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		list, err := ps.List(c.Request().Context(), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	p.GET("/:id", func(c echo.Context) error {
		prod, err := ps.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, prod)
	})

	// CREATE product (admin)
	p.POST("", func(c echo.Context) error {
		prod := new(model.Product)
		if err := c.Bind(prod); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ps.Create(c.Request().Context(), prod); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, prod)
	}, middleware.JWTMiddleware(), middleware.AdminOnly)
}
