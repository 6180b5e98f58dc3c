package main

import (
	"errors"
	"net/http"
	"strconv"

	"CartStoreAPI/internal/middleware"
	"CartStoreAPI/internal/repository"
	"CartStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type setStatusRequest struct {
	Status bool `json:"status"`
}

// Record routes are for downstream workflow tooling, admin token required.
func registerRecordRoutes(g *echo.Group, rs *services.RecordService) {
	p := g.Group("/records")
	p.Use(middleware.JWTMiddleware())
	p.Use(middleware.AdminOnly)

	// LIST records by workflow status
	p.GET("", func(c echo.Context) error {
		status := c.QueryParam("status") == "true"
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		list, err := rs.ListByStatus(c.Request().Context(), status, limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	// GET one record by its shared code
	p.GET("/:code", func(c echo.Context) error {
		rec, err := rs.GetByCode(c.Request().Context(), c.Param("code"))
		if err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, rec)
	})

	// FLIP workflow status
	p.PUT("/:code/status", func(c echo.Context) error {
		req := new(setStatusRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := rs.SetStatus(c.Request().Context(), c.Param("code"), req.Status); err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "status updated"})
	})
}
