package main

import (
	"net/http"

	"CartStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerAuthRoutes(g *echo.Group, as *services.AuthService) {
	p := g.Group("/auth")

	// LOGIN (admin only, env-configured credential)
	p.POST("/login", func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		token, err := as.Login(req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"token": token})
	})
}
