package main

import (
	"context"
	"log"
	"os"

	"CartStoreAPI/internal/db"
	"CartStoreAPI/internal/logger"
	"CartStoreAPI/internal/repository"
	"CartStoreAPI/internal/services"
	"CartStoreAPI/internal/storage"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	// ======================
	// INFRA
	// ======================
	appLog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Sync()

	pool, err := db.Connect()
	if err != nil {
		appLog.Fatal("database connect failed", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		appLog.Fatal("schema migration failed", "error", err)
	}

	sessions, err := storage.NewRedisStore(appLog)
	if err != nil {
		appLog.Fatal("redis connect failed", "error", err)
	}
	defer sessions.Close()

	// ======================
	// REPOSITORIES
	// ======================
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService()
	productSvc := services.NewProductService(productRepo)
	cartSvc := services.NewCartService(productRepo, cartRepo, sessions, appLog)
	recordSvc := services.NewRecordService(cartRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/store")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerProductRoutes(api, productSvc)
	registerCartRoutes(api, cartSvc)
	registerRecordRoutes(api, recordSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
