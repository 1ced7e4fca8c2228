package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/jmallet/catql/internal/api"
	"github.com/jmallet/catql/internal/config"
	"github.com/jmallet/catql/internal/db"
	"github.com/jmallet/catql/internal/export"
	"github.com/jmallet/catql/internal/ingestion"
	"github.com/jmallet/catql/internal/middleware"
	"github.com/jmallet/catql/internal/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	categoryRepo := repository.NewCategoryRepository(conn.Pool)
	productRepo := repository.NewProductRepository(conn.Pool, categoryRepo)

	exportService := export.NewService(productRepo,
		export.WithExportDirectory(cfg.ExportDir),
		export.WithPageSize(cfg.PageSize),
	)
	ingestionService := ingestion.NewService(productRepo, categoryRepo)

	mux := api.NewRouter(productRepo, categoryRepo, cfg.PageSize)
	mux.Handle("POST /api/products/export", export.NewHTTPHandler(exportService))
	mux.Handle("POST /api/products/import", ingestion.NewHTTPHandler(ingestionService))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := corsHandler.Handler(
		middleware.LoggingMiddleware(
			middleware.DataLoaderMiddleware(categoryRepo)(mux),
		),
	)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting catalog API on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
