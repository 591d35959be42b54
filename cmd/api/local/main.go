//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"jaspire-api/internal/logger"
	"jaspire-api/internal/server"
)

// @title           Jaspire API
// @version         1.0
// @description     API server for the Jaspire cashback investing application

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a Firebase ID token.
func main() {
	if err := godotenv.Load(); err != nil {
		// Fine in production where variables are set directly in the
		// environment.
		log.Printf("Warning: .env file not found: %v\n", err)
	}

	// Initialize logger first
	logger.InitLogger()
	defer logger.Sync()

	router := gin.Default()

	server.InitializeHandlers()
	server.InitializeRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second, // Prevent Slowloris attacks
	}

	go func() {
		log.Printf("Server starting on port %s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
