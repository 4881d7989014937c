package main

import (
	"fmt"
	"log"
	"os"

	"bess-lab/internal/api/handlers"
	"bess-lab/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	storageDir := handlers.DefaultStorageDir()
	if info, err := os.Stat(storageDir); err == nil && info.IsDir() {
		log.Printf("Storage preset directory: %s", storageDir)
	} else {
		log.Printf("Storage preset directory not found at %s; storage_file requests will fail", storageDir)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	studyHandler := handlers.NewStudyHandler(storageDir)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/arbitrage", studyHandler.RunArbitrage)
		api.POST("/peak-shaving", studyHandler.RunPeakShaving)
		api.POST("/sizing", studyHandler.RunSizing)
		api.POST("/sizing/compare", studyHandler.CompareTechnologies)

		api.GET("/storages", studyHandler.ListStorages)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
