package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"

	"datarw/internal/config"
	"datarw/internal/logger"
	"datarw/internal/server"
)

func main() {
	// Load configuration
	cfg := config.New()
	zl := logger.New(cfg)

	// Create and run server
	srv, err := server.New(cfg, zl)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
