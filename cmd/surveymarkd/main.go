package main

import (
	"log"

	"github.com/joho/godotenv"

	"surveymark/internal/server"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to database
	if err := server.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer server.CloseDB()

	// Run migrations
	if err := server.Migrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Create and configure Fiber app
	app := server.NewServer()

	// Register routes
	server.RegisterRoutes(app, server.NewAnnotationRepo(server.DB))

	// Start server
	if err := server.StartServer(app); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
