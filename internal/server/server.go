package server

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewServer builds the Fiber app with the global middleware stack.
func NewServer() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		AppName:      "Surveymark Annotation Service",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	return app
}

// RegisterRoutes wires the v1 API onto the app using the given repo.
func RegisterRoutes(app *fiber.App, repo AnnotationRepo) {
	handler := NewAnnotationHandler(repo)

	v1 := app.Group("/api").Group("/v1")
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	v1.Put("/images/:imageId/annotations", handler.PutAnnotations)
	v1.Get("/images/:imageId/annotations", handler.GetAnnotations)
	v1.Delete("/images/:imageId/annotations", handler.DeleteAnnotations)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// StartServer listens on PORT, defaulting to 8080.
func StartServer(app *fiber.App) error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("server starting on port %s", port)
	return app.Listen(":" + port)
}
