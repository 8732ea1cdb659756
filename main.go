package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/Fariz-ai/dev-events/src/core/config"
	"github.com/Fariz-ai/dev-events/src/core/database"
	"github.com/Fariz-ai/dev-events/src/core/router"
	"github.com/Fariz-ai/dev-events/src/modules/authentication"
	"github.com/Fariz-ai/dev-events/src/modules/bookings"
	"github.com/Fariz-ai/dev-events/src/modules/events"
	"github.com/Fariz-ai/dev-events/src/utils"
)

func main() {
	// Initialize the Fiber app. The body limit leaves headroom above the 5MB
	// image ceiling enforced per file in the handlers.
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())   // Recover middleware to handle panics
	app.Use(cors.New())      // CORS middleware for cross-origin requests
	app.Use(requestid.New()) // Middleware to generate unique request IDs

	// Setup environment variables
	config.SetupEnv()

	// Connect to the database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close(db)

	// Initialize the image store
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		log.Fatalf("Error initializing storage client: %v", err)
	}
	imageStore := utils.NewImageStore(storageClient, bucketName)

	// Set up routes
	router.InitialiseAndSetupRoutes(app,
		events.NewHandler(db, imageStore),
		bookings.NewHandler(db),
		authentication.NewHandler(db),
	)

	// Shut down gracefully on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v\n", err)
		}
	}()

	// Get port from config and start the server
	port := config.Config("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatal(err)
	}
}
