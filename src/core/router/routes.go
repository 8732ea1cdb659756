package router

import (
	"github.com/Fariz-ai/dev-events/src/core/middleware"
	"github.com/Fariz-ai/dev-events/src/modules/authentication"
	"github.com/Fariz-ai/dev-events/src/modules/bookings"
	"github.com/Fariz-ai/dev-events/src/modules/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func InitialiseAndSetupRoutes(app *fiber.App, eventHandler *events.Handler, bookingHandler *bookings.Handler, authHandler *authentication.Handler) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	apiV1 := root.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/signin", authHandler.SignIn)
	authGroup.Get("/me", middleware.Protected(), authHandler.GetMe)

	eventGroup := apiV1.Group("/events")
	eventGroup.Get("/", eventHandler.ListEvents)
	eventGroup.Post("/", middleware.Protected(), eventHandler.CreateEvent)
	// Registered before the :slug routes so "bookings" is not captured as a slug.
	eventGroup.Get("/bookings", eventHandler.ListEventsWithBookings)
	eventGroup.Get("/:slug", eventHandler.GetEventBySlug)
	eventGroup.Put("/:slug", middleware.Protected(), eventHandler.UpdateEvent)
	eventGroup.Delete("/:slug", middleware.Protected(), eventHandler.DeleteEvent)
	eventGroup.Post("/:slug/bookings", bookingHandler.CreateBooking)
	eventGroup.Get("/:slug/bookings", middleware.Protected(), bookingHandler.ListBookings)
}
