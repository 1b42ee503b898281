// handlers/event_routes.go
package handlers

import (
	"jamdevientos-api/middleware"
	"jamdevientos-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App, eventService *services.EventService) {
	// 🔓 Public reads
	app.Get("/events", eventService.ListEvents)
	app.Get("/events/:id", eventService.GetEvent)
	app.Get("/locations", eventService.ListLocations)
	app.Get("/repertoires", eventService.ListRepertoires)
	app.Get("/repertoires/:id", eventService.GetRepertoire)

	// 🔐 Secured writes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/events", eventService.CreateEvent)
	secured.Patch("/events/:id", eventService.UpdateEvent)
	secured.Delete("/events/:id", eventService.DeleteEvent)

	secured.Post("/locations", eventService.CreateLocation)
	secured.Post("/repertoires", eventService.CreateRepertoire)
}
