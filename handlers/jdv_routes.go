// handlers/jdv_routes.go
package handlers

import (
	"jamdevientos-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupJDVRoutes exposes the read-only endpoints consumed by the public
// Jam de Vientos site.
func SetupJDVRoutes(app *fiber.App, jdvService *services.JDVService) {
	jdv := app.Group("/jdv")

	jdv.Get("/events", jdvService.ListPublicEvents)
	jdv.Get("/events/upcoming", jdvService.UpcomingEvents)
	jdv.Get("/events/carousel", jdvService.CarouselEvents)
	jdv.Get("/events/:id", jdvService.GetPublicEvent)
}
