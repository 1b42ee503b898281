// handlers/music_routes.go
package handlers

import (
	"jamdevientos-api/middleware"
	"jamdevientos-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMusicRoutes(app *fiber.App, musicService *services.MusicService) {
	// 🔓 Public reads — no user context, but still behind Gateway auth
	app.Get("/themes", musicService.ListThemes)
	app.Get("/themes/:id", musicService.GetTheme)
	app.Get("/instruments", musicService.ListInstruments)
	app.Get("/versions/:id", musicService.GetVersion)
	app.Get("/versions/:id/file-for-instrument", musicService.FileForInstrument)

	// 🔐 Secured writes — require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/themes", musicService.CreateTheme)
	secured.Patch("/themes/:id", musicService.UpdateTheme)
	secured.Delete("/themes/:id", musicService.DeleteTheme)

	secured.Post("/instruments", musicService.CreateInstrument)
	secured.Delete("/instruments/:id", musicService.DeleteInstrument)

	secured.Post("/themes/:themeId/versions", musicService.CreateVersion)
	secured.Delete("/versions/:id", musicService.DeleteVersion)

	secured.Post("/versions/:versionId/sheet-music", musicService.CreateSheetMusic)
	secured.Delete("/sheet-music/:id", musicService.DeleteSheetMusic)

	secured.Post("/versions/:versionId/files", musicService.CreateVersionFile)
}
