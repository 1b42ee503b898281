package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jamdevientos-api/handlers"
	"jamdevientos-api/middleware"
	"jamdevientos-api/models"
	"jamdevientos-api/services"
	"jamdevientos-api/utils"
	"jamdevientos-api/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // 100MB, sheet music PDFs and audio
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Theme{},
		&models.Instrument{},
		&models.Version{},
		&models.SheetMusic{},
		&models.VersionFile{},
		&models.UserProfile{},
		&models.Lesson{},
		&models.Exercise{},
		&models.LessonProgress{},
		&models.ExerciseAttempt{},
		&models.Challenge{},
		&models.ChallengeNote{},
		&models.UserChallengeProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Location{},
		&models.Repertoire{},
		&models.RepertoireVersion{},
		&models.Event{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedDefaults(db); err != nil {
		log.Fatal("failed to seed default badges and achievements:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	webhooks := workers.NewWebhookDispatcher()

	lessonService := services.NewLessonService(db)
	challengeService := services.NewChallengeService(db)
	badgeService := services.NewBadgeService(db)
	achievementService := services.NewAchievementService(db)
	musicService := services.NewMusicService(db, webhooks)
	eventService := services.NewEventService(db, webhooks)
	jdvService := services.NewJDVService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go webhooks.Run(ctx)

	eventService.StartEventScheduler()

	// ✅ Setup routes — all behind enforced Gateway auth
	handlers.SetupLearningRoutes(app, lessonService, challengeService, badgeService, achievementService)
	handlers.SetupMusicRoutes(app, musicService)
	handlers.SetupEventRoutes(app, eventService)
	handlers.SetupJDVRoutes(app, jdvService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Webhook dispatcher running")
	log.Println("✅ Event scheduler running (every 5m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
