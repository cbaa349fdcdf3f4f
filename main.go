package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"tutorlink_backend/internals/configs"
	database "tutorlink_backend/internals/databases"
	entsvc "tutorlink_backend/internals/features/tutoring/entitlements/service"
	authscheduler "tutorlink_backend/internals/features/users/auth/scheduler"
	"tutorlink_backend/internals/middlewares"
	"tutorlink_backend/internals/route"
	"tutorlink_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		AppName:     "TutorLink Backend",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.RunMigrations()
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnv("RUN_SEEDS") == "true" {
		seeds.RunAllSeeds(database.DB)
	}

	entsvc.InitMidtrans(configs.MidtransServerKey, configs.MidtransUseProd)
	authscheduler.StartAuthCleanupScheduler(database.DB)

	route.SetupRoutes(app, database.DB)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("[INFO] shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("[ERROR] shutdown: %v", err)
		}
	}()

	port := configs.GetEnv("PORT", "8080")
	log.Printf("[INFO] listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("[ERROR] server stopped: %v", err)
	}
}
