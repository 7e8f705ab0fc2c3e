package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"certificate-service/internal/config"
	"certificate-service/internal/handlers"
	"certificate-service/internal/lookup"
	"certificate-service/internal/mailer"
	"certificate-service/internal/render"
	"certificate-service/internal/ticket"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	lookupClient := lookup.New(cfg.CertAPIBaseURL, cfg.TemplateCacheTTL, cfg.CertCacheTTL)
	composer := render.NewComposer(cfg.AssetBaseURL)
	ticketComposer := ticket.NewComposer(cfg.SiteURL)
	mail := mailer.New(cfg.ResendAPIKey, cfg.MailFrom, log)

	app := fiber.New(fiber.Config{
		ServerHeader: "Certificate-Service",
		AppName:      "NIBOG Certificate Renderer v1.0.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    25 * 1024 * 1024, // QR images arrive inline as base64
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "NIBOG Certificate Renderer",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	h := handlers.New(lookupClient, composer, ticketComposer, mail, log)
	h.Register(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
			"path":  c.Path(),
		})
	})

	log.Info("certificate service starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
