package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/medisetu/clinic-appointments/cache"
	"github.com/medisetu/clinic-appointments/config"
	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/cron"
	"github.com/medisetu/clinic-appointments/db"
	"github.com/medisetu/clinic-appointments/meet"
	"github.com/medisetu/clinic-appointments/notify"
	"github.com/medisetu/clinic-appointments/redis"
	"github.com/medisetu/clinic-appointments/routes"
	"github.com/medisetu/clinic-appointments/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db.Init(cfg.DatabaseURL)
	db.Migrate()
	db.SeedRolesAndPermissions()

	redis.InitRedis(cfg.RedisAddr)

	store := scheduler.NewGormStore(db.DB)
	guard := scheduler.NewGuard(store)
	slotCache := cache.NewSlotCache(redis.Client, cfg.SlotCacheTTL)

	// unconfigured senders stay nil so the outbox records the failure
	// instead of panicking mid-send
	var email notify.EmailSender
	if s := notify.NewGomailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass); s != nil {
		email = s
	}
	var whatsapp notify.WhatsAppSender
	if w := notify.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneID); w != nil {
		whatsapp = w
	}
	dispatcher := notify.NewDispatcher(db.DB, email, whatsapp)

	var provisioner meet.Provisioner
	if p := meet.NewHTTPProvisioner(cfg.MeetProvisionerURL, cfg.MeetProvisionerKey); p != nil {
		provisioner = p
	}

	loc := cfg.Location()
	controllers.Init(store, guard, slotCache, dispatcher, provisioner, loc)

	cron.StartCronJobs(dispatcher, provisioner, loc)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupRBACRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupAvailabilityRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupDoctorRoutes(app)

	log.Printf("✅ Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
