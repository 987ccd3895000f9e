package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/config"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/events"
	"github.com/deputyJo/ironcart-backend/internal/http/handlers"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/repos"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Order events are published only when a broker is configured.
	var sink services.OrderEventSink
	if cfg.KafkaBroker != "" {
		pub := events.NewPublisher([]string{cfg.KafkaBroker})
		defer pub.Close()
		sink = pub
	}

	deps := handlers.NewDeps(db, cfg, sink)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.Handler(cfg.Production()),
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// Provider retries must never be throttled.
			return c.Path() == "/webhook"
		},
	}))

	requireAuth := handlers.RequireAuth(deps.Tokens)
	adminOnly := handlers.RequireRoles(domain.RoleAdmin)
	sellerOrAdmin := handlers.RequireRoles(domain.RoleSeller, domain.RoleAdmin)
	customerOnly := handlers.RequireRoles(domain.RoleCustomer)

	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})

	// ---------- Users & auth ----------
	app.Post("/users/register", authLimiter, deps.UserHandler.Register)
	app.Get("/users/verify/:token", deps.UserHandler.Verify)

	sessionLimiter := limiter.New(limiter.Config{Max: 30, Expiration: time.Minute})

	app.Post("/auth/login", authLimiter, deps.AuthHandler.Login)
	app.Post("/auth/refresh", sessionLimiter, deps.AuthHandler.Refresh)
	app.Post("/auth/logout", sessionLimiter, deps.AuthHandler.Logout)

	// ---------- Catalog ----------
	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/my-products", requireAuth, sellerOrAdmin, deps.ProductHandler.Mine)
	app.Get("/products/seller/:sellerId", deps.ProductHandler.BySeller)
	app.Get("/products/:id", deps.ProductHandler.Get)
	app.Post("/products", requireAuth, sellerOrAdmin, deps.ProductHandler.Create)
	app.Put("/products/:id", requireAuth, sellerOrAdmin, deps.ProductHandler.Update)
	app.Delete("/products/:id", requireAuth, sellerOrAdmin, deps.ProductHandler.Delete)

	// ---------- Cart & orders ----------
	app.Post("/cart/add", requireAuth, deps.CartHandler.Add)
	app.Get("/cart", requireAuth, deps.CartHandler.View)

	app.Post("/orders/checkout", requireAuth, customerOnly, deps.OrderHandler.Checkout)
	app.Get("/orders/my-orders", requireAuth, customerOnly, deps.OrderHandler.Mine)
	app.Get("/orders", requireAuth, sellerOrAdmin, deps.OrderHandler.All)
	app.Put("/orders/:orderId/status", requireAuth, adminOnly, deps.OrderHandler.UpdateStatus)

	// ---------- Payments ----------
	app.Post("/payment/create-session", requireAuth, deps.PaymentHandler.CreateSession)
	app.Post("/payment/paypal-create-order", requireAuth, deps.PaymentHandler.PayPalCreate)
	app.Post("/payment/paypal-capture-order", requireAuth, deps.PaymentHandler.PayPalCapture)
	app.Post("/webhook", deps.WebhookHandler.Stripe)

	// ---------- Admin ----------
	admin := app.Group("/admin", requireAuth, adminOnly)
	admin.Get("/all-users", deps.AdminHandler.AllUsers)
	admin.Get("/all-orders", deps.AdminHandler.AllOrders)
	admin.Get("/all-products", deps.AdminHandler.AllProducts)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	go purgeUnverified(deps.Users)

	log.Fatal(app.Listen(":" + cfg.Port))
}

// purgeUnverified removes accounts that never verified within 24 hours so
// abandoned registrations do not squat an email address.
func purgeUnverified(users *repos.UserRepo) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().UTC().Add(-24 * time.Hour).Format("2006-01-02 15:04:05")
		n, err := users.PurgeUnverified(cutoff)
		if err != nil {
			log.Printf("[purge] unverified cleanup failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("[purge] removed %d unverified accounts", n)
		}
	}
}
