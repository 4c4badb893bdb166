package routes

import (
	"time"

	"github.com/charmcard/charm-backend/internal/config"
	"github.com/charmcard/charm-backend/internal/handlers"
	"github.com/charmcard/charm-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Setup mounts the whole API under /charm.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	cardHandler *handlers.CardHandler,
	scanHandler *handlers.ScanHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	contactHandler *handlers.ContactHandler,
	healthHandler *handlers.HealthHandler,
) {
	charm := app.Group("/charm")

	// General API rate limiter: 120 req/min per IP
	charm.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	charm.Get("/health", healthHandler.Check)

	// Auth — public, stricter limit: 10 req/min per IP
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	charm.Post("/register", authLimit, authHandler.Register)
	charm.Post("/login", authLimit, authHandler.Login)
	charm.Post("/forgot", authLimit, authHandler.ForgotPassword)
	charm.Post("/reset", authLimit, authHandler.ResetPassword)

	// Scan ingestion — public and unauthenticated, so it gets its own
	// limiter: 30 req/min per IP.
	trackLimit := limiter.New(limiter.Config{
		Max:               30,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	charm.Post("/track/:id", trackLimit, scanHandler.Track)

	// Public card surface (QR landing)
	charm.Get("/cards/:id/public", cardHandler.GetPublic)
	charm.Get("/cards/:id/qr", cardHandler.QR)
	charm.Get("/cards/:id/vcf", cardHandler.VCF)

	// Public contact surface
	charm.Post("/complain", contactHandler.SubmitComplaint)
	charm.Post("/feedback", contactHandler.SubmitFeedback)

	// Authenticated user surface
	jwt := middleware.JWTProtected(cfg)

	charm.Get("/profile", jwt, authHandler.GetProfile)
	charm.Put("/profile", jwt, authHandler.UpdateProfile)
	charm.Put("/password", jwt, authHandler.ChangePassword)
	charm.Post("/avatar", jwt, authHandler.UploadAvatar)
	charm.Delete("/avatar", jwt, authHandler.RemoveAvatar)
	charm.Delete("/account", jwt, authHandler.DeleteAccount)

	charm.Post("/cards", jwt, cardHandler.Create)
	charm.Get("/cards", jwt, cardHandler.ListMine)
	charm.Get("/cards/:id", jwt, cardHandler.Get)
	charm.Put("/cards/:id", jwt, cardHandler.Update)
	charm.Delete("/cards/:id", jwt, cardHandler.Delete)

	charm.Get("/scans", jwt, scanHandler.MyLogs)
	charm.Get("/scans/:id", jwt, scanHandler.CardLogs)

	charm.Get("/notifications", jwt, notificationHandler.List)
	charm.Get("/notifications/unread", jwt, notificationHandler.UnreadCount)
	charm.Put("/notifications/read-all", jwt, notificationHandler.MarkAllRead)
	charm.Put("/notifications/:id/read", jwt, notificationHandler.MarkRead)
	charm.Delete("/notifications", jwt, notificationHandler.DeleteAll)
	charm.Delete("/notifications/:id", jwt, notificationHandler.Delete)

	// Admin surface (supa + staff)
	admin := charm.Group("/admin", jwt, middleware.AdminRequired(db))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/cards", adminHandler.ListCards)
	admin.Get("/scans", adminHandler.ListScans)
	admin.Get("/scans/:id", adminHandler.ListCardScans)
	admin.Get("/complaints", contactHandler.ListComplaints)
	admin.Get("/feedback", contactHandler.ListFeedback)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	charm.Put("/bills/:id", jwt, middleware.AdminRequired(db), adminHandler.UpdateBills)

	// Staff management (supa only)
	staff := charm.Group("/admin/staff", jwt, middleware.SuperRequired(db))
	staff.Get("/", adminHandler.ListStaff)
	staff.Post("/", adminHandler.CreateStaff)
	staff.Delete("/:id", adminHandler.DeleteStaff)
}
