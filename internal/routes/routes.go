package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/events"
	"github.com/gamevault/gamevault/internal/identity"
	"github.com/gamevault/gamevault/internal/ledger"
	"github.com/gamevault/gamevault/internal/middleware"
	"github.com/gamevault/gamevault/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. DB, Cache
// and Publisher may be nil; in-memory or logging fallbacks are used then.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Publisher events.Publisher
	Logger    *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLog(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgres(d.DB)
	} else {
		store = ledger.NewMemory()
	}

	publisher := d.Publisher
	if publisher == nil {
		publisher = events.NewLoggerPublisher(d.Logger)
	}

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}

	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg)
	walletSvc := wallet.NewService(store, publisher)

	authHandler := auth.NewHandler(identitySvc, authSvc)
	walletHandler := wallet.NewHandler(walletSvc)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": d.Cfg.AppName + " backend running"})
	})

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(app, authHandler, rateLimiter)
	RegisterWalletRoutes(app, walletHandler)

	// Profile endpoint, the only token-protected route.
	jwtmw := middleware.JWTAuth(authSvc)
	app.Get("/me", jwtmw, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		})
	})

	return nil
}
