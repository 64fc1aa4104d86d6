package router

import (
	"strings"

	"go-papelaria-api/internal/config"
	"go-papelaria-api/internal/handler"
	"go-papelaria-api/internal/middleware"
	"go-papelaria-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Auth      *handler.AuthHandler
	Materials *handler.MaterialHandler
	Products  *handler.ProductHandler
	Sales     *handler.SaleHandler
	Dashboard *handler.DashboardHandler

	Authenticator middleware.Authenticator
	Hub           *ws.Hub
	Log           logrus.FieldLogger
}

func New(cfg *config.Config, d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
		AllowMethods:     "GET,HEAD,PUT,PATCH,POST,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: false,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "API está rodando!"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ============ PUBLIC ROUTES ============
	limiter := middleware.PerMinute(cfg.Auth.RateLimitPerMin, cfg.Auth.RateLimitBurst)
	auth := app.Group("/auth", limiter.Middleware())
	auth.Post("/login", d.Auth.Login)
	auth.Post("/signup", d.Auth.Signup)
	auth.Post("/refresh", d.Auth.Refresh)
	auth.Post("/logout", d.Auth.Logout)
	auth.Post("/reset-password", d.Auth.ResetPassword)
	auth.Post("/update-password", d.Auth.UpdatePassword)
	auth.Post("/validate-token", d.Auth.ValidateToken)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, middleware.RequireQueryToken(d.Authenticator))
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		d.Hub.Register(c, userID)
		defer d.Hub.Unregister(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// ============ PROTECTED ROUTES ============
	protected := app.Group("", middleware.RequireAuth(d.Authenticator))

	protected.Get("/insumos", d.Materials.List)
	protected.Post("/insumos", d.Materials.Create)
	protected.Get("/insumos/:id", d.Materials.Get)
	protected.Put("/insumos/:id", d.Materials.Update)
	protected.Delete("/insumos/:id", d.Materials.Delete)

	protected.Get("/produtos", d.Products.List)
	protected.Post("/produtos", d.Products.Create)
	protected.Get("/produtos/:id", d.Products.Get)
	protected.Put("/produtos/:id", d.Products.Update)
	protected.Delete("/produtos/:id", d.Products.Delete)

	protected.Get("/vendas", d.Sales.List)
	protected.Post("/vendas", d.Sales.Create)
	protected.Get("/vendas/:id", d.Sales.Get)
	protected.Put("/vendas/:id", d.Sales.Update)

	protected.Get("/dashboard/stats", d.Dashboard.GetDashboardStats)

	return app
}
