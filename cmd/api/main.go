package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-papelaria-api/internal/config"
	"go-papelaria-api/internal/handler"
	"go-papelaria-api/internal/identity"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/internal/router"
	"go-papelaria-api/internal/service"
	"go-papelaria-api/internal/ws"
	"go-papelaria-api/pkg/database"
	"go-papelaria-api/pkg/jwt"
	"go-papelaria-api/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, log)
	if err != nil {
		log.Fatalf("Database unavailable: %v", err)
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, model.All()...); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(map[jwt.Kind]jwt.KeyConfig{
		jwt.KindAccess:   {Secret: cfg.JWT.AccessSecret, TTL: cfg.JWT.AccessTTL},
		jwt.KindRefresh:  {Secret: cfg.JWT.RefreshSecret, TTL: cfg.JWT.RefreshTTL},
		jwt.KindRecovery: {Secret: cfg.JWT.RecoverySecret, TTL: cfg.JWT.RecoveryTTL},
	})

	gw := repository.NewGateway(db)
	materialRepo := repository.NewMaterialRepo(gw)
	productRepo := repository.NewProductRepo(gw)
	linkRepo := repository.NewProductMaterialRepo(gw)
	saleRepo := repository.NewSaleRepo(gw)
	lineRepo := repository.NewSaleProductRepo(gw)
	userRepo := repository.NewUserRepo(db)

	composer := service.NewComposer(linkRepo, lineRepo, log)
	provider := identity.NewLocalProvider(userRepo, tokens, identity.LogNotifier{Log: log})

	authService := service.NewAuthService(provider, tokens, revocationStore(ctx, cfg.Redis, db, log), cfg.Auth.RedirectURL, log.WithField("component", "auth"))
	materialService := service.NewMaterialService(materialRepo, wsHub, log.WithField("component", "insumos"))
	productService := service.NewProductService(productRepo, linkRepo, materialRepo, composer, log.WithField("component", "produtos"))
	saleService := service.NewSaleService(service.SaleDeps{
		Sales:     saleRepo,
		Lines:     lineRepo,
		Products:  productRepo,
		Links:     linkRepo,
		Materials: materialRepo,
		Composer:  composer,
		Events:    wsHub,
	}, log.WithField("component", "vendas"))
	dashService := service.NewDashboardService(materialRepo, productRepo, saleRepo, cfg.Inventory.LowStockThreshold)

	// 5. Setup Fiber
	app := router.New(cfg, router.Deps{
		Auth:          handler.NewAuthHandler(authService),
		Materials:     handler.NewMaterialHandler(materialService),
		Products:      handler.NewProductHandler(productService),
		Sales:         handler.NewSaleHandler(saleService),
		Dashboard:     handler.NewDashboardHandler(dashService),
		Authenticator: authService,
		Hub:           wsHub,
		Log:           log,
	})

	// 6. Graceful Shutdown
	go func() {
		log.Infof("API rodando na porta %s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// revocationStore prefers Redis when REDIS_ADDR is set and reachable, and
// falls back to the revoked_tokens table otherwise.
func revocationStore(ctx context.Context, cfg config.RedisConfig, db *gorm.DB, log *logrus.Logger) repository.RevocationStore {
	if cfg.Addr == "" {
		return repository.NewGormRevocationStore(db)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Redis unavailable, keeping revoked tokens in the database")
		_ = client.Close()
		return repository.NewGormRevocationStore(db)
	}

	log.WithField("addr", cfg.Addr).Info("Token revocation backed by Redis")
	return repository.NewRedisRevocationStore(client)
}
