package main

import (
	"context"
	"flag"

	"go-papelaria-api/internal/config"
	"go-papelaria-api/internal/identity"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/pkg/database"
	"go-papelaria-api/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Operator tool: sets a user's password directly, bypassing the recovery link.
func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "new password")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)

	if *email == "" || *password == "" {
		log.Fatal("usage: reset-password -email <email> -password <new password>")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, log)
	if err != nil {
		log.Fatalf("Database unavailable: %v", err)
	}
	defer database.Close(db)

	// 3. Find user
	ctx := context.Background()
	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(ctx, identity.NormalizeEmail(*email))
	if err != nil {
		log.Fatalf("User %s not found: %v", *email, err)
	}

	// 4. Update through the provider so the password rules apply
	provider := identity.NewLocalProvider(users, nil, identity.LogNotifier{Log: log})
	if err := provider.UpdatePassword(ctx, user.ID.String(), *password); err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	log.WithField("email", user.Email).Info("Password reset")
}
