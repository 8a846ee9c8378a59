// Command seed creates the default user accounts. It is idempotent: accounts
// whose email already exists are skipped.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/infrastructure/config"
	mongodb "github.com/workflowlive/request-tracker/internal/infrastructure/db/mongo"
	"github.com/workflowlive/request-tracker/pkg/logger"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var seedUsers = []seedUser{
	{Name: "Super Admin", Email: "super@flow.com", Password: "password123", Role: domain.RoleSuperAdmin},
	{Name: "Admin User", Email: "admin@flow.com", Password: "password123", Role: domain.RoleAdmin},
	{Name: "Standard User", Email: "user@flow.com", Password: "password123", Role: domain.RoleUser},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := mongodb.NewAuthRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}

	for _, u := range seedUsers {
		if _, err := repo.FindByEmail(ctx, u.Email); err == nil {
			log.Info().Str("email", u.Email).Msg("user already exists")
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			log.Fatal().Err(err).Str("email", u.Email).Msg("lookup failed")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hashing failed")
		}

		if _, err := repo.Create(ctx, &domain.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("create failed")
		}
		log.Info().Str("email", u.Email).Str("role", u.Role).Msg("user created")
	}

	log.Info().Msg("seeding completed")
}
