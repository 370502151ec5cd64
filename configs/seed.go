package configs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the back-office account on first boot. Skipped when
// the admin credentials are not configured.
func SeedAdmin(ctx context.Context, db *mongo.Database, cfg *Config, logger *logrus.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("skip seeding admin: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	users := db.Collection(UsersCollection)
	count, err := users.CountDocuments(ctx, bson.M{"email": cfg.AdminEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = users.InsertOne(ctx, bson.M{
		"name":      "Admin",
		"email":     cfg.AdminEmail,
		"password":  string(hash),
		"role":      "admin",
		"createdAt": now,
		"updatedAt": now,
	})
	if err != nil {
		return err
	}
	logger.WithField("email", cfg.AdminEmail).Info("admin user seeded")
	return nil
}
