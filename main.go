package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/designxpo/PoonamCosmetics-sub001/configs"
	"github.com/designxpo/PoonamCosmetics-sub001/middlewares"
	"github.com/designxpo/PoonamCosmetics-sub001/routes"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	ctx := context.Background()
	client, db, err := configs.ConnectDB(ctx, cfg)
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			logger.Errorf("disconnect database: %v", err)
		}
	}()
	logger.Info("database connection established")

	if err := configs.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("ensure indexes: %v", err)
	}
	if err := configs.SeedAdmin(ctx, db, cfg, logger); err != nil {
		logger.Fatalf("seed admin: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	routes.RegisterRoutes(r, db, cfg, logger)

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
