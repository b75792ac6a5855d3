package main

import (
	"context"
	"fmt"

	"stockledger/internal/app"
	"stockledger/internal/config"
	"stockledger/internal/handlers"
	"stockledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer deps.Close()

	if deps.Prices != nil {
		refresher := service.NewRefresher(deps.Repo, deps.Prices, logger)
		if err := refresher.Start(ctx, cfg.PriceUpdateSchedule); err != nil {
			logger.Fatalf("price refresher: %v", err)
		}
	}

	h := handlers.NewHandler(deps.Store, deps.Oracle, logger)

	rg := gin.Default()
	rg.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	h.Register(rg)

	logger.Infof("server starting on :%s (store %s)", cfg.Port, cfg.Backend)
	if err := rg.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
