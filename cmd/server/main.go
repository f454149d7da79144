package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"portfolioboard/internal/app"
	"portfolioboard/internal/config"
	"portfolioboard/internal/handlers"
	"portfolioboard/internal/pipeline"
	"portfolioboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()

	src, closeSrc, err := app.OpenSource(cfg, logger)
	if err != nil {
		logger.Fatalf("source: %v", err)
	}
	defer closeSrc()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pipe := pipeline.New(app.PipelineOptions(cfg), logger)
	svc := service.NewDashboardService(src, pipe, service.NewMetrics(reg), logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// a failed first load is served as 503 until a later refresh succeeds
	if _, err := svc.Refresh(ctx); err != nil {
		logger.Warnf("initial load from %s failed: %v", src.Name(), err)
	}
	svc.Start(ctx, cfg.RefreshInterval)

	h := handlers.NewHandler(svc, logger)

	rg := gin.Default()
	rg.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	h.Register(rg)

	logger.Infof("server starting on :%s (source=%s, refresh=%s)", cfg.Port, src.Name(), cfg.RefreshInterval)
	if err := rg.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
