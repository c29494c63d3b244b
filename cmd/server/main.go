package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docforge/document-extractor/api/handlers"
	"github.com/docforge/document-extractor/api/routes"
	"github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/capability"
	"github.com/docforge/document-extractor/internal/service/extraction"
	"github.com/docforge/document-extractor/internal/tables"
	"github.com/docforge/document-extractor/pkg/logger"
)

func main() {
	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Get()

	// probe backends once; a missing digital-text backend refuses startup
	caps, err := capability.Probe(cfg, log)
	if err != nil {
		log.Fatal("capability probe failed", logger.Error(err))
	}

	var tableDetector extraction.TableDetector
	if caps.Tables {
		tableDetector = tables.NewExtractor(log)
	}

	svc := extraction.NewService(caps, tableDetector, cfg, log)

	h := handlers.NewHandlers(svc, caps, cfg, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// start server
	go func() {
		log.Info("server starting", logger.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
	}
}
