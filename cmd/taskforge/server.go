package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/config"
	"github.com/davicafu/taskforge/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

// newRouter crea el engine de gin con correlation id, frontera de excepciones
// y, si hay orígenes, la política CORS.
func newRouter(cfg *config.Config, log *zap.Logger, corsOrigins []string) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.CorrelationID(),
		middleware.RequestLogger(log),
		middleware.Exception(log, cfg.IsDevelopment()),
	)
	if corsHandler := middleware.CORS(corsOrigins); corsHandler != nil {
		router.Use(corsHandler)
	}
	return router
}

// serve arranca el servidor y lo apaga de forma ordenada cuando ctx termina.
func serve(ctx context.Context, handler http.Handler, port int, log *zap.Logger) error {
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost"+server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("🛑 Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
