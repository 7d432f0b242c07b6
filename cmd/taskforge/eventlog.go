package main

import (
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/config"
	eventlogApp "github.com/davicafu/taskforge/internal/eventlog/application"
	eventlogHttp "github.com/davicafu/taskforge/internal/eventlog/infra/inbound/http"
	"github.com/davicafu/taskforge/internal/shared/infra/system"
)

func runEventLog(c *cli.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := eventlogApp.NewEventLogger(log)

	router := newRouter(cfg, log, nil)
	eventlogHttp.RegisterEventRoutes(router, eventlogHttp.NewEventsHandler(logger, log))
	system.RegisterHealth(router, "eventlog")

	return serve(ctx, router, cfg.EventLog.Port, log)
}
