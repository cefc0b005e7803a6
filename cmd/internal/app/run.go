package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Run is the process entry point: load config, validate security policy,
// wire the app and serve until SIGINT/SIGTERM.
func Run() int {
	cfg := LoadConfig()
	log := NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := ValidateSecurityConfig(cfg); err != nil {
		log.Error("security configuration rejected", "error", err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err.Error())
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error("server exited with error", "error", err.Error())
		return 1
	}

	log.Info("server stopped")
	return 0
}
