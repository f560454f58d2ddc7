package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/config"
	"github.com/giygas/coshh-api/data"
	"github.com/giygas/coshh-api/handlers"
	"github.com/giygas/coshh-api/health"
	"github.com/giygas/coshh-api/logging"
	"github.com/giygas/coshh-api/pubchem"
	"github.com/giygas/coshh-api/scheduler"
	"github.com/giygas/coshh-api/server"
	"github.com/giygas/coshh-api/validation"
	"github.com/joho/godotenv"
)

func init() {
	// Read .env from the working directory, falling back to the executable's
	// directory so relative template and log paths resolve there too
	if err := godotenv.Load(); err != nil {
		ex, err := os.Executable()
		if err != nil {
			slog.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		exPath := filepath.Dir(ex)
		if err := os.Chdir(exPath); err != nil {
			slog.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}
		_ = godotenv.Load()
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.InitLogger(logging.Options{
		Dir:            cfg.LogDir,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "failed to close log file:", err)
		}
	}()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"form_template", cfg.FormTemplatePath,
		"ticks_template", cfg.TicksTemplatePath,
		"template_reload", cfg.TemplateReload.String(),
		"max_records", cfg.MaxRecords,
	)

	templates := data.NewTemplateContainer()
	templates.SetServerStartTime(time.Now())

	reloader := scheduler.NewScheduler(templates, cfg.FormTemplatePath, cfg.TicksTemplatePath, cfg.TemplateReload)
	if err := reloader.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer reloader.Stop()

	handler := handlers.NewHTTPHandler(
		coshh.NewAssembler(templates),
		pubchem.NewClient(cfg.PubChemBaseURL, cfg.NCBIBaseURL, cfg.UpstreamTimeout),
		validation.NewInputValidator(cfg.MaxRecords),
		health.NewHealthChecker(templates, cfg.TemplateReload),
	)

	srv := server.NewServer(cfg, handler)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logging.Info("Received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
