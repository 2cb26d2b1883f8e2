package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mwhardin/probata/internal/config"
	estatesHandler "github.com/mwhardin/probata/internal/http/estates"
	jurisdictionsHandler "github.com/mwhardin/probata/internal/http/jurisdictions"
	"github.com/mwhardin/probata/internal/importer"
	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"

	probataHttp "github.com/mwhardin/probata/internal/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	table, err := rules.LoadFile(cfg.Rules.Path)
	if err != nil {
		slog.Error("failed to load jurisdiction rules", "path", cfg.Rules.Path, "error", err)
		os.Exit(1)
	}

	var (
		registry      = workflow.NewRegistry(table)
		importService = importer.NewService()
	)

	var (
		estatesH       = estatesHandler.NewHandler(registry, importService, cfg.Deadlines.LookaheadDays)
		jurisdictionsH = jurisdictionsHandler.NewHandler(table)
	)

	router := probataHttp.New(estatesH, jurisdictionsH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "jurisdictions", len(table.Jurisdictions()))

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
