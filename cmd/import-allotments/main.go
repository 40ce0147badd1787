package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/database"
	"github.com/stemsi/seatpredictor-backend/internal/logger"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/service"
	"github.com/stemsi/seatpredictor-backend/internal/spreadsheet"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "", "Path to the allotment .xlsx workbook")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: import-allotments -file allotments.xlsx")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, "seatpredictor-import", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open workbook")
	}
	defer f.Close()

	// ─── Import ────────────────────────────────────────────────────────
	uploads := service.NewUploadService(repository.NewAllotmentRepository(pool), log)
	res, err := uploads.Import(ctx, f)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnreadableWorkbook) {
			log.Fatal().Err(err).Str("file", path).Msg("Workbook could not be read; nothing was changed")
		}
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Println(res.Message)
}
