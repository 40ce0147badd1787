package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/database"
	"github.com/stemsi/seatpredictor-backend/internal/logger"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/service"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
	"golang.org/x/term"
)

// staffInput reuses the registration rules for the interactive prompt.
type staffInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, "seatpredictor-create-admin", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	// Token issuance is never reached here, so the refresh store stays nil.
	authService := service.NewAuthService(cfg, nil)
	adminService := service.NewAdminService(repository.NewAdminRepository(pool), authService)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Staff Admin ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')

	fmt.Print("Enter Email (optional): ")
	email, _ := reader.ReadString('\n')

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}

	in := staffInput{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: string(bytePassword),
	}
	if fields := validator.Check(in); fields != nil {
		for field, msg := range fields {
			fmt.Printf("Error: %s: %s\n", field, msg)
		}
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := adminService.CreateStaff(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			fmt.Printf("Error: username %q is already taken\n", in.Username)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Staff admin '%s' created with ID: %d\n", admin.Username, admin.ID)
}
