package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/database"
	"github.com/shikshya/shikshya-backend/internal/logger"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// Interactive bootstrap for the first super-admin account. The password
// is read with echo off.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Admin name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Admin email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("read password")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("read password confirmation")
	}

	if name == "" || email == "" || len(password) == 0 {
		log.Fatal().Msg("name, email and password are all required")
	}
	if string(password) != string(confirm) {
		log.Fatal().Msg("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	admin := &model.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := repository.NewAdminRepository(pool).Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("create admin")
	}

	log.Info().Int("admin_id", admin.ID).Str("email", admin.Email).Msg("admin created")
}
