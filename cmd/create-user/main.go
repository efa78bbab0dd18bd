// CLI tool to create a user with a bcrypt-hashed password and an empty profile row.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"lg/fastfood-nutrition-api/internal/config"
	"lg/fastfood-nutrition-api/internal/goals"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label + ": ")
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	username := prompt("Username")
	firstName := prompt("First name")
	lastName := prompt("Last name")
	email := prompt("Email")
	birthday, err := goals.ParseBirthday(prompt("Birthday (YYYY-MM-DD)"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	password := prompt("Password")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	authToken := uuid.New().String()

	var userID int
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (username, first_name, last_name, email, birthday, password, auth_token)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			username, firstName, lastName, email, birthday, string(hash), authToken,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1)`, userID); err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}
