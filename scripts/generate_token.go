package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/service"
)

// Mints an operator token without a database round trip, for curl and the
// swagger UI during local development.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Define command line flags
	userID := flag.String("user", "", "User ID for the token")
	email := flag.String("email", cfg.OperatorEmail, "Email claim")
	role := flag.String("role", string(domain.RoleOperator), "Role claim (operator, anon)")
	expirationHours := flag.Int("exp", cfg.JWTExpirationHours, "Token expiration in hours")
	flag.Parse()

	if *userID == "" {
		log.Fatal("User ID is required")
	}
	if !domain.IsValidRole(*role) {
		log.Fatalf("Unknown role %q", *role)
	}
	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	user := &domain.User{ID: *userID, Email: *email, Role: domain.Role(*role)}
	token, err := service.IssueToken([]byte(cfg.JWTSecretKey), user, time.Now(), time.Duration(*expirationHours)*time.Hour)
	if err != nil {
		log.Fatalf("Error signing token: %v", err)
	}

	fmt.Printf("Generated JWT Token:\n%s\n", token)
}
