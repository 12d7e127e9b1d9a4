package utils

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

// LoadConfig reads configuration from the environment, after loading a
// local .env file if one exists (missing .env is not an error).
func LoadConfig() Config {
	_ = godotenv.Load()

	addr := os.Getenv("NOVELHUB_ADDR")
	if addr == "" {
		addr = ":3001"
	}

	secret := os.Getenv("NOVELHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("NOVELHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "novelhub"
	}

	return Config{
		Addr:        addr,
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: 24 * time.Hour,
	}
}
