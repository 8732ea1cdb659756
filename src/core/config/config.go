package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func SetupEnv() {
	// Load environment variables from .env file; fall back to the process
	// environment when the file is not present (container deployments).
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Config returns the environment variable or defaults to empty string
func Config(key string) string {
	return os.Getenv(key)
}

// MustGet returns the environment variable or aborts startup when it is unset.
func MustGet(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s is not set in the environment variables", key)
	}
	return value
}
