package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile applies .env and .env.local from the working directory, if present.
// Variables already set in the process environment are not overwritten.
func loadEnvFile() error {
	present := make([]string, 0, len(envFiles))
	for _, name := range envFiles {
		if _, err := os.Stat(name); err == nil {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load environment file: %w", err)
	}
	return nil
}
