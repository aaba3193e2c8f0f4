package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; variables already present in the process
// environment are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFile() error {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
	}
	return nil
}
