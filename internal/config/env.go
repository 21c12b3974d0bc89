package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

var envFileNames = []string{".env", ".env.local"}

// loadEnvFiles loads .env/.env.local from dir into the process environment.
// Variables that are already set are never overridden.
func loadEnvFiles(dir string) error {
	var found []string
	for _, name := range envFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		found = append(found, p)
	}
	if len(found) == 0 {
		return errors.New("no .env file found")
	}
	if err := godotenv.Load(found...); err != nil {
		return err
	}
	for _, p := range found {
		slog.Debug("Loaded environment variables", "path", p)
	}
	return nil
}
