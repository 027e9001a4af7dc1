package config

import (
	stderrors "errors"
	"os"

	"github.com/joho/godotenv"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// envFiles are loaded in order; variables already set are never overridden.
var envFiles = []string{".env", ".env.local"}

// LoadEnv loads .env files from the working directory and returns the ones found.
func LoadEnv() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); stderrors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "load environment file").
				Fatal().
				WithContext("path", name).
				Build()
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}
