package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvDBPath  = "CODETYPE_DB"
	EnvLogPath = "CODETYPE_LOG"
	EnvUser    = "CODETYPE_USER"
)

// LoadEnv loads variables from a .env file when one exists. Variables that
// are already set are left untouched.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultUser resolves the local user key: CODETYPE_USER, then the login
// name, then "default".
func DefaultUser() string {
	for _, key := range []string{EnvUser, "USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "default"
}
