// Package testutils holds helpers shared by tests across packages.
package testutils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/profiledesk/internal/config"
)

// ConfigForTests applies the variables from .env.test at the project root,
// when that file exists, and returns the resulting configuration. Values
// already exported in the environment win over the file.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("failed to load .env.test file: %v", err)
	}
	for key, value := range env {
		if _, set := os.LookupEnv(key); !set {
			t.Setenv(key, value)
		}
	}

	return config.FromEnv()
}

// RequireIntegration skips t in short mode or when envKey is unset after
// loading .env.test. It returns the test configuration.
func RequireIntegration(t *testing.T, envKey string) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cfg := ConfigForTests(t)
	if os.Getenv(envKey) == "" {
		t.Skipf("%s not set; skipping integration test", envKey)
	}
	return cfg
}
