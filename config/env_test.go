package config

import (
	"os"
	"path/filepath"
	"testing"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	unsetEnv(t, "FUNAI_TEST_FROM_FILE")
	t.Setenv("FUNAI_TEST_FROM_SHELL", "shell")

	path := filepath.Join(t.TempDir(), ".env")
	raw := "FUNAI_TEST_FROM_FILE=file\nFUNAI_TEST_FROM_SHELL=file\n"
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("FUNAI_TEST_FROM_FILE") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("FUNAI_TEST_FROM_FILE"); got != "file" {
		t.Errorf("FUNAI_TEST_FROM_FILE = %q, want file", got)
	}
	if got := os.Getenv("FUNAI_TEST_FROM_SHELL"); got != "shell" {
		t.Errorf("FUNAI_TEST_FROM_SHELL = %q, shell value should win", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v, want nil for a missing file", err)
	}
}
