package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("QUIRK_TEST_STR", "hello")
	defer os.Unsetenv("QUIRK_TEST_STR")

	if got := GetEnv("QUIRK_TEST_STR", "fallback"); got != "hello" {
		t.Fatalf("expected hello got %v", got)
	}
	if got := GetEnv("QUIRK_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback got %v", got)
	}
}

func TestGetEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret")
	if err := os.WriteFile(path, []byte("from-file"), 0600); err != nil {
		t.Fatal(err)
	}

	os.Setenv("QUIRK_TEST_FROMFILE_FILE", path)
	defer os.Unsetenv("QUIRK_TEST_FROMFILE_FILE")

	if got := GetEnv("QUIRK_TEST_FROMFILE", "fallback"); got != "from-file" {
		t.Fatalf("expected from-file got %v", got)
	}
}

func TestGetEnvInt64(t *testing.T) {
	os.Setenv("QUIRK_TEST_SEED", "1234567890123")
	defer os.Unsetenv("QUIRK_TEST_SEED")

	if got := GetEnvInt64("QUIRK_TEST_SEED", 42); got != 1234567890123 {
		t.Fatalf("expected 1234567890123 got %v", got)
	}
	if got := GetEnvInt64("QUIRK_TEST_SEED_UNSET", 42); got != 42 {
		t.Fatalf("expected 42 got %v", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	os.Setenv("QUIRK_TEST_TTL", "5")
	defer os.Unsetenv("QUIRK_TEST_TTL")
	if got := GetEnvDuration("QUIRK_TEST_TTL", time.Minute); got != 5*time.Second {
		t.Fatalf("expected 5s got %v", got)
	}

	os.Setenv("QUIRK_TEST_TTL", "250ms")
	if got := GetEnvDuration("QUIRK_TEST_TTL", time.Minute); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms got %v", got)
	}

	if got := GetEnvDuration("QUIRK_TEST_TTL_UNSET", time.Minute); got != time.Minute {
		t.Fatalf("expected 1m got %v", got)
	}
}
