package env

import (
	"testing"
)

func TestGetEnv_Precedence(t *testing.T) {
	old := Env
	defer func() { Env = old }()

	Env = map[string]string{"APP_PORT": "5000"}
	t.Setenv("APP_PORT", "6000")

	// The loaded .env map wins over the OS environment.
	if got := GetEnv("APP_PORT", "4000"); got != "5000" {
		t.Fatalf("expected 5000 from env map, got %s", got)
	}

	Env = nil
	if got := GetEnv("APP_PORT", "4000"); got != "6000" {
		t.Fatalf("expected 6000 from OS environment, got %s", got)
	}

	if got := GetEnv("UNSET_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback default, got %s", got)
	}
}

func TestIsDev(t *testing.T) {
	old := Env
	defer func() { Env = old }()

	Env = map[string]string{"APP_ENV": "dev"}
	if !IsDev() {
		t.Fatal("expected dev mode")
	}

	Env = map[string]string{}
	t.Setenv("APP_ENV", "")
	if IsDev() {
		t.Fatal("expected prod mode by default")
	}
}
