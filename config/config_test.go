package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every override so defaults are observable regardless of
// the machine running the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_TOKEN", "BOT_USERNAME", "ACCOUNTBOT_STORE", "ACCOUNTBOT_DB",
		"ACCOUNTBOT_DYNAMO_TABLE", "AWS_REGION", "ACCOUNTBOT_DYNAMO_ENDPOINT",
		"ACCOUNTBOT_CURRENCY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Store.Backend != "bolt" {
		t.Errorf("Backend = %q, want bolt", c.Store.Backend)
	}
	if c.Store.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", c.Store.Region)
	}
	if c.Store.Path == "" {
		t.Error("Path is empty, want a default store file")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	confPath := filepath.Join(t.TempDir(), "accountbot.yaml")
	data := []byte(`telegram:
  token: file-token
  username: FileBot
store:
  backend: memory
currency: GHS
`)
	if err := os.WriteFile(confPath, data, 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	c, err := Load(confPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Telegram.Token != "file-token" {
		t.Errorf("Token = %q, want file-token", c.Telegram.Token)
	}
	if c.Store.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", c.Store.Backend)
	}
	if c.Currency != "GHS" {
		t.Errorf("Currency = %q, want GHS", c.Currency)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	confPath := filepath.Join(t.TempDir(), "accountbot.yaml")
	if err := os.WriteFile(confPath, []byte("currency: GHS\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("ACCOUNTBOT_CURRENCY", "KES")
	t.Setenv("BOT_USERNAME", "@EnvBot")

	c, err := Load(confPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Currency != "KES" {
		t.Errorf("Currency = %q, want env override KES", c.Currency)
	}
	if c.Telegram.Username != "EnvBot" {
		t.Errorf("Username = %q, want EnvBot without the @", c.Telegram.Username)
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("Load(missing file) = %v, want nil", err)
	}
}

func TestMalformedFileFails(t *testing.T) {
	clearEnv(t)
	confPath := filepath.Join(t.TempDir(), "accountbot.yaml")
	if err := os.WriteFile(confPath, []byte("telegram: ["), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(confPath); err == nil {
		t.Error("Load(malformed yaml) = nil, want parse error")
	}
}
