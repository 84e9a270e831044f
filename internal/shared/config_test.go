package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./classificone.db" {
			t.Errorf("expected database path ./classificone.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Ledger.Backend != LedgerBackendSheets {
			t.Errorf("expected sheets ledger backend, got %s", config.Ledger.Backend)
		}

		if config.Ledger.Year != 2025 {
			t.Errorf("expected ledger year 2025, got %d", config.Ledger.Year)
		}

		if config.Bot.PollTimeout != 60 {
			t.Errorf("expected poll timeout 60, got %d", config.Bot.PollTimeout)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[bot]
token = "bot-token"
allowed_senders = ["111", "222"]

[spotify]
client_id = "test_client_id"
client_secret = "test_secret"
queue_id = "spotify:playlist:abc"

[ledger]
backend = "sqlite"
year = 2024

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if len(config.Bot.AllowedSenders) != 2 {
			t.Errorf("expected 2 allowed senders, got %d", len(config.Bot.AllowedSenders))
		}
		if config.Ledger.OperativeYear() != "2024" {
			t.Errorf("expected operative year 2024, got %s", config.Ledger.OperativeYear())
		}
		if config.Server.Port != 3000 {
			t.Errorf("unset values should keep defaults, got port %d", config.Server.Port)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		expiry := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		if err := config.Spotify.Update(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", Expiry: expiry}); err != nil {
			t.Fatalf("failed to update token: %v", err)
		}
		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		token := loaded.Spotify.Token()
		if token == nil {
			t.Fatal("expected token to round-trip")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected token %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Token Empty", func(t *testing.T) {
		if (SpotifyConfig{}).Token() != nil {
			t.Error("expected nil token when nothing is stored")
		}
	})

	t.Run("Update Keeps Refresh Token", func(t *testing.T) {
		cfg := SpotifyConfig{RefreshToken: "old-refresh"}
		if err := cfg.Update(&oauth2.Token{AccessToken: "new"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RefreshToken != "old-refresh" {
			t.Errorf("expected refresh token to be kept, got %q", cfg.RefreshToken)
		}
	})

	t.Run("Update Rejects Empty Token", func(t *testing.T) {
		cfg := SpotifyConfig{}
		if err := cfg.Update(&oauth2.Token{}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestLedgerConfig(t *testing.T) {
	tc := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "edit url", url: "https://docs.google.com/spreadsheets/d/1AbC-d_E/edit#gid=0", want: "1AbC-d_E"},
		{name: "bare id", url: "1AbC-d_E", want: "1AbC-d_E"},
		{name: "empty", url: "", wantErr: true},
		{name: "foreign url", url: "https://example.com/sheet", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LedgerConfig{URL: tt.url}.SpreadsheetID()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SpreadsheetID() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("LockTimeoutDuration Default", func(t *testing.T) {
		if got := (LedgerConfig{}).LockTimeoutDuration(); got != 10*time.Second {
			t.Errorf("expected 10s default, got %v", got)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.Ledger.URL = "https://docs.google.com/spreadsheets/d/sheet123/edit"
		c.Spotify.QueueID = "spotify:playlist:abc"
		return c
	}

	t.Run("Valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Fatalf("expected valid config, got %v", err)
		}
	})

	t.Run("Bad Year", func(t *testing.T) {
		c := valid()
		c.Ledger.Year = 25
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		c := valid()
		c.Ledger.Backend = "excel"
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Missing Queue", func(t *testing.T) {
		c := valid()
		c.Spotify.QueueID = " "
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestEnv(t *testing.T) {
	t.Run("LoadEnv Skips Missing Files", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected missing env file to be skipped, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("CLASSIFICONE_TEST_KEY=from-file\n"), 0600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("CLASSIFICONE_TEST_KEY") })

		if err := LoadEnv(envPath); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv("CLASSIFICONE_TEST_KEY"); got != "from-file" {
			t.Errorf("expected env value from file, got %q", got)
		}

		t.Setenv("SPOTIFY_ID", "env-id")
		t.Setenv("TELEGRAM_TOKEN", "env-token")

		c := DefaultConfig()
		c.ApplyEnv()

		if c.Spotify.ClientID != "env-id" {
			t.Errorf("expected client id from env, got %s", c.Spotify.ClientID)
		}
		if c.Bot.Token != "env-token" {
			t.Errorf("expected bot token from env, got %s", c.Bot.Token)
		}
	})

	t.Run("IsAllowed", func(t *testing.T) {
		b := BotConfig{AllowedSenders: []string{" 42", "7"}}
		if !b.IsAllowed("42") || !b.IsAllowed("7") {
			t.Error("expected listed senders to be allowed")
		}
		if b.IsAllowed("8") {
			t.Error("expected unlisted sender to be rejected")
		}
	})
}
