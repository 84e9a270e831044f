package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([A-Za-z0-9_-]+)`)

const (
	LedgerBackendSheets = "sheets"
	LedgerBackendSQLite = "sqlite"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Bot      BotConfig      `toml:"bot"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// BotConfig contains the chat transport settings.
type BotConfig struct {
	Token          string   `toml:"token"`
	AllowedSenders []string `toml:"allowed_senders"`
	PollTimeout    int      `toml:"poll_timeout"`
}

// SpotifyConfig contains Spotify API credentials, the persisted user token and the queue playlist.
type SpotifyConfig struct {
	ClientID          string    `toml:"client_id"`
	ClientSecret      string    `toml:"client_secret"`
	RedirectURI       string    `toml:"redirect_uri"`
	AccessToken       string    `toml:"access_token"`
	RefreshToken      string    `toml:"refresh_token"`
	TokenType         string    `toml:"token_type"`
	TokenExpiry       time.Time `toml:"token_expiry"`
	QueueID           string    `toml:"queue_id"`
	RequestsPerSecond float64   `toml:"requests_per_second"`
}

// LedgerConfig contains the ledger document location and write policy.
type LedgerConfig struct {
	Backend          string `toml:"backend"`
	URL              string `toml:"url"`
	CredentialsFile  string `toml:"credentials_file"`
	Year             int    `toml:"year"`
	LockDir          string `toml:"lock_dir"`
	LockTimeout      int    `toml:"lock_timeout"`
	SandboxPartition string `toml:"sandbox_partition"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Token returns the persisted user token, or nil when none has been stored.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.TokenExpiry,
	}
}

// Update stores token in the config. The refresh token is kept when the new token omits it.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenType = token.TokenType
	s.TokenExpiry = token.Expiry
	return nil
}

// OperativeYear returns the configured target year as a 4-digit string.
func (l LedgerConfig) OperativeYear() string {
	return strconv.Itoa(l.Year)
}

// LockTimeoutDuration returns the ledger lock wait, defaulting to 10 seconds.
func (l LedgerConfig) LockTimeoutDuration() time.Duration {
	if l.LockTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(l.LockTimeout) * time.Second
}

// SpreadsheetID extracts the document ID from the ledger URL. A bare ID is returned unchanged.
func (l LedgerConfig) SpreadsheetID() (string, error) {
	u := strings.TrimSpace(l.URL)
	if u == "" {
		return "", fmt.Errorf("%w: ledger url is empty", ErrInvalidConfig)
	}
	if m := spreadsheetIDPattern.FindStringSubmatch(u); m != nil {
		return m[1], nil
	}
	if strings.ContainsAny(u, "/:") {
		return "", fmt.Errorf("%w: cannot find spreadsheet id in %q", ErrInvalidConfig, u)
	}
	return u, nil
}

// Validate checks the settings needed by the intake pipeline.
func (c *Config) Validate() error {
	if c.Ledger.Year < 1000 || c.Ledger.Year > 9999 {
		return fmt.Errorf("%w: ledger.year must be a 4-digit year, got %d", ErrInvalidConfig, c.Ledger.Year)
	}

	switch c.Ledger.Backend {
	case LedgerBackendSheets:
		if _, err := c.Ledger.SpreadsheetID(); err != nil {
			return err
		}
	case LedgerBackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for the sqlite ledger", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown ledger backend %q", ErrInvalidConfig, c.Ledger.Backend)
	}

	if strings.TrimSpace(c.Spotify.QueueID) == "" {
		return fmt.Errorf("%w: spotify.queue_id is required", ErrInvalidConfig)
	}

	return nil
}

// IsAllowed reports whether senderID is on the allow-list.
func (b BotConfig) IsAllowed(senderID string) bool {
	for _, id := range b.AllowedSenders {
		if strings.TrimSpace(id) == senderID {
			return true
		}
	}
	return false
}

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process environment.
// Missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides secrets with SPOTIFY_ID, SPOTIFY_SECRET and TELEGRAM_TOKEN when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SPOTIFY_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Bot.Token = v
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes config to path as TOML, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
