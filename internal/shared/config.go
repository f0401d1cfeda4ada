package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

//go:embed config.example.toml
var exampleConf []byte

// ConfigFileName is the name looked up in the working directory and the XDG config dir.
const ConfigFileName = "config.toml"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Library LibraryConfig `toml:"library"`
	Source  SourceConfig  `toml:"source"`
	Search  SearchConfig  `toml:"search"`
	Player  PlayerConfig  `toml:"player"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	Prefix    string  `toml:"prefix"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// LibraryConfig lists the directories scanned for audio files.
type LibraryConfig struct {
	Paths            []string `toml:"paths"`
	RefreshInterval  Duration `toml:"refresh_interval"`
	BootstrapTimeout Duration `toml:"bootstrap_timeout"`
}

// SourceConfig points the client pipeline at a metadata endpoint.
type SourceConfig struct {
	MetaURL string   `toml:"meta_url"`
	Token   string   `toml:"token"`
	Timeout Duration `toml:"timeout"`
}

// SearchConfig selects the indexing engine.
type SearchConfig struct {
	Engine   string `toml:"engine"`
	Database string `toml:"database"`
}

// PlayerConfig holds settings handed to the playback widget.
type PlayerConfig struct {
	DownloadPrefix string `toml:"download_prefix"`
	CoverArtURL    string `toml:"cover_art_url"`
	Debug          bool   `toml:"debug"`
	SampleRate     int    `toml:"sample_rate"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Addr returns the host:port pair the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads a TOML configuration file from the specified path and overlays it on [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports settings that would make the server or pipeline misbehave.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: negative rate_limit", ErrInvalidConfig)
	}
	if c.Player.SampleRate < 0 {
		return fmt.Errorf("%w: negative sample_rate", ErrInvalidConfig)
	}
	if c.Library.RefreshInterval.Duration < 0 {
		return fmt.Errorf("%w: negative refresh_interval", ErrInvalidConfig)
	}
	return nil
}

// FindConfig resolves the config file to load.
//
// An explicit path wins; otherwise ./config.toml, then $XDG_CONFIG_HOME/player/config.toml.
// Returns [ErrMissingConfig] when nothing is found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMissingConfig, err)
		}
		return explicit, nil
	}

	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName, nil
	}

	path, err := xdg.SearchConfigFile("player/" + ConfigFileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}
	return path, nil
}

// ResolveConfig loads the config found by [FindConfig], or the defaults when none exists.
func ResolveConfig(explicit string) (*Config, string, error) {
	path, err := FindConfig(explicit)
	if err != nil {
		if explicit == "" && errors.Is(err, ErrMissingConfig) {
			return DefaultConfig(), "", nil
		}
		return nil, "", err
	}

	config, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return config, path, nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
