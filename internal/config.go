package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/orbit"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App         ApplicationConfig   `yaml:"app"`
	SQLite      SQLiteConfig        `yaml:"sqlite"`
	Auth        AuthConfig          `yaml:"auth"`
	Inbox       InboxConfig         `yaml:"inbox"`
	Propagation PropagationConfig   `yaml:"propagation"`
	Reference   ReferenceConfig     `yaml:"reference"`
	Sources     []models.DataSource `yaml:"sources"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Inbox.Validate(); err != nil {
		return err
	}
	if err := c.Propagation.Validate(); err != nil {
		return err
	}
	return validateSources(c.Sources)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// InboxConfig holds the feed inbox directory. When Watch is set, files
// dropped into its satcat/ and tle/ directories are ingested by serve.
type InboxConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the inbox configuration.
func (c *InboxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// PropagationConfig selects the SGP4 gravity model and how far from its
// epoch an element set may be propagated.
type PropagationConfig struct {
	Gravity          string        `yaml:"gravity"`
	MaxEpochDistance time.Duration `yaml:"max_epoch_distance"`
}

// Validate validates the propagation configuration.
func (c *PropagationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Gravity, validation.Required, validation.In(orbit.GravityWGS72, orbit.GravityWGS84)),
		validation.Field(&c.MaxEpochDistance, validation.Min(time.Duration(0))),
	)
}

// ReferenceConfig points at an optional YAML file of reference codes loaded
// at startup.
type ReferenceConfig struct {
	Path string `yaml:"path"`
}

func validateSources(sources []models.DataSource) error {
	seen := make(map[string]bool, len(sources))
	for i := range sources {
		src := &sources[i]
		if err := validation.ValidateStruct(src,
			validation.Field(&src.Name, validation.Required),
			validation.Field(&src.Type, validation.Required, validation.In(models.FeedSatcat, models.FeedTLE)),
			validation.Field(&src.URL, validation.Required),
		); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
		if seen[src.Name] {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, src.Name)
		}
		seen[src.Name] = true
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./satcat.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Inbox: InboxConfig{
			Path:  "./inbox",
			Watch: true,
		},
		Propagation: PropagationConfig{
			Gravity:          orbit.GravityWGS72,
			MaxEpochDistance: orbit.DefaultMaxEpochDistance,
		},
	}
}
