package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/satcat/internal/models"
	pkgconfig "github.com/starford/satcat/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestPropagationConfig_UnknownGravity(t *testing.T) {
	cfg := PropagationConfig{Gravity: "egm96"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown gravity model should fail validation")
	}
}

func TestSources_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sources []models.DataSource
		wantErr string
	}{
		{"ok", []models.DataSource{
			{Name: "active", Type: "tle", URL: "https://celestrak.org/NORAD/elements/active.txt"},
			{Name: "satcat", Type: "satcat", URL: "https://celestrak.org/pub/satcat.txt"},
		}, ""},
		{"bad type", []models.DataSource{{Name: "x", Type: "csv", URL: "https://example.com"}}, "type"},
		{"missing url", []models.DataSource{{Name: "x", Type: "tle"}}, "url"},
		{"duplicate", []models.DataSource{
			{Name: "x", Type: "tle", URL: "https://a"},
			{Name: "x", Type: "tle", URL: "https://b"},
		}, "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Sources = tt.sources
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SATCAT_TEST_TOKEN", "s3cret")
	content := `app:
  log_level: debug
  http:
    port: 9090
sqlite:
  path: /tmp/satcat.db
auth:
  mode: token
  token: ${SATCAT_TEST_TOKEN}
inbox:
  path: /tmp/inbox
  watch: false
propagation:
  gravity: wgs84
  max_epoch_distance: 72h
sources:
  - name: stations
    type: tle
    url: https://celestrak.org/NORAD/elements/stations.txt
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Port != 9090 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Auth.Token != "s3cret" {
		t.Errorf("token = %q, env not expanded", cfg.Auth.Token)
	}
	if cfg.Inbox.Watch {
		t.Error("watch should be false")
	}
	if cfg.Propagation.Gravity != "wgs84" || cfg.Propagation.MaxEpochDistance != 72*time.Hour {
		t.Errorf("propagation = %+v", cfg.Propagation)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "stations" {
		t.Errorf("sources = %+v", cfg.Sources)
	}
}
