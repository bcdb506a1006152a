package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Export.Output != "./playlists" {
		t.Errorf("expected default output ./playlists, got %q", config.Export.Output)
	}
	if len(config.Export.Format) != 1 || config.Export.Format[0] != "csv" {
		t.Errorf("expected default format [csv], got %v", config.Export.Format)
	}
	if config.Export.SortKey != "spotify_default" {
		t.Errorf("expected default sort key spotify_default, got %q", config.Export.SortKey)
	}
	if config.Export.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", config.Export.Workers)
	}
	if !config.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if config.Server.Port != 3000 {
		t.Errorf("expected callback port 3000, got %d", config.Server.Port)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrConfigMissing) {
			t.Errorf("expected ErrConfigMissing, got %v", err)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `[spotify]
client_id = "abc"
client_secret = "def"

[export]
output = "/tmp/out"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Spotify.ClientID != "abc" {
			t.Errorf("expected client_id abc, got %q", config.Spotify.ClientID)
		}
		if config.Export.Output != "/tmp/out" {
			t.Errorf("expected overridden output, got %q", config.Export.Output)
		}
		if config.Export.Workers != 3 {
			t.Errorf("unset keys should keep defaults, got workers %d", config.Export.Workers)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("not = [valid"), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigMissing) {
			t.Errorf("expected ErrConfigMissing, got %v", err)
		}
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config := DefaultConfig()
	config.Spotify.ClientID = "id"
	config.Spotify.ClientSecret = "secret"
	config.Spotify.AccessToken = "token"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Spotify.ClientID != "id" || loaded.Spotify.AccessToken != "token" {
		t.Errorf("round trip lost credentials: %+v", loaded.Spotify)
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		config := DefaultConfig()
		config.Spotify.ClientID = "id"
		config.Spotify.ClientSecret = "secret"
		config.Spotify.RefreshToken = "refresh"
		return config
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "complete config", mutate: func(c *Config) {}},
		{name: "missing client id", mutate: func(c *Config) { c.Spotify.ClientID = "" }, wantErr: ErrConfigMissing},
		{name: "missing client secret", mutate: func(c *Config) { c.Spotify.ClientSecret = "" }, wantErr: ErrConfigMissing},
		{name: "missing redirect uri", mutate: func(c *Config) { c.Spotify.RedirectURI = "" }, wantErr: ErrConfigMissing},
		{name: "no stored tokens", mutate: func(c *Config) { c.Spotify.RefreshToken = "" }, wantErr: ErrAuthMissing},
		{
			name: "access token alone suffices",
			mutate: func(c *Config) {
				c.Spotify.RefreshToken = ""
				c.Spotify.AccessToken = "access"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSpotifyConfigToken(t *testing.T) {
	expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	creds := SpotifyConfig{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenExpiry:  expiry.Format(time.RFC3339),
	}

	token := creds.Token()
	if token.AccessToken != "access" || token.RefreshToken != "refresh" {
		t.Errorf("unexpected token: %+v", token)
	}
	if !token.Expiry.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
	}
}

func TestSpotifyConfigUpdate(t *testing.T) {
	creds := SpotifyConfig{RefreshToken: "old-refresh"}

	t.Run("rejects empty token", func(t *testing.T) {
		if err := creds.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := creds.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for token without access token")
		}
	})

	t.Run("keeps old refresh token when absent", func(t *testing.T) {
		token := &oauth2.Token{AccessToken: "new-access", Expiry: time.Now().Add(time.Hour)}
		if err := creds.Update(token); err != nil {
			t.Fatalf("update: %v", err)
		}
		if creds.AccessToken != "new-access" {
			t.Errorf("expected new access token, got %q", creds.AccessToken)
		}
		if creds.RefreshToken != "old-refresh" {
			t.Errorf("refresh token should survive, got %q", creds.RefreshToken)
		}
		if creds.TokenExpiry == "" {
			t.Error("expiry should be recorded")
		}
	})

	t.Run("replaces refresh token when present", func(t *testing.T) {
		token := &oauth2.Token{AccessToken: "a2", RefreshToken: "r2"}
		if err := creds.Update(token); err != nil {
			t.Fatalf("update: %v", err)
		}
		if creds.RefreshToken != "r2" {
			t.Errorf("expected replaced refresh token, got %q", creds.RefreshToken)
		}
	})
}
