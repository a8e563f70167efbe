package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Generation != generator.DefaultParams() {
		t.Errorf("generation defaults = %+v", cfg.Generation)
	}
	if err := cfg.Generation.Validate(); err != nil {
		t.Errorf("default generation params invalid: %v", err)
	}
	if len(cfg.Server.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Server.WebSocket.AllowedOrigins)
	}
	if cfg.Server.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.Server.WebSocket.MaxMessageSize)
	}
	if cfg.Store.Enabled {
		t.Error("expected run recording off by default")
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.SQLitePath != "data/caves.db" {
		t.Errorf("unexpected store defaults: %+v", cfg.Store)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil || cfg.Generation.Width != 128 {
		t.Fatal("expected defaults for missing file")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cave.yaml")
	content := `
generation:
  width: 80
  seed: basalt
  fill_percent: 52
  prune_rooms: false
  square_size: 0.5
logging:
  level: DEBUG
server:
  address: ":9000"
  websocket:
    allowed_origins:
      - "https://example.com"
  max_cells: 1000
store:
  enabled: true
  driver: postgres
  postgres:
    host: db.internal
    conn_max_lifetime: 2m
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := cfg.Generation
	if g.Width != 80 || g.Seed != "basalt" || g.FillPercent != 52 || g.PruneRooms || g.SquareSize != 0.5 {
		t.Errorf("generation not loaded: %+v", g)
	}
	if g.Height != 72 || g.Smoothness != 4 || !g.PruneWalls {
		t.Errorf("unset generation fields lost their defaults: %+v", g)
	}
	if cfg.Logging.Level != "DEBUG" || !cfg.Logging.ConsoleEnabled {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Server.Address != ":9000" || cfg.Server.MaxCells != 1000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Server.WebSocket.AllowedOrigins) != 1 || cfg.Server.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("websocket = %+v", cfg.Server.WebSocket)
	}
	if !cfg.Store.Enabled || cfg.Store.Driver != "postgres" || cfg.Store.Postgres.Host != "db.internal" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.Postgres.Port != 5432 || cfg.Store.Postgres.ConnMaxLifetime.Minutes() != 2 {
		t.Errorf("postgres = %+v", cfg.Store.Postgres)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("generation: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if cfg == nil || cfg.Generation != generator.DefaultParams() {
		t.Error("expected defaults alongside the parse error")
	}
}

func TestLoadConfig_LoggingEnv(t *testing.T) {
	t.Setenv("CAVE_LOG_LEVEL", "ERROR")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Logging.Level = %q, want env override", cfg.Logging.Level)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Generation.Seed = "saved"
	cfg.Store.Enabled = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Generation != cfg.Generation || !loaded.Store.Enabled {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"same origin no header", nil, "", true},
		{"same origin matching host", nil, "http://localhost:4000", true},
		{"same origin different host", nil, "http://evil.com", false},
		{"wildcard", []string{"*"}, "http://anything.com", true},
		{"wildcard empty origin", []string{"*"}, "", true},
		{"exact match", []string{"https://example.com", "http://localhost:3000"}, "http://localhost:3000", true},
		{"not listed", []string{"https://example.com"}, "http://evil.com", false},
		{"partial match", []string{"https://example.com"}, "https://example.com:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := WebSocketConfig{AllowedOrigins: tt.allowed}
			if got := cfg.IsOriginAllowed(tt.origin, "localhost:4000"); got != tt.want {
				t.Errorf("IsOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},
		{"http://localhost:4000", "localhost:4000", true},
		{"https://localhost:4000", "localhost:4000", true},
		{"http://localhost:4000/", "localhost:4000", true},
		{"http://example.com", "localhost:4000", false},
		{"http://localhost:3000", "localhost:4000", false},
		{"ws://localhost:4000", "localhost:4000", true},
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config", "cave.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()

	if cfg.Generation != def.Generation {
		t.Errorf("generation = %+v, want %+v", cfg.Generation, def.Generation)
	}
	if cfg.Server.Address != def.Server.Address || cfg.Server.MaxCells != def.Server.MaxCells {
		t.Errorf("server = %+v, want %+v", cfg.Server, def.Server)
	}
	if cfg.Server.RateLimit != def.Server.RateLimit || cfg.Server.Connections != def.Server.Connections {
		t.Errorf("limits = %+v/%+v", cfg.Server.RateLimit, cfg.Server.Connections)
	}
	if cfg.Store.Enabled != def.Store.Enabled || cfg.Store.SQLitePath != def.Store.SQLitePath {
		t.Errorf("store = %+v", cfg.Store)
	}
}
