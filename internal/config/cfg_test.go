package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Theme != "catppuccin" {
		t.Errorf("Theme = %q, want catppuccin", cfg.Theme)
	}
	if cfg.Viewer.TileHeight != 500.0 {
		t.Errorf("Viewer.TileHeight = %v, want 500", cfg.Viewer.TileHeight)
	}
	if cfg.Viewer.EvictDistance != 4 {
		t.Errorf("Viewer.EvictDistance = %v, want 4", cfg.Viewer.EvictDistance)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("theme = \"nord\"\n\n[viewer]\nsidebar_cols = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "nord" {
		t.Errorf("Theme = %q, want nord", cfg.Theme)
	}
	if cfg.Viewer.SidebarCols != 8 {
		t.Errorf("Viewer.SidebarCols = %v, want 8", cfg.Viewer.SidebarCols)
	}
	// values not present in the overlay keep their embedded defaults
	if cfg.Viewer.TileHeight != 500.0 {
		t.Errorf("Viewer.TileHeight = %v, want 500 (default preserved)", cfg.Viewer.TileHeight)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("bogus_field = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown config key, got nil")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("this is not = = toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid TOML, got nil")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Width = -1
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for negative width")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Dump produced empty output")
	}
}
