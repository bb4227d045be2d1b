package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	testCases := []struct {
		got         any
		want        any
		description string
	}{
		{cfg.Matcher.ResultLimit, 100, "matcher result limit"},
		{cfg.Matcher.StrongThreshold, 0.2, "strong match threshold"},
		{cfg.Menu.SortCompletions, true, "sorting enabled"},
		{cfg.Menu.ShowDocs, true, "docs enabled"},
		{cfg.Server.MaxCandidates, 5000, "server candidate cap"},
		{cfg.Server.MaxQueryLen, 256, "server query cap"},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.description, tc.got, tc.want)
		}
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Matcher.ResultLimit = 42
	cfg.Menu.SortCompletions = false
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Matcher.ResultLimit != 42 {
		t.Errorf("result limit = %d, want 42", loaded.Matcher.ResultLimit)
	}
	if loaded.Menu.SortCompletions {
		t.Error("sort_completions should round-trip false")
	}
	// Untouched sections keep defaults.
	if loaded.Server.MaxCandidates != 5000 {
		t.Errorf("server cap = %d, want 5000", loaded.Server.MaxCandidates)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := "[matcher]\nresult_limit = 7\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Matcher.ResultLimit != 7 {
		t.Errorf("result limit = %d, want 7", cfg.Matcher.ResultLimit)
	}
	if cfg.Matcher.StrongThreshold != 0.2 {
		t.Errorf("threshold = %v, want default 0.2", cfg.Matcher.StrongThreshold)
	}
	if !cfg.Menu.ShowDocs {
		t.Error("missing menu section should keep defaults")
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Matcher.ResultLimit != 100 {
		t.Errorf("fresh config result limit = %d", cfg.Matcher.ResultLimit)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	// Second init loads the file it just wrote.
	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("second InitConfig: %v", err)
	}
	if again.Server.MaxQueryLen != 256 {
		t.Errorf("reloaded query cap = %d", again.Server.MaxQueryLen)
	}
}

func TestInitConfigBadFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig should fall back, got error: %v", err)
	}
	if cfg.Matcher.ResultLimit != 100 {
		t.Errorf("fallback config result limit = %d, want default", cfg.Matcher.ResultLimit)
	}
}
