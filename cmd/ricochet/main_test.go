package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPortOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23235", "23235"},
		{"localhost:2222", "2222"},
		{"[::1]:8080", "8080"},
		{"2222", "2222"},
	}
	for _, tt := range tests {
		if got := portOf(tt.addr); got != tt.want {
			t.Errorf("portOf(%q) = %q, expected %q", tt.addr, got, tt.want)
		}
	}
}

func TestBuildSchema(t *testing.T) {
	data, err := json.Marshal(buildSchema())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"Ricochet Layout"`, `"rows"`, `"players"`, `"towers"`} {
		if !strings.Contains(text, want) {
			t.Errorf("schema missing %s", want)
		}
	}
}

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "layout.schema.json")
	if err := writeSchema(out, []byte("{}\n")); err != nil {
		t.Fatalf("writeSchema() failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("Expected schema contents, got %q", data)
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temp file to be renamed away")
	}
}

func TestMatchConfigPresets(t *testing.T) {
	flagConfig, flagPace, flagBots = "", "blitz", "hard"
	defer func() { flagPace, flagBots = "", "" }()

	if _, err := matchConfig(); err != nil {
		t.Fatalf("matchConfig() failed: %v", err)
	}

	flagPace = "glacial"
	if _, err := matchConfig(); err == nil {
		t.Error("Expected error for unknown pace")
	}
}
