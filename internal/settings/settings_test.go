package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatal(err)
	}

	if s.GetBool("multi_source_search", false) {
		t.Error("missing bool key should return fallback false")
	}
	if !s.GetBool("multi_source_search", true) {
		t.Error("missing bool key should return fallback true")
	}
	if got := s.GetString("highlight_color", "#ff6b6b"); got != "#ff6b6b" {
		t.Errorf("GetString fallback = %q", got)
	}
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Update(map[string]any{"multi_source_search": true, "text_color": "#ffffff"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.GetBool("multi_source_search", false) {
		t.Error("bool setting lost across reopen")
	}
	if got := reopened.GetString("text_color", ""); got != "#ffffff" {
		t.Errorf("text_color = %q; want #ffffff", got)
	}
}

func TestUpdateNotifiesSubscribers(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatal(err)
	}

	notified := 0
	s.Subscribe(func() { notified++ })

	if err := s.Update(map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	if notified != 1 {
		t.Errorf("subscriber called %d times; want 1", notified)
	}
}

func TestCorruptFileKeepsRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("corrupt settings file should not be fatal: %v", err)
	}
	if got := s.GetString("anything", "fallback"); got != "fallback" {
		t.Errorf("GetString = %q", got)
	}
}
