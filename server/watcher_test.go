package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickkwang/bmt-lite/config"
	"github.com/patrickkwang/bmt-lite/model"
	"github.com/patrickkwang/bmt-lite/taxonomy"
)

func newWatchingServer(t *testing.T, path string) *Server {
	t.Helper()

	tk, err := taxonomy.New(testDocument())
	if err != nil {
		t.Fatalf("Failed to build toolkit: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Watch = true

	srv, err := New(Options{
		Config:      cfg,
		Toolkit:     tk,
		Fingerprint: "fp-initial",
		ModelPath:   path,
	})
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	if srv.modelWatcher == nil {
		t.Fatal("Model watcher was not created")
	}
	return srv
}

func TestModelWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")

	v1 := "classes:\n  named thing: {}\n"
	if err := os.WriteFile(path, []byte(v1), 0o644); err != nil {
		t.Fatalf("Failed to write model file: %v", err)
	}

	srv := newWatchingServer(t, path)
	defer srv.cancel()
	defer srv.modelWatcher.Stop()
	go srv.Run()
	srv.modelWatcher.Start()

	v2 := "slots: {}\nclasses:\n  named thing: {}\n  biological entity:\n    is_a: named thing\n"
	if err := os.WriteFile(path, []byte(v2), 0o644); err != nil {
		t.Fatalf("Failed to rewrite model file: %v", err)
	}

	// The reload is debounced, so poll for the swap
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Toolkit().Len() == 2 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if got := srv.Toolkit().Len(); got != 2 {
		t.Fatalf("Toolkit len after reload = %d, want 2", got)
	}
	if srv.Fingerprint() == "fp-initial" {
		t.Error("Fingerprint was not updated on reload")
	}
	if srv.Fingerprint() != model.Fingerprint([]byte(v2)) {
		t.Errorf("Fingerprint = %q, want fingerprint of new file", srv.Fingerprint())
	}
}

func TestModelWatcherKeepsIndexOnBadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")

	v1 := "classes:\n  named thing: {}\n"
	if err := os.WriteFile(path, []byte(v1), 0o644); err != nil {
		t.Fatalf("Failed to write model file: %v", err)
	}

	srv := newWatchingServer(t, path)
	defer srv.cancel()
	defer srv.modelWatcher.Stop()
	go srv.Run()
	srv.modelWatcher.Start()

	before := srv.Toolkit().Len()

	if err := os.WriteFile(path, []byte("classes: [not a map"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite model file: %v", err)
	}

	// Wait past the debounce window; the failed rebuild must leave the
	// running index alone
	time.Sleep(modelDebouncePeriod + 700*time.Millisecond)

	if got := srv.Toolkit().Len(); got != before {
		t.Errorf("Toolkit len after bad reload = %d, want %d", got, before)
	}
	if srv.Fingerprint() != "fp-initial" {
		t.Errorf("Fingerprint = %q, want fp-initial", srv.Fingerprint())
	}
}
