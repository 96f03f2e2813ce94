package ml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestArtifactWatcherReportsChanges(t *testing.T) {
	dir := writeArtifacts(t)
	watched := filepath.Join(dir, "lr.json")
	changed := make(chan string, 16)

	w, err := NewArtifactWatcher([]string{watched}, nil, WithChangeHook(func(path string, _ fsnotify.Op) {
		changed <- path
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte(logisticArtifact), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(watched)
		if path != abs {
			t.Fatalf("expected %s, got %s", abs, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestArtifactWatcherMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "lr.json")
	if _, err := NewArtifactWatcher([]string{missing}, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
