package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"RipeDigest/tree"
)

func next(t *testing.T, updates <-chan string) string {
	t.Helper()
	select {
	case d := <-updates:
		return d
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for digest update")
		return ""
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), []byte("one"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan string)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, 20*time.Millisecond, updates) }()

	initial := next(t, updates)
	want, err := tree.ComputeDigest(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if initial != want {
		t.Fatalf("initial digest %s, want %s", initial, want)
	}

	if err := os.WriteFile(filepath.Join(dir, "b"), []byte("two"), 0600); err != nil {
		t.Fatal(err)
	}
	changed := next(t, updates)
	if changed == initial {
		t.Error("digest did not change after adding a file")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Millisecond, make(chan string))
	if err == nil {
		t.Fatal("expected error")
	}
}
