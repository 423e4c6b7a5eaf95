package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/decred/slog"
)

func TestDigestInputs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(file, []byte("Hello World!"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := &config{Text: []string{""}, Tree: dir}
	results, err := digestInputs(context.Background(), cfg, []string{file}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].digest != "36a5230172d5fdc93cfdd95ecf1754765906e1f0" {
		t.Errorf("text digest %s", results[0].digest)
	}
	if results[1].digest != "36a52301bf04c5e92108c73ecf1754765906e1f0" || results[1].size != 12 {
		t.Errorf("file result %+v", results[1])
	}
	if len(results[2].digest) != 40 {
		t.Errorf("tree result %+v", results[2])
	}
}

func TestDigestInputsErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := digestInputs(ctx, &config{}, []string{filepath.Join(t.TempDir(), "missing")}, nil); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := digestInputs(ctx, &config{CID: []string{"Qm"}}, nil, nil); err == nil {
		t.Error("expected error for --cid without --ipfs")
	}
}

func TestDigestInputsPubKey(t *testing.T) {
	// Generator point of secp256k1, compressed.
	const g = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	results, err := digestInputs(context.Background(), &config{PubKey: []string{g}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || len(results[0].digest) != 40 || results[0].name[:5] != "key:r" {
		t.Errorf("got %+v", results)
	}
	if _, err := digestInputs(context.Background(), &config{PubKey: []string{"02ff"}}, nil, nil); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestSetLogLevels(t *testing.T) {
	defer setLogLevels(defaultLogLevel)

	if err := setLogLevels("debug"); err != nil {
		t.Fatal(err)
	}
	if err := setLogLevels("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	for name, logger := range subsystemLoggers {
		if logger.Level() != slog.LevelDebug {
			t.Errorf("%s: level %v changed by rejected setting", name, logger.Level())
		}
	}
}

func TestLoadConfigDebugLevel(t *testing.T) {
	args := os.Args
	defer func() { os.Args = args }()
	defer setLogLevels(defaultLogLevel)
	dir := t.TempDir()

	os.Args = []string{appName, "--appdata", dir, "--debuglevel", "loud"}
	if _, _, err := loadConfig(); err == nil {
		t.Error("unknown --debuglevel accepted")
	}

	os.Args = []string{appName, "--appdata", dir, "--debuglevel", "warn"}
	cfg, _, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DebugLevel != "warn" || treeLog.Level() != slog.LevelWarn {
		t.Errorf("debuglevel %q, TREE at %v", cfg.DebugLevel, treeLog.Level())
	}
}
