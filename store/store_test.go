package store

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"RipeDigest/enc"

	"github.com/decred/dcrwallet/errors/v2"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "digests.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGet(t *testing.T) {
	db := openTemp(t)
	msg := []byte("Hello World!")
	r := &Record{Key: "hello", Digest: enc.Digest(msg), Size: int64(len(msg)), Source: "test"}
	if err := db.Put(r); err != nil {
		t.Fatal(err)
	}
	if r.Created.IsZero() {
		t.Error("Put did not stamp Created")
	}
	got, err := db.Get("hello")
	if err != nil {
		t.Fatal(err)
	}
	if got.Digest != r.Digest || got.Size != 12 || got.Source != "test" {
		t.Errorf("got %+v, want %+v", got, r)
	}
}

func TestGetMissing(t *testing.T) {
	db := openTemp(t)
	_, err := db.Get("nope")
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.NotExist {
		t.Fatalf("expected NotExist error, got %v", err)
	}
}

func TestPutEmptyKey(t *testing.T) {
	db := openTemp(t)
	if err := db.Put(&Record{Digest: enc.Digest(nil)}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestForEach(t *testing.T) {
	db := openTemp(t)
	for _, k := range []string{"c", "a", "b"} {
		if err := db.Put(&Record{Key: k, Digest: enc.Digest([]byte(k))}); err != nil {
			t.Fatal(err)
		}
	}
	var keys []string
	err := db.ForEach(func(r *Record) error {
		keys = append(keys, r.Key)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("keys %v, want [a b c]", keys)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digests.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Put(&Record{Key: "k", Digest: enc.Digest([]byte("k"))}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Get("k"); err != nil {
		t.Fatalf("record lost after reopen: %v", err)
	}
}
