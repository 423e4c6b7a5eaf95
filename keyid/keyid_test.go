package keyid

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"RipeDigest/enc"

	"github.com/btcsuite/btcd/btcec/v2"
)

func TestFingerprint(t *testing.T) {
	_, pub := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{1}, 32))
	h := sha256.Sum256(pub.SerializeCompressed())
	if got, want := Fingerprint(pub), enc.Digest(h[:]); got != want {
		t.Errorf("Fingerprint = %s, want %s", got, want)
	}
	if _, err := hex.DecodeString(Fingerprint(pub)); err != nil {
		t.Error(err)
	}
}

func TestAddress(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	a1 := Address(k1.PubKey())
	if a1 == "" || a1[0] != 'r' {
		t.Errorf("address %q should start with the zero-version character", a1)
	}
	if a1 != Address(k1.PubKey()) {
		t.Error("Address is not deterministic")
	}
	if a1 == Address(k2.PubKey()) {
		t.Error("distinct keys share an address")
	}
}
