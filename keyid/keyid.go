// Package keyid derives short identifiers for secp256k1 public keys from
// their digest.
package keyid

import (
	"crypto/sha256"
	"encoding/hex"

	"RipeDigest/enc"
	"RipeDigest/util"

	"github.com/btcsuite/btcd/btcec/v2"
)

// AddressVersion prefixes the payload of an encoded address.
const AddressVersion = 0x00

func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey()
}

// Fingerprint is the digest of the SHA-256 of the compressed public key.
func Fingerprint(pub *btcec.PublicKey) string {
	h := sha256.Sum256(pub.SerializeCompressed())
	return enc.Digest(h[:])
}

// Address encodes the fingerprint with a version byte and a 4-byte double
// SHA-256 checksum in the Ripple base58 alphabet.
func Address(pub *btcec.PublicKey) string {
	fp, _ := hex.DecodeString(Fingerprint(pub))
	payload := append([]byte{AddressVersion}, fp...)
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return util.Base58Encode(append(payload, second[:4]...))
}
