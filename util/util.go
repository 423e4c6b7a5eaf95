package util

//mixed bits that need a home

import (
	"encoding/json"
	"math/big"
	"time"

	"RipeDigest/enc"
)

var RippleAlphabet = []byte("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

func Base58Encode(input []byte) string {
	zeros := 0
	for _, b := range input {
		if b != 0 {
			break
		}
		zeros++
	}
	num := new(big.Int).SetBytes(input)
	var encoded []byte
	base := big.NewInt(58)
	mod := new(big.Int)
	for num.Sign() > 0 {
		num.DivMod(num, base, mod)
		encoded = append(encoded, RippleAlphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		encoded = append(encoded, RippleAlphabet[0])
	}
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}
	return string(encoded)
}

// RecordDigest digests the JSON encoding of v followed by any extra strings.
func RecordDigest(v interface{}, extra ...string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	for _, s := range extra {
		data = append(data, s...)
	}
	return enc.Digest(data), nil
}

func CurrentTimeUTC() time.Time {
	return time.Now().UTC()
}
