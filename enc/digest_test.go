package enc

import (
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/ripemd160"
)

var vectors = []struct {
	in  string
	out string
}{
	{"", "36a5230172d5fdc93cfdd95ecf1754765906e1f0"},
	{"Hello World!", "36a52301bf04c5e92108c73ecf1754765906e1f0"},
	{"abc", "36a52301d2d5fdc9fcfdd95ecf1754765906e1f0"},
	{"message digest", "36a52301626e6a6969ea7d5ecf1754765906e1f0"},
	{"The quick brown fox jumps over the lazy dog", "36a523014e5cc0099fe205be283754763986e1f0"},
	{strings.Repeat("a", 55), "e6c5230189fda5e92966fd7ecf785476be8ae1f0"},
	{strings.Repeat("a", 56), "b62523014d05f8298da9f9de8e5d547653bee1f0"},
	{strings.Repeat("a", 64), "b62523015105f8296da9f9de0e5d547653bee1f0"},
}

func TestGolden(t *testing.T) {
	for _, test := range vectors {
		if got := Digest([]byte(test.in)); got != test.out {
			t.Errorf("Digest(%q) = %s, want %s", test.in, got, test.out)
		}
	}
}

func TestGoldenAllBytes(t *testing.T) {
	msg := make([]byte, 256)
	for i := range msg {
		msg[i] = byte(i)
	}
	const want = "6da52301ace20c49314c1e5e18c754765506e1f0"
	if got := Digest(msg); got != want {
		t.Errorf("Digest(0x00..0xff) = %s, want %s", got, want)
	}
}

func TestGoldenMillion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	msg := []byte(strings.Repeat("a", 1000000))
	const want = "32252301b12eab29f6c97ddeb68d5476017ee1f0"
	if got := Digest(msg); got != want {
		t.Errorf("Digest(1e6 x a) = %s, want %s", got, want)
	}
}

func TestFormat(t *testing.T) {
	for n := 0; n < 200; n += 7 {
		d := Digest(make([]byte, n))
		if len(d) != 2*Size {
			t.Fatalf("len %d: digest %q has length %d", n, d, len(d))
		}
		if strings.ToLower(d) != d {
			t.Fatalf("len %d: digest %q is not lowercase", n, d)
		}
		if _, err := hex.DecodeString(d); err != nil {
			t.Fatalf("len %d: digest %q is not hex: %v", n, d, err)
		}
	}
}

func TestDeterministic(t *testing.T) {
	msg := []byte("Hello World!")
	first := Digest(msg)
	for i := 0; i < 10; i++ {
		if d := Digest(msg); d != first {
			t.Fatalf("run %d: got %s, first run %s", i, d, first)
		}
	}
	if string(msg) != "Hello World!" {
		t.Fatal("Digest modified its input")
	}
}

func TestConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for _, test := range vectors {
		test := test
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if got := Digest([]byte(test.in)); got != test.out {
					t.Errorf("Digest(%q) = %s, want %s", test.in, got, test.out)
				}
			}()
		}
	}
	wg.Wait()
}

func TestNotRIPEMD160(t *testing.T) {
	for _, test := range vectors {
		h := ripemd160.New()
		h.Write([]byte(test.in))
		canonical := hex.EncodeToString(h.Sum(nil))
		if canonical == Digest([]byte(test.in)) {
			t.Errorf("Digest(%q) matches RIPEMD-160", test.in)
		}
	}
}

func BenchmarkDigest1K(b *testing.B) {
	msg := make([]byte, 1024)
	b.SetBytes(int64(len(msg)))
	for i := 0; i < b.N; i++ {
		Digest(msg)
	}
}
