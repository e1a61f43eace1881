package bignum

import (
	"encoding/binary"
	"fmt"
	"testing"

	"golang.org/x/crypto/sha3"
)

// deterministicStream expands a label and counter into a fixed-size byte
// slice via repeated Keccak-256 hashing, giving reproducible "random"
// test inputs without a dependency on math/rand's global state.
func deterministicStream(label string, counter uint64, n int) []byte {
	out := make([]byte, 0, n+32)
	var ctr [8]byte
	for len(out) < n {
		binary.BigEndian.PutUint64(ctr[:], counter)
		h := sha3.NewLegacyKeccak256()
		h.Write([]byte(label))
		h.Write(ctr[:])
		out = h.Sum(out)
		counter++
	}
	return out[:n]
}

// randomSignedHex derives a signed hex literal from the deterministic
// stream: one byte picks the sign, the rest become the hex body.
func randomSignedHex(label string, counter uint64, nbytes int) string {
	stream := deterministicStream(label, counter, nbytes+1)
	sign := ""
	if stream[0]&1 == 1 {
		sign = "-"
	}
	body := stream[1:]
	// strip leading zero bytes so the hex body has no redundant leading
	// zero digits, but keep at least one digit.
	i := 0
	for i < len(body)-1 && body[i] == 0 {
		i++
	}
	return fmt.Sprintf("%s0x%x", sign, body[i:])
}

// TestRoundTripTextAllBases checks Testable Property 4: parsing emit(x,
// r) reproduces x, for every supported base and a spread of deterministic
// magnitudes (small, medium, large).
func TestRoundTripTextAllBases(t *testing.T) {
	bases := []int{2, 8, 10, 16, 36}
	sizes := []int{1, 4, 16, 64, 400}

	var counter uint64
	for _, size := range sizes {
		lit := randomSignedHex("roundtrip", counter, size)
		counter += 10
		x := MustParseLiteral(lit)

		for _, base := range bases {
			s, err := x.FormatText(base, FormatOptions{})
			if err != nil {
				t.Fatalf("FormatText(base=%d) on %d-byte value: %v", base, size, err)
			}
			back, err := ParseText(s, base)
			if err != nil {
				t.Fatalf("ParseText(%q, base=%d): %v", s, base, err)
			}
			if !back.Equal(x) {
				t.Fatalf("round trip through base %d failed for a %d-byte value", base, size)
			}
		}
	}
}

// TestRoundTripNoRedundantLeadingZeros checks Testable Property 5: a
// canonical (no redundant leading zero) digit sequence emitted from a
// parsed value reproduces the original sequence exactly.
func TestRoundTripNoRedundantLeadingZeros(t *testing.T) {
	cases := []struct {
		s    string
		base int
	}{
		{"123456789", 10},
		{"deadbeef", 16},
		{"1010110", 2},
		{"0", 10},
		{"-777", 8},
	}
	for _, c := range cases {
		x, err := ParseText(c.s, c.base)
		if err != nil {
			t.Fatalf("ParseText(%q, %d): %v", c.s, c.base, err)
		}
		s, err := x.FormatText(c.base, FormatOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if s != c.s {
			t.Fatalf("FormatText(ParseText(%q)) = %q, want %q", c.s, s, c.s)
		}
	}
}

// TestRoundTripArithmeticIdentities checks law 6's division/multiplication
// round trip: (x * y) / y == x when y != 0, over a spread of deterministic
// signed magnitudes.
func TestRoundTripArithmeticIdentities(t *testing.T) {
	var counter uint64
	for i, size := range []int{1, 3, 10, 50} {
		xLit := randomSignedHex("mul-identity-x", counter, size)
		yLit := randomSignedHex("mul-identity-y", counter, size/2+1)
		counter += 20

		x := MustParseLiteral(xLit)
		y := MustParseLiteral(yLit)
		if y.IsZero() {
			continue
		}

		product, err := Mul(x, y)
		if err != nil {
			t.Fatalf("case %d: Mul: %v", i, err)
		}
		q, _, err := QuoRem(product, y)
		if err != nil {
			t.Fatalf("case %d: QuoRem: %v", i, err)
		}
		if !q.Equal(x) {
			t.Fatalf("case %d: (x*y)/y != x", i)
		}
	}
}

// TestRoundTripDivisionIdentity checks law 7: x == q*y + r, 0 <= r < y,
// for a spread of deterministic dividends and small positive divisors.
func TestRoundTripDivisionIdentity(t *testing.T) {
	divisors := []int64{1, 2, 3, 7, 97, 9999991}
	var counter uint64
	for _, size := range []int{1, 5, 20, 100} {
		lit := randomSignedHex("div-identity", counter, size)
		counter += 7
		x := MustParseLiteral(lit)
		if !x.nonneg {
			x = Neg(x)
		}

		for _, dv := range divisors {
			y := FromInt64(dv)
			q, r, err := QuoRem(x, y)
			if err != nil {
				t.Fatalf("QuoRem(%v, %d): %v", x, dv, err)
			}
			check, err := Mul(q, y)
			if err != nil {
				t.Fatal(err)
			}
			check, err = Add(check, r)
			if err != nil {
				t.Fatal(err)
			}
			if !check.Equal(x) {
				t.Fatalf("q*y+r != x for divisor %d", dv)
			}
			if r.Sign() < 0 || r.Cmp(y) >= 0 {
				t.Fatalf("remainder %v out of range [0,%d)", r, dv)
			}
		}
	}
}
