package bignum

import (
	"testing"

	"github.com/eth2030/bignum/internal/limb"
)

func TestLshSmallValues(t *testing.T) {
	cases := []struct {
		x    int64
		k    uint
		want int64
	}{
		{1, 0, 1},
		{1, 4, 16},
		{3, 4, 48},
		{-3, 4, -48},
		{0, 100, 0},
	}
	for _, c := range cases {
		r, err := Lsh(FromInt64(c.x), c.k)
		if err != nil {
			t.Fatalf("Lsh(%d,%d): %v", c.x, c.k, err)
		}
		if !r.Equal(FromInt64(c.want)) {
			t.Fatalf("Lsh(%d,%d) = %v, want %d", c.x, c.k, r, c.want)
		}
	}
}

func TestRshSmallValues(t *testing.T) {
	cases := []struct {
		x    int64
		k    uint
		want int64
	}{
		{48, 2, 12},
		{48, 0, 48},
		{-48, 2, -12},
		{1, 1, 0},
		{0, 5, 0},
		{255, 100, 0},
	}
	for _, c := range cases {
		r, err := Rsh(FromInt64(c.x), c.k)
		if err != nil {
			t.Fatalf("Rsh(%d,%d): %v", c.x, c.k, err)
		}
		if !r.Equal(FromInt64(c.want)) {
			t.Fatalf("Rsh(%d,%d) = %v, want %d", c.x, c.k, r, c.want)
		}
	}
}

// TestShiftDomainErrorBoundary checks Testable Property 11: a shift count
// at or beyond MaxLen*E is a domain error, while one bit less is not.
func TestShiftDomainErrorBoundary(t *testing.T) {
	x := FromInt64(1)

	if _, err := Lsh(x, maxShiftBits); err != ErrDomainError {
		t.Fatalf("Lsh(x, maxShiftBits) = %v, want ErrDomainError", err)
	}
	if _, err := Lsh(x, maxShiftBits+1); err != ErrDomainError {
		t.Fatalf("Lsh(x, maxShiftBits+1) = %v, want ErrDomainError", err)
	}
	if _, err := Rsh(x, maxShiftBits); err != ErrDomainError {
		t.Fatalf("Rsh(x, maxShiftBits) = %v, want ErrDomainError", err)
	}

	if _, err := Lsh(x, maxShiftBits-1); err != nil {
		t.Fatalf("Lsh(x, maxShiftBits-1): unexpected error %v", err)
	}
	if _, err := Rsh(x, maxShiftBits-1); err != nil {
		t.Fatalf("Rsh(x, maxShiftBits-1): unexpected error %v", err)
	}
}

// TestLshDiscardsOverflowBits checks the documented fidelity choice: bits
// shifted past MaxLen*E are silently dropped rather than raising an error.
func TestLshDiscardsOverflowBits(t *testing.T) {
	vals := make([]uint32, limb.MaxLen)
	vals[limb.MaxLen-1] = 0x01
	x := divFromLimbs(t, vals, true)

	r, err := Lsh(x, limb.E)
	if err != nil {
		t.Fatalf("Lsh of a full-width value should not error, got %v", err)
	}
	if r.mag.Len > limb.MaxLen {
		t.Fatalf("result exceeds MaxLen limbs: %d", r.mag.Len)
	}
}

// TestRshIsTrueArithmeticShift guards against reproducing the documented
// reference bug where right-shift behaved like left-shift.
func TestRshIsTrueArithmeticShift(t *testing.T) {
	x := FromInt64(1024)
	r, err := Rsh(x, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Equal(FromInt64(128)) {
		t.Fatalf("Rsh(1024,3) = %v, want 128 (got a left-shift result would be 8192)", r)
	}
}

// TestShiftRoundTrip checks Testable Property 8: (x << k) >> k == x for
// magnitudes whose bit length plus k stays under MaxLen*E.
func TestShiftRoundTrip(t *testing.T) {
	xs := []int64{0, 1, -1, 255, -255, 123456789, -123456789}
	ks := []uint{0, 1, 3, 7, 8, 15, 100}
	for _, xv := range xs {
		for _, k := range ks {
			x := FromInt64(xv)
			shifted, err := Lsh(x, k)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Rsh(shifted, k)
			if err != nil {
				t.Fatal(err)
			}
			if !back.Equal(x) {
				t.Fatalf("(%d<<%d)>>%d = %v, want %d", xv, k, k, back, xv)
			}
		}
	}
}

func TestShiftPreservesSignAndZeroCanonicalization(t *testing.T) {
	neg := FromInt64(-1)
	r, err := Rsh(neg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsZero() || r.Sign() != 0 {
		t.Fatalf("Rsh(-1,1) should canonicalize to non-negative zero, got %v (sign %d)", r, r.Sign())
	}
}

func TestLshInPlaceAndRshInPlace(t *testing.T) {
	z := FromInt64(3)
	if err := z.LshInPlace(4); err != nil {
		t.Fatal(err)
	}
	if !z.Equal(FromInt64(48)) {
		t.Fatalf("after LshInPlace(4): %v, want 48", z)
	}
	if err := z.RshInPlace(2); err != nil {
		t.Fatal(err)
	}
	if !z.Equal(FromInt64(12)) {
		t.Fatalf("after RshInPlace(2): %v, want 12", z)
	}
}
