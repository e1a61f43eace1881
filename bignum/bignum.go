// Package bignum implements a signed arbitrary-precision integer: the
// four arithmetic operations, bitwise shifts, comparisons, and
// bidirectional conversion to and from text in bases 2, 8, 10, 16, and
// arbitrary radices.
//
// An Int is a value type wrapping a magnitude buffer and a sign flag; it
// owns its storage exclusively and performs no synchronization of its
// own -- callers sharing an *Int across goroutines must supply their own
// synchronization, exactly as the rest of this module's arithmetic core
// does (see internal/radix's decimal tower for the one piece of shared,
// lock-guarded state in this module).
package bignum

import (
	"math/bits"

	"github.com/eth2030/bignum/internal/limb"
)

// Int is a signed arbitrary-precision integer. The zero value is not a
// valid Int; use New, FromInt64, FromUint64, or FromString.
type Int struct {
	mag    *limb.Buffer
	nonneg bool // true iff the value is >= 0; always true when mag is zero
}

// New returns the integer zero.
func New() *Int {
	mag, _ := limb.New(1)
	return &Int{mag: mag, nonneg: true}
}

// canonicalize enforces the invariant that zero is always represented
// with a non-negative sign.
func (z *Int) canonicalize() *Int {
	if z.mag.IsZero() {
		z.nonneg = true
	}
	return z
}

// FromUint64 constructs an Int from an unsigned 64-bit value.
func FromUint64(v uint64) *Int {
	limbs := make([]uint32, 0, 8)
	if v == 0 {
		limbs = append(limbs, 0)
	}
	for v > 0 {
		limbs = append(limbs, uint32(v&0xFF))
		v >>= 8
	}
	mag, err := limb.FromLimbs(limbs)
	if err != nil {
		panic(err) // 8 limbs can never exceed MaxLen
	}
	mag.ShrinkToFit()
	return &Int{mag: mag, nonneg: true}
}

// FromInt64 constructs an Int from a signed 64-bit value. math.MinInt64 is
// handled correctly: its magnitude is one past the positive range of
// int64, computed via uint64 conversion before negation of the sign flag
// (spec Testable Property 10).
func FromInt64(v int64) *Int {
	if v >= 0 {
		return FromUint64(uint64(v))
	}
	z := FromUint64(uint64(-(v + 1)) + 1) // avoids overflow on MinInt64
	z.nonneg = false
	return z.canonicalize()
}

// FromInt constructs an Int from a platform int.
func FromInt(v int) *Int { return FromInt64(int64(v)) }

// Clone returns an independent deep copy of z.
func (z *Int) Clone() *Int {
	return &Int{mag: z.mag.Clone(), nonneg: z.nonneg}
}

// Set assigns x's value to z and returns z.
func (z *Int) Set(x *Int) *Int {
	z.mag = x.mag.Clone()
	z.nonneg = x.nonneg
	return z
}

// Sign returns -1, 0, or +1 depending on whether z is negative, zero, or positive.
func (z *Int) Sign() int {
	if z.mag.IsZero() {
		return 0
	}
	if z.nonneg {
		return 1
	}
	return -1
}

// IsZero reports whether z == 0.
func (z *Int) IsZero() bool { return z.mag.IsZero() }

// bitLen returns the number of bits in the magnitude (0 for zero).
func (z *Int) bitLen() int {
	if z.mag.IsZero() {
		return 0
	}
	top := z.mag.D[z.mag.Len-1]
	return (z.mag.Len-1)*limb.E + bits.Len32(top)
}

// BitLen returns the number of bits required to represent |z| (0 for zero).
func (z *Int) BitLen() int { return z.bitLen() }

// Cmp compares z and y, returning -1, 0, or +1.
func (z *Int) Cmp(y *Int) int {
	if z.nonneg != y.nonneg {
		if z.mag.IsZero() && y.mag.IsZero() {
			return 0
		}
		if z.nonneg {
			return 1
		}
		return -1
	}
	c := limb.CompareRaw(z.mag, y.mag)
	if !z.nonneg {
		c = -c
	}
	return c
}

// cmpMagSmall compares a magnitude buffer against a single-limb constant
// without allocating: any buffer holding more than one limb already
// exceeds a value < 2^E.
func cmpMagSmall(m *limb.Buffer, small uint32) int {
	if m.Len > 1 {
		return 1
	}
	switch v := m.D[0]; {
	case v < small:
		return -1
	case v > small:
		return 1
	default:
		return 0
	}
}

// CmpInt64 compares z against a host int64, special-casing the common
// comparands 0, 1, and -1 to avoid heap-allocating an Int.
func (z *Int) CmpInt64(v int64) int {
	switch v {
	case 0:
		return z.Sign()
	case 1:
		if !z.nonneg {
			return -1
		}
		return cmpMagSmall(z.mag, 1)
	case -1:
		if z.nonneg {
			return 1
		}
		return -cmpMagSmall(z.mag, 1)
	default:
		return z.Cmp(FromInt64(v))
	}
}

// CmpUint64 compares z against a host uint64, special-casing 0 and 1 to
// avoid heap-allocating an Int.
func (z *Int) CmpUint64(v uint64) int {
	switch v {
	case 0:
		return z.Sign()
	case 1:
		if !z.nonneg {
			return -1
		}
		return cmpMagSmall(z.mag, 1)
	default:
		return z.Cmp(FromUint64(v))
	}
}

// Equal reports whether z and y represent the same value (-0 == 0).
func (z *Int) Equal(y *Int) bool { return z.Cmp(y) == 0 }

// String returns the base-10 representation of z.
func (z *Int) String() string {
	s, err := z.FormatText(10, FormatOptions{})
	if err != nil {
		panic(err) // base 10 is always valid
	}
	return s
}
