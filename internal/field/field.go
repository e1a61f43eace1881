// Package field implements arithmetic in the finite field F_p used as the
// coefficient ring for the NTT multiplication engine.
//
// p = 2013265921 = 15*2^27 + 1 has a multiplicative subgroup of order
// 2^27, which is large enough to carry the NTT for every transform length
// this module ever needs (operand lengths are bounded by MAX_LEN =
// 32768, so transform lengths stay far below 2^27).
package field

// P is the field modulus, 15*2^27 + 1.
const P uint32 = 2013265921

// Omega is a primitive root of order 2^27 mod P (31^15 mod P).
const Omega uint32 = 440564289

// PrimitiveOrder is the order of the multiplicative subgroup generated by Omega.
const PrimitiveOrder uint64 = 1 << 27

// InvTwo is the modular inverse of 2 mod P.
const InvTwo uint32 = 1006632961

// Elem is an element of F_p, always held in [0, P).
type Elem uint32

// New reduces x into F_p.
func New(x uint32) Elem {
	return Elem(x % P)
}

// FromUint64 reduces a 64-bit value into F_p.
func FromUint64(x uint64) Elem {
	return Elem(x % uint64(P))
}

// Add returns (a + b) mod P.
func (a Elem) Add(b Elem) Elem {
	s := uint32(a) + uint32(b)
	if s >= P {
		s -= P
	}
	return Elem(s)
}

// Sub returns (a - b) mod P.
func (a Elem) Sub(b Elem) Elem {
	if uint32(a) >= uint32(b) {
		return Elem(uint32(a) - uint32(b))
	}
	return Elem(P - uint32(b) + uint32(a))
}

// Neg returns (-a) mod P.
func (a Elem) Neg() Elem {
	if a == 0 {
		return 0
	}
	return Elem(P - uint32(a))
}

// Mul returns (a * b) mod P, widening to 64 bits to avoid overflow.
func (a Elem) Mul(b Elem) Elem {
	return Elem((uint64(a) * uint64(b)) % uint64(P))
}

// Pow returns a^k mod P by square-and-multiply.
func (a Elem) Pow(k uint64) Elem {
	result := Elem(1)
	base := a
	for k > 0 {
		if k&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		k >>= 1
	}
	return result
}

// Uint32 returns the element's canonical representative in [0, P).
func (a Elem) Uint32() uint32 {
	return uint32(a)
}
