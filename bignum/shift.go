package bignum

import "github.com/eth2030/bignum/internal/limb"

// maxShiftBits is the largest shift count that can possibly land inside a
// MaxLen-limb buffer; shift counts at or beyond it are a domain error
// (spec §4.5, Testable Property 11).
const maxShiftBits = uint(limb.MaxLen * limb.E)

// Lsh returns x << k.
//
// Bits shifted past MaxLen*E (the widest representable magnitude) are
// silently discarded rather than raising ErrOutOfRange -- this matches
// the original reference implementation's behavior exactly (spec §9,
// "preserve this behavior only if matching the source exactly"; a safer
// rewrite would raise ErrOutOfRange instead).
func Lsh(x *Int, k uint) (*Int, error) {
	if k >= maxShiftBits {
		return nil, ErrDomainError
	}
	if x.IsZero() {
		return New(), nil
	}

	limbShift := int(k / limb.E)
	bitShift := k % limb.E

	oldLen := x.mag.Len
	newLen := oldLen + limbShift
	if bitShift > 0 {
		newLen++
	}
	if newLen > limb.MaxLen {
		newLen = limb.MaxLen
	}

	result := make([]uint32, newLen)
	for i := 0; i < oldLen; i++ {
		destIdx := i + limbShift
		if destIdx >= newLen {
			break
		}
		v := x.mag.D[i] << bitShift
		result[destIdx] |= v & 0xFF
		if destIdx+1 < newLen {
			result[destIdx+1] |= v >> 8
		}
	}

	mag, err := limb.FromLimbs(result)
	if err != nil {
		return nil, err
	}
	mag.ShrinkToFit()
	return (&Int{mag: mag, nonneg: x.nonneg}).canonicalize(), nil
}

// Lsh computes x << k into z and returns z.
func (z *Int) Lsh(x *Int, k uint) (*Int, error) {
	r, err := Lsh(x, k)
	if err != nil {
		return nil, err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return z, nil
}

// LshInPlace shifts z left by k bits in place.
func (z *Int) LshInPlace(k uint) error {
	r, err := Lsh(z, k)
	if err != nil {
		return err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return nil
}

// Rsh returns x >> k. Shifting by at least x's bit length yields zero.
//
// This is a true arithmetic-magnitude right shift (truncating toward
// zero) -- the original reference implementation's operator>>= appears to
// delegate to its left-shift code by mistake; that bug is intentionally
// not reproduced here (spec §9).
func Rsh(x *Int, k uint) (*Int, error) {
	if k >= maxShiftBits {
		return nil, ErrDomainError
	}
	limbShift := int(k / limb.E)
	bitShift := k % limb.E

	if limbShift >= x.mag.Len {
		return New(), nil
	}

	newLen := x.mag.Len - limbShift
	result := make([]uint32, newLen)
	for i := 0; i < newLen; i++ {
		srcIdx := i + limbShift
		v := x.mag.D[srcIdx] >> bitShift
		if bitShift > 0 && srcIdx+1 < x.mag.Len {
			v |= (x.mag.D[srcIdx+1] << (limb.E - bitShift)) & 0xFF
		}
		result[i] = v
	}

	mag, err := limb.FromLimbs(result)
	if err != nil {
		return nil, err
	}
	mag.ShrinkToFit()
	return (&Int{mag: mag, nonneg: x.nonneg}).canonicalize(), nil
}

// Rsh computes x >> k into z and returns z.
func (z *Int) Rsh(x *Int, k uint) (*Int, error) {
	r, err := Rsh(x, k)
	if err != nil {
		return nil, err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return z, nil
}

// RshInPlace shifts z right by k bits in place.
func (z *Int) RshInPlace(k uint) error {
	r, err := Rsh(z, k)
	if err != nil {
		return err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return nil
}
