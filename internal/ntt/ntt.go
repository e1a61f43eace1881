// Package ntt implements the in-place radix-2 Number-Theoretic Transform
// used by the multiplication engine: forward and inverse transforms of a
// length that is a power of two, against the field.Omega root of unity.
//
// The structure follows the corpus's own NTT implementations — the
// Cooley-Tukey bit-reversal-then-butterflies shape used by the BN254 NTT
// precompile and by the Kyber NTT in pkg/crypto/pqc — generalized here to
// operate over internal/field's fixed-modulus field and to use the
// accessor-based, allocation-free butterfly loop of the original
// reference implementation's fft1DPower2.
package ntt

import (
	"errors"
	"math/bits"

	"github.com/eth2030/bignum/internal/field"
)

// ErrNotPowerOfTwo is returned when a transform length is not a power of two.
var ErrNotPowerOfTwo = errors.New("ntt: length must be a power of two")

// ErrTooLarge is returned when a transform length exceeds the field's root
// of unity order.
var ErrTooLarge = errors.New("ntt: length exceeds supported transform size")

// RootOfUnity returns a principal n-th root of unity in F_p, where n is a
// power of two dividing field.PrimitiveOrder.
func RootOfUnity(n uint64) (field.Elem, error) {
	if n == 0 || n&(n-1) != 0 {
		return 0, ErrNotPowerOfTwo
	}
	if n > field.PrimitiveOrder {
		return 0, ErrTooLarge
	}
	return field.Elem(field.Omega).Pow(field.PrimitiveOrder / n), nil
}

// bitReverse reverses the lowest numBits bits of v.
func bitReverse(v, numBits int) int {
	r := 0
	for i := 0; i < numBits; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// permute writes the bit-reversal permutation of src into dst. dst and src
// may be the same slice.
func permute(dst, src []field.Elem) {
	n := len(src)
	logN := bits.Len(uint(n)) - 1
	if &dst[0] == &src[0] {
		for i := 0; i < n; i++ {
			j := bitReverse(i, logN)
			if j > i {
				dst[i], dst[j] = dst[j], dst[i]
			}
		}
		return
	}
	for i := 0; i < n; i++ {
		dst[bitReverse(i, logN)] = src[i]
	}
}

// Forward performs the forward NTT of a in place, using omega as the
// principal len(a)-th root of unity. len(a) must be a power of two.
func Forward(a []field.Elem, omega field.Elem) error {
	n := len(a)
	if n == 0 || n&(n-1) != 0 {
		return ErrNotPowerOfTwo
	}
	permute(a, a)
	butterflies(a, omega)
	return nil
}

// Inverse performs the inverse NTT of a in place. omega must be the same
// principal root of unity passed to the corresponding Forward call; the
// result is rescaled by n^-1 mod P.
func Inverse(a []field.Elem, omega field.Elem) error {
	n := len(a)
	if n == 0 || n&(n-1) != 0 {
		return ErrNotPowerOfTwo
	}
	omegaInv := omega.Pow(uint64(n) - 1)
	permute(a, a)
	butterflies(a, omegaInv)

	logN := bits.Len(uint(n)) - 1
	nInv := field.Elem(field.InvTwo).Pow(uint64(logN))
	for i := range a {
		a[i] = a[i].Mul(nInv)
	}
	return nil
}

// butterflies runs the Cooley-Tukey butterfly network over the
// bit-reversed array a, with twiddles derived from omega.
func butterflies(a []field.Elem, omega field.Elem) {
	n := len(a)
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		wStep := omega.Pow(uint64(n / size))
		w := field.Elem(1)
		for j := 0; j < half; j++ {
			for k := j; k < n; k += size {
				u := a[k]
				v := a[k+half].Mul(w)
				a[k] = u.Add(v)
				a[k+half] = u.Sub(v)
			}
			w = w.Mul(wStep)
		}
	}
}

// Convolve computes the acyclic convolution of a and b by zero-padding both
// to the smallest power of two n >= len(a)+len(b)-1, transforming,
// pointwise multiplying, and inverse-transforming. The result has length n;
// callers that want exactly len(a)+len(b)-1 coefficients should truncate.
//
// Each coefficient of the convolution must remain below field.P for the
// result to be meaningful -- this is the caller's responsibility (spec
// §4.2's contract), since the transform itself cannot detect wraparound.
func Convolve(a, b []field.Elem) ([]field.Elem, error) {
	want := len(a) + len(b) - 1
	n := 1
	for n < want {
		n <<= 1
	}
	omega, err := RootOfUnity(uint64(n))
	if err != nil {
		return nil, err
	}

	fa := make([]field.Elem, n)
	fb := make([]field.Elem, n)
	copy(fa, a)
	copy(fb, b)

	if err := Forward(fa, omega); err != nil {
		return nil, err
	}
	if err := Forward(fb, omega); err != nil {
		return nil, err
	}
	for i := range fa {
		fa[i] = fa[i].Mul(fb[i])
	}
	if err := Inverse(fa, omega); err != nil {
		return nil, err
	}
	return fa, nil
}
