package bignum

import (
	"math/bits"

	"github.com/eth2030/bignum/internal/limb"
)

// shortDivisorLimbs is the largest divisor limb count handled by the plain
// schoolbook single-word division path; divisors within this bound fit a
// uint64 exactly (limb.E * shortDivisorLimbs == 64).
const shortDivisorLimbs = 8

// QuoRem returns the quotient and remainder of x / y, truncating toward
// zero (the remainder takes the dividend's sign, matching the original
// reference implementation's C++ semantics). Dividing by zero returns
// ErrDomainError.
func QuoRem(x, y *Int) (*Int, *Int, error) {
	if y.mag.IsZero() {
		return nil, nil, ErrDomainError
	}

	magQ, magR, err := magDivMod(x.mag, y.mag)
	if err != nil {
		return nil, nil, err
	}

	q := (&Int{mag: magQ, nonneg: x.nonneg == y.nonneg}).canonicalize()
	r := (&Int{mag: magR, nonneg: x.nonneg}).canonicalize()
	return q, r, nil
}

// QuoRem computes x / y into z (quotient) and w (remainder).
func (z *Int) QuoRem(w, x, y *Int) error {
	q, r, err := QuoRem(x, y)
	if err != nil {
		return err
	}
	z.mag, z.nonneg = q.mag, q.nonneg
	w.mag, w.nonneg = r.mag, r.nonneg
	return nil
}

// QuoRemInPlace sets z to z/y and returns the remainder as a new Int,
// leaving z unchanged on error -- except when the divisor requires the
// chunked Newton/Barrett division loop (divisor wider than
// shortDivisorLimbs limbs): a failure partway through that loop may leave
// z canonically zeroed rather than restored to its original value (spec
// §7's documented exception to strong exception safety).
func (z *Int) QuoRemInPlace(y *Int) (*Int, error) {
	q, r, err := QuoRem(z, y)
	if err != nil {
		if y.mag.Len > shortDivisorLimbs {
			z.mag, z.nonneg = New().mag, true
		}
		return nil, err
	}
	z.mag, z.nonneg = q.mag, q.nonneg
	return r, nil
}

// magDivMod divides two magnitudes, dispatching on divisor size: zero
// dividend, a divisor that fits a uint64 (plain schoolbook single-word
// division), or the general Newton-inverse/Barrett-reduction path.
//
// The general path subsumes what spec §4.7-§4.9 describe as two separate
// cases -- "medium" (dividend and divisor of comparable size) and the
// chunked "big-dividend" loop -- into a single chunked routine: each
// chunk's division is itself the medium case, and a dividend only one
// chunk long degenerates to exactly that case with no special-casing
// needed. This consolidation is recorded in DESIGN.md.
func magDivMod(a, b *limb.Buffer) (*limb.Buffer, *limb.Buffer, error) {
	if limb.CompareRaw(a, b) < 0 {
		zero, _ := limb.New(1)
		return zero, a.Clone(), nil
	}
	if b.Len <= shortDivisorLimbs {
		bd := limbsToUint64(b.D[:b.Len])
		mag, rem, err := shortDivMod(a, bd)
		if err != nil {
			return nil, nil, err
		}
		remMag, err := limb.FromLimbs(uint64ToLimbs(rem))
		if err != nil {
			return nil, nil, err
		}
		remMag.ShrinkToFit()
		return mag, remMag, nil
	}
	return magDivModLarge(a, b)
}

// limbsToUint64 packs up to 8 little-endian base-256 limbs into a uint64.
func limbsToUint64(limbs []uint32) uint64 {
	var v uint64
	for i, l := range limbs {
		v |= uint64(l) << (8 * uint(i))
	}
	return v
}

// uint64ToLimbs unpacks a uint64 into little-endian base-256 limbs.
func uint64ToLimbs(v uint64) []uint32 {
	out := make([]uint32, 8)
	for i := range out {
		out[i] = uint32(v & 0xFF)
		v >>= 8
	}
	return out
}

// shortDivMod divides a by a divisor that fits in a uint64, via plain
// base-256 schoolbook long division: bd's remainder invariant
// (0 <= rem < bd) guarantees each step's quotient digit is itself < 256.
func shortDivMod(a *limb.Buffer, bd uint64) (*limb.Buffer, uint64, error) {
	if bd == 0 {
		return nil, 0, ErrDomainError
	}
	q := make([]uint32, a.Len)
	var rem uint64
	for i := a.Len - 1; i >= 0; i-- {
		hi := rem >> 56
		lo := (rem << 8) | uint64(a.D[i])
		quot, r := bits.Div64(hi, lo, bd)
		q[i] = uint32(quot)
		rem = r
	}
	mag, err := limb.FromLimbs(q)
	if err != nil {
		return nil, 0, err
	}
	mag.ShrinkToFit()
	return mag, rem, nil
}

// --- general (Newton inverse + Barrett reduction) division path ---
//
// These helpers operate on plain little-endian base-256 limb slices with
// no MaxLen ceiling and no trailing-zero canonicalization invariant
// (unlike limb.Buffer) -- they are purely internal working storage for
// the chunked division loop below.

func trimRaw(a []uint32) int {
	n := len(a)
	for n > 1 && a[n-1] == 0 {
		n--
	}
	return n
}

func rawCompare(a, b []uint32) int {
	la, lb := trimRaw(a), trimRaw(b)
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	for i := la - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// rawAdd returns a+b.
func rawAdd(a, b []uint32) []uint32 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint32, n)
	var carry uint64
	for i := 0; i < n; i++ {
		var av, bv uint32
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		s := uint64(av) + uint64(bv) + carry
		out[i] = uint32(s & 0xFF)
		carry = s >> 8
	}
	for carry > 0 {
		out = append(out, uint32(carry&0xFF))
		carry >>= 8
	}
	return out
}

// rawSub returns a-b; requires a >= b (an internal invariant violation
// panics, matching limb.Buffer.SubRaw's convention rather than returning
// an error, spec §7).
func rawSub(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow int64
	for i := range a {
		var bv uint32
		if i < len(b) {
			bv = b[i]
		}
		d := int64(a[i]) - int64(bv) - borrow
		if d < 0 {
			d += 0x100
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint32(d)
	}
	if borrow != 0 {
		panic(errRawUnderflow)
	}
	return out
}

var errRawUnderflow = domainError("bignum: internal division underflow")

func bitLenRaw(a []uint32) int {
	n := trimRaw(a)
	return (n-1)*int(limb.E) + bits.Len32(a[n-1])
}

// pow2Raw returns the exact value 2^n as a raw limb slice.
func pow2Raw(n int) []uint32 {
	limbIdx := n / int(limb.E)
	bit := uint(n % int(limb.E))
	out := make([]uint32, limbIdx+1)
	out[limbIdx] = 1 << bit
	return out
}

// shlRaw shifts a raw limb slice left by k bits.
func shlRaw(a []uint32, k uint) []uint32 {
	limbShift := int(k / limb.E)
	bitShift := k % limb.E
	n := trimRaw(a)
	out := make([]uint32, n+limbShift+1)
	for i := 0; i < n; i++ {
		v := a[i] << bitShift
		out[i+limbShift] |= v & 0xFF
		out[i+limbShift+1] |= v >> 8
	}
	return out
}

// topBits64 returns the top min(w, bitLenRaw(a)) bits of a as a uint64.
func topBits64(a []uint32, w int) uint64 {
	L := bitLenRaw(a)
	if w > L {
		w = L
	}
	shifted := shrRawLimbs(a, uint(L-w))
	var v uint64
	n := trimRaw(shifted)
	for i := 0; i < n && i < 8; i++ {
		v |= uint64(shifted[i]) << (8 * uint(i))
	}
	return v
}

// newtonInverse approximates mu = floor(2^(2L) / d) via fixed-point Newton
// iteration (spec §4.7), where L is d's bit length. The loop stops after
// bits.Len(L)+4 rounds or once the correction term is zero, so the result
// can differ from the exact floor by a small amount; barrettStep's
// correction loops absorb that difference. The iteration starts
// from a seed derived from d's top 62 bits via a single hardware 128/64
// division, then repeatedly applies x_(n+1) = x_n + x_n*(2^(2L) - d*x_n)
// shifted right by 2L -- computed here via explicit sign tracking (the
// correction term can be negative once x_n overshoots) rather than the
// original's MaxLen/2 operand split, since these raw slices have no
// MaxLen ceiling to protect (see multiplyShr's doc comment for the same
// substitution elsewhere in this package).
func newtonInverse(d []uint32) ([]uint32, int) {
	L := bitLenRaw(d)
	w := L
	if w > 62 {
		w = 62
	}
	td := topBits64(d, w)
	shiftAmt := L - w

	var hi, lo uint64
	if 2*w < 64 {
		lo = uint64(1) << uint(2*w)
	} else {
		hi = uint64(1) << uint(2*w-64)
	}
	seed0, _ := bits.Div64(hi, lo, td)
	x := shlRaw(uint64ToLimbs(seed0), uint(shiftAmt))

	target := pow2Raw(2 * L)
	maxIter := bits.Len(uint(L)) + 4

	for iter := 0; iter < maxIter; iter++ {
		prod, _ := mediumMulLimbs(x, d)
		prodNorm := propagateCarryRaw(prod)

		cmp := rawCompare(prodNorm, target)
		if cmp == 0 {
			break
		}

		var diff []uint32
		overshoot := cmp > 0
		if overshoot {
			diff = rawSub(prodNorm, target)
		} else {
			diff = rawSub(target, prodNorm)
		}

		corrProd, _ := mediumMulLimbs(x, diff)
		corrNorm := propagateCarryRaw(corrProd)
		corr := shrRawLimbs(corrNorm, uint(2*L))
		if trimRaw(corr) == 1 && corr[0] == 0 {
			break
		}

		if overshoot {
			if rawCompare(corr, x) > 0 {
				// A wild overestimate this early is only possible for
				// small L, where barrettStep's own correction loops make
				// an imprecise mu harmless; stop iterating rather than
				// underflow.
				break
			}
			x = rawSub(x, corr)
		} else {
			x = rawAdd(x, corr)
		}
	}
	return x, L
}

// barrettStep computes (qi, ri) = (current / d, current mod d) using the
// precomputed reciprocal mu = floor(2^(2L)/d), for a current whose value
// satisfies current < d * 2^(chunk*E) (the invariant magDivModLarge
// maintains between chunks). The initial Barrett estimate q1 =
// floor(current*mu / 2^(2L)) can be off by a small amount in either
// direction; both correction directions are resolved by direct
// comparison loops rather than a fixed ±1/±2 assumption, which keeps this
// step correct independent of exactly how many Newton iterations mu
// converged through.
func barrettStep(current, d, mu []uint32, L int) (qi, ri []uint32) {
	prod, _ := mediumMulLimbs(current, mu)
	prodNorm := propagateCarryRaw(prod)
	q := shrRawLimbs(prodNorm, uint(2*L))

	qd, _ := mediumMulLimbs(q, d)
	qdNorm := propagateCarryRaw(qd)

	one := []uint32{1}
	for rawCompare(current, qdNorm) < 0 {
		q = rawSub(q, one)
		qdNorm = rawSub(qdNorm, d)
	}
	r := rawSub(current, qdNorm)
	for rawCompare(r, d) >= 0 {
		r = rawSub(r, d)
		q = rawAdd(q, one)
	}
	return q, r
}

// magDivModLarge divides a by b when b is wider than shortDivisorLimbs
// limbs, processing a from its most significant limb downward in blocks
// of b.Len limbs (spec §4.9's chunked "big-dividend" loop), using a
// single Newton-derived reciprocal for every block.
func magDivModLarge(a, b *limb.Buffer) (*limb.Buffer, *limb.Buffer, error) {
	d := b.D[:b.Len]
	mu, L := newtonInverse(d)

	chunk := b.Len
	n := a.Len
	numChunks := (n + chunk - 1) / chunk

	quotient := make([]uint32, n)
	remainder := []uint32{0}

	for ci := 0; ci < numChunks; ci++ {
		hiIdx := n - ci*chunk
		loIdx := hiIdx - chunk
		if loIdx < 0 {
			loIdx = 0
		}
		block := make([]uint32, hiIdx-loIdx)
		copy(block, a.D[loIdx:hiIdx])

		shiftedRem := shlRaw(remainder, uint(len(block)*int(limb.E)))
		current := rawAdd(shiftedRem, block)

		qi, ri := barrettStep(current, d, mu, L)
		remainder = ri

		// qi < 2^(len(block)*E), so it fills exactly the block's own limb
		// positions in the quotient.
		copy(quotient[loIdx:hiIdx], qi)
	}

	magQ, err := limb.FromLimbs(quotient)
	if err != nil {
		return nil, nil, err
	}
	magQ.ShrinkToFit()

	magR, err := limb.FromLimbs(remainder)
	if err != nil {
		return nil, nil, err
	}
	magR.ShrinkToFit()
	return magQ, magR, nil
}
