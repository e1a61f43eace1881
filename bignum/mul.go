package bignum

import (
	"math/bits"

	"github.com/eth2030/bignum/internal/field"
	"github.com/eth2030/bignum/internal/limb"
	"github.com/eth2030/bignum/internal/ntt"
)

// multiplyThreshold is THRESH from spec §4.6.4: how much longer one
// operand must be before the partitioned small*large scheme pays off
// over the equal-size ("medium") NTT multiply.
const multiplyThreshold = 2

// Mul returns x * y as a new Int.
//
// Dispatches to the partitioned small*large scheme when one operand is at
// least multiplyThreshold times longer than the other, and to the
// equal-size ("medium") NTT multiply otherwise (spec §4.6.4). Fails with
// ErrOutOfRange if the exact product could not fit in MaxLen limbs.
func Mul(x, y *Int) (*Int, error) {
	mag, err := magMul(x.mag, y.mag)
	if err != nil {
		return nil, err
	}
	nonneg := x.nonneg == y.nonneg
	z := &Int{mag: mag, nonneg: nonneg}
	return z.canonicalize(), nil
}

// Mul computes x * y into z and returns z.
func (z *Int) Mul(x, y *Int) (*Int, error) {
	r, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return z, nil
}

// MulInPlace sets z to z * y, leaving z unchanged on error.
func (z *Int) MulInPlace(y *Int) error {
	r, err := Mul(z, y)
	if err != nil {
		return err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return nil
}

// magMul multiplies two magnitudes, dispatching per spec §4.6.4.
func magMul(a, b *limb.Buffer) (*limb.Buffer, error) {
	if a.IsZero() || b.IsZero() {
		return limb.New(1)
	}
	if a.Len+b.Len > limb.MaxLen {
		return nil, limb.ErrOutOfRange
	}

	var raw []uint32
	var err error
	switch {
	case a.Len >= multiplyThreshold*b.Len:
		raw, err = partitionedMulLimbs(a.D[:a.Len], b.D[:b.Len])
	case b.Len < multiplyThreshold*a.Len:
		raw, err = equalSizeMulLimbs(a, b)
	default:
		raw, err = partitionedMulLimbs(b.D[:b.Len], a.D[:a.Len])
	}
	if err != nil {
		return nil, err
	}

	mag, err := limb.FromLimbs(raw)
	if err != nil {
		return nil, err
	}
	if err := mag.PropagateCarry(); err != nil {
		return nil, err
	}
	mag.ShrinkToFit()
	return mag, nil
}

// equalSizeMulLimbs implements spec §4.6.2 ("medium" multiply), using the
// single-transform self-square optimization of §4.6.1 when a and b are the
// same buffer.
func equalSizeMulLimbs(a, b *limb.Buffer) ([]uint32, error) {
	if a == b {
		return selfSquareLimbs(a.D[:a.Len])
	}
	return mediumMulLimbs(a.D[:a.Len], b.D[:b.Len])
}

// selfSquareLimbs squares a single magnitude with one forward transform
// (spec §4.6.1): the buffer is conceptually resized so cap >= 2*len, a
// single NTT-square-inverse-NTT yields the convolution.
func selfSquareLimbs(a []uint32) ([]uint32, error) {
	n := len(a)
	N := 1
	for N < 2*n {
		N <<= 1
	}
	omega, err := ntt.RootOfUnity(uint64(N))
	if err != nil {
		return nil, err
	}

	fa := make([]field.Elem, N)
	for i, v := range a {
		fa[i] = field.New(v)
	}
	if err := ntt.Forward(fa, omega); err != nil {
		return nil, err
	}
	for i := range fa {
		fa[i] = fa[i].Mul(fa[i])
	}
	if err := ntt.Inverse(fa, omega); err != nil {
		return nil, err
	}

	out := make([]uint32, 2*n-1)
	for i := range out {
		out[i] = fa[i].Uint32()
	}
	return out, nil
}

// mediumMulLimbs implements spec §4.6.2 directly via internal/ntt's
// acyclic convolution.
func mediumMulLimbs(a, b []uint32) ([]uint32, error) {
	fa := make([]field.Elem, len(a))
	for i, v := range a {
		fa[i] = field.New(v)
	}
	fb := make([]field.Elem, len(b))
	for i, v := range b {
		fb[i] = field.New(v)
	}
	conv, err := ntt.Convolve(fa, fb)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(a)+len(b)-1)
	for i := range out {
		out[i] = conv[i].Uint32()
	}
	return out, nil
}

// choosePartitionN picks the power-of-two transform length N minimizing
// the cost model ceil(longLen/L) * N * log2(N), where L = N - shortLen + 1
// (spec §4.6.3).
func choosePartitionN(longLen, shortLen int) int {
	bestN := 0
	bestCost := int64(-1)
	for e := 1; ; e++ {
		N := 1 << e
		L := N - shortLen + 1
		if L <= 0 {
			continue
		}
		blocks := (longLen + L - 1) / L
		cost := int64(blocks) * int64(N) * int64(bits.Len(uint(N))-1)
		if bestCost < 0 || cost < bestCost {
			bestCost = cost
			bestN = N
		}
		if L >= longLen || N > 4*(longLen+shortLen) {
			break
		}
	}
	return bestN
}

// partitionedMulLimbs implements the small*large overlap-add scheme of
// spec §4.6.3: the short operand is forward-transformed once; each block
// of the long operand is transformed, pointwise multiplied against the
// cached short spectrum, inverse-transformed, and added into the output
// at the block's offset (adjacent blocks' results overlap in the last
// shortLen-1 samples).
func partitionedMulLimbs(long, short []uint32) ([]uint32, error) {
	longLen, shortLen := len(long), len(short)
	N := choosePartitionN(longLen, shortLen)
	L := N - shortLen + 1

	omega, err := ntt.RootOfUnity(uint64(N))
	if err != nil {
		return nil, err
	}

	shortSpec := make([]field.Elem, N)
	for i, v := range short {
		shortSpec[i] = field.New(v)
	}
	if err := ntt.Forward(shortSpec, omega); err != nil {
		return nil, err
	}

	out := make([]uint32, longLen+shortLen-1)
	buf := make([]field.Elem, N)
	for blockStart := 0; blockStart < longLen; blockStart += L {
		blockLen := L
		if blockStart+blockLen > longLen {
			blockLen = longLen - blockStart
		}

		for i := range buf {
			buf[i] = 0
		}
		for i := 0; i < blockLen; i++ {
			buf[i] = field.New(long[blockStart+i])
		}

		if err := ntt.Forward(buf, omega); err != nil {
			return nil, err
		}
		for i := range buf {
			buf[i] = buf[i].Mul(shortSpec[i])
		}
		if err := ntt.Inverse(buf, omega); err != nil {
			return nil, err
		}

		resLen := blockLen + shortLen - 1
		for i := 0; i < resLen; i++ {
			out[blockStart+i] += buf[i].Uint32()
		}
	}
	return out, nil
}

// multiplyShr computes floor((a*b) / 2^k) (spec §4.6.5). Unlike the
// original reference implementation -- which, when the exact product
// would exceed MaxLen limbs, splits each operand at MaxLen/2 limbs and
// sums four shifted partial products -- this computes the convolution
// directly at its full, possibly-over-MaxLen length: internal/ntt's
// transform ceiling is 2^27, far beyond twice MaxLen (2^16), so there is
// no need to avoid an over-MaxLen intermediate the way the original's
// MaxLen-bounded buffer representation did. The two techniques compute
// the identical floor(a*b/2^k); this is documented in DESIGN.md.
func multiplyShr(a, b *limb.Buffer, k uint) (*limb.Buffer, error) {
	raw, err := mediumMulLimbs(a.D[:a.Len], b.D[:b.Len])
	if err != nil {
		return nil, err
	}
	normalized := propagateCarryRaw(raw)
	shifted := shrRawLimbs(normalized, k)
	mag, err := limb.FromLimbs(shifted)
	if err != nil {
		return nil, err
	}
	mag.ShrinkToFit()
	return mag, nil
}

// multiplyTruncate computes floor((a*b) / 2^(limbCount*E)) (spec §4.8,
// step 2: "via multiplyTruncate, which is multiplyShr by bit count equal
// to E x limb count").
func multiplyTruncate(a, b *limb.Buffer, limbCount int) (*limb.Buffer, error) {
	return multiplyShr(a, b, uint(limbCount)*limb.E)
}

// propagateCarryRaw normalizes a slice of possibly-unnormalized limb sums
// (as produced directly by an NTT convolution) into canonical < 2^E
// limbs, growing the slice for any residual carry. Unlike
// limb.Buffer.PropagateCarry, this has no MaxLen ceiling -- it operates
// on bare convolution output that may temporarily exceed MaxLen before
// being shifted back down by multiplyShr's caller.
func propagateCarryRaw(vals []uint32) []uint32 {
	out := make([]uint32, len(vals), len(vals)+8)
	var carry uint64
	for i, v := range vals {
		s := uint64(v) + carry
		out[i] = uint32(s & 0xFF)
		carry = s >> 8
	}
	for carry > 0 {
		out = append(out, uint32(carry&0xFF))
		carry >>= 8
	}
	return out
}

// shrRawLimbs right-shifts a normalized (each limb < 2^E), MaxLen-agnostic
// limb slice by k bits.
func shrRawLimbs(vals []uint32, k uint) []uint32 {
	limbShift := int(k / limb.E)
	bitShift := k % limb.E
	if limbShift >= len(vals) {
		return []uint32{0}
	}
	newLen := len(vals) - limbShift
	out := make([]uint32, newLen)
	for i := 0; i < newLen; i++ {
		srcIdx := i + limbShift
		v := vals[srcIdx] >> bitShift
		if bitShift > 0 && srcIdx+1 < len(vals) {
			v |= (vals[srcIdx+1] << (limb.E - bitShift)) & 0xFF
		}
		out[i] = v
	}
	return out
}
