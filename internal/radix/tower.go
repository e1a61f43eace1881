package radix

import "sync"

// tower caches, for a single radix, the doubling sequence B[k] =
// radix^(2^k) as raw base-2^limb.E magnitudes, materialized on demand by
// squaring the previous entry. This is what the generic producer and
// consumer recurse against: halving the digit count at each level
// instead of peeling one division per output digit.
//
// The radix-10 tower is process-wide and shared between the decimal
// producer and consumer (spec §3's "decimal-power cache"), guarded by a
// mutex around the append; any other radix gets a private tower owned by
// the single Producer/Consumer that built it (spec §4.11: "the generic
// consumer maintains its own tower").
type tower struct {
	mu     *sync.Mutex // nil for a private, single-owner tower
	levels [][]uint32
}

func newPrivateTower(radix uint32) *tower {
	return &tower{levels: [][]uint32{{radix}}}
}

var sharedDecimalTower = &tower{mu: &sync.Mutex{}, levels: [][]uint32{{10}}}

// towerFor returns the tower to recurse against for radix: the shared,
// lock-guarded decimal tower for radix 10, or a fresh private tower
// otherwise.
func towerFor(radix uint32) *tower {
	if radix == 10 {
		return sharedDecimalTower
	}
	return newPrivateTower(radix)
}

// level returns B[k], growing the cache by repeated squaring if needed.
func (t *tower) level(k int) []uint32 {
	if t.mu != nil {
		t.mu.Lock()
		defer t.mu.Unlock()
	}
	for len(t.levels) <= k {
		prev := t.levels[len(t.levels)-1]
		t.levels = append(t.levels, rawMulBig(prev, prev))
	}
	return t.levels[k]
}

// --- raw big-magnitude arithmetic (base 2^limb.E, arbitrary length) ---
//
// These operate on plain []uint32 limb slices rather than *limb.Buffer or
// *bignum.Int: this package sits below bignum in the import graph (bignum
// imports internal/radix, never the reverse), so the tower's own
// multiply and divide cannot reuse bignum's NTT multiply or
// Newton/Barrett division -- they are self-contained schoolbook
// routines, scoped to what the tower needs.

func effLen(a []uint32) int {
	n := len(a)
	for n > 1 && a[n-1] == 0 {
		n--
	}
	if n == 0 {
		return 1
	}
	return n
}

func trimBig(a []uint32) []uint32 {
	n := effLen(a)
	if n == len(a) {
		return a
	}
	return a[:n]
}

func isZeroBig(a []uint32) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

func rawCompareBig(a, b []uint32) int {
	la, lb := effLen(a), effLen(b)
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

func rawAddBig(a, b []uint32) []uint32 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint32, n)
	var carry uint64
	for i := 0; i < n; i++ {
		var av, bv uint64
		if i < len(a) {
			av = uint64(a[i])
		}
		if i < len(b) {
			bv = uint64(b[i])
		}
		s := av + bv + carry
		out[i] = uint32(s & 0xFF)
		carry = s >> 8
	}
	for carry > 0 {
		out = append(out, uint32(carry&0xFF))
		carry >>= 8
	}
	return trimBig(out)
}

// rawSubBig computes a-b, requiring a >= b.
func rawSubBig(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow int64
	for i := range a {
		av := int64(a[i])
		var bv int64
		if i < len(b) {
			bv = int64(b[i])
		}
		d := av - bv - borrow
		if d < 0 {
			d += 256
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint32(d)
	}
	return trimBig(out)
}

// rawMulBig is schoolbook O(len(a)*len(b)) multiplication: every partial
// product is summed into a per-column uint64 accumulator (no column can
// overflow uint64 at the lengths this package deals in), then a single
// carry-propagation pass converts the accumulator to base-2^E limbs.
func rawMulBig(a, b []uint32) []uint32 {
	if isZeroBig(a) || isZeroBig(b) {
		return []uint32{0}
	}
	la, lb := effLen(a), effLen(b)
	acc := make([]uint64, la+lb)
	for i := 0; i < la; i++ {
		if a[i] == 0 {
			continue
		}
		ai := uint64(a[i])
		for j := 0; j < lb; j++ {
			acc[i+j] += ai * uint64(b[j])
		}
	}
	out := make([]uint32, 0, len(acc)+1)
	var carry uint64
	for _, v := range acc {
		s := v + carry
		out = append(out, uint32(s&0xFF))
		carry = s >> 8
	}
	for carry > 0 {
		out = append(out, uint32(carry&0xFF))
		carry >>= 8
	}
	return trimBig(out)
}

// rawDivModBig is schoolbook long division in base 2^E: one output limb
// at a time, each found by an 8-bit binary search against a trial
// multiply of the divisor (b must be nonzero).
func rawDivModBig(a, b []uint32) (q, r []uint32) {
	aEff := effLen(a)
	q = make([]uint32, aEff)
	rem := []uint32{0}
	for i := aEff - 1; i >= 0; i-- {
		rem = rawAddBig(mulSmallRaw(rem, 256), []uint32{a[i]})
		lo, hi := 0, 255
		for lo < hi {
			mid := (lo + hi + 1) / 2
			prod := rawMulBig(b, []uint32{uint32(mid)})
			if rawCompareBig(prod, rem) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		q[i] = uint32(lo)
		if lo > 0 {
			rem = rawSubBig(rem, rawMulBig(b, []uint32{uint32(lo)}))
		}
	}
	return trimBig(q), trimBig(rem)
}
