// Package radix implements the digit producers and consumers that
// translate between a magnitude buffer and a stream of digits in an
// arbitrary radix: a fast bit-extraction path for power-of-two radices,
// and a divide-and-conquer path for everything else, recursing against
// the doubling tower cached in tower.go.
package radix

import (
	"errors"
	"math/bits"

	"github.com/eth2030/bignum/internal/limb"
)

// ErrDomainError is returned for an out-of-range radix or a digit value
// that does not fit the configured radix.
var ErrDomainError = errors.New("radix: invalid digit or radix")

// Producer yields a magnitude's digits in a fixed radix, most
// significant digit first. Implemented as a plain struct with a Next
// method rather than a coroutine/generator (spec §9).
type Producer interface {
	// Next returns the next digit and true, or (0, false) once every
	// digit -- including at least one leading digit for a zero
	// magnitude -- has been produced.
	Next() (digit uint32, ok bool)
}

// Consumer accumulates a stream of most-significant-first digits into a
// magnitude.
type Consumer interface {
	// Push appends the next (less significant than all previously
	// pushed) digit. Returns ErrDomainError if digit >= radix.
	Push(digit uint32) error
	// Finalize returns the accumulated magnitude. The consumer must not
	// be reused afterward.
	Finalize() *limb.Buffer
}

// NewProducer returns a Producer over mag's digits in the given radix.
func NewProducer(mag *limb.Buffer, radix uint32) (Producer, error) {
	if radix < 2 {
		return nil, ErrDomainError
	}
	if isPow2(radix) {
		return newPow2Producer(mag, log2(radix)), nil
	}
	return newGenericProducer(mag, radix), nil
}

// NewConsumer returns a Consumer that accumulates digits in the given radix.
func NewConsumer(radix uint32) (Consumer, error) {
	if radix < 2 {
		return nil, ErrDomainError
	}
	if isPow2(radix) {
		return &pow2Consumer{radixBits: log2(radix)}, nil
	}
	return &genericConsumer{radix: radix}, nil
}

func isPow2(r uint32) bool { return r&(r-1) == 0 }

func log2(r uint32) int {
	n := 0
	for r > 1 {
		r >>= 1
		n++
	}
	return n
}

func bufBitLen(b *limb.Buffer) int {
	if b.IsZero() {
		return 0
	}
	top := b.D[b.Len-1]
	return (b.Len-1)*limb.E + bits.Len32(top)
}

// --- power-of-two radix: direct bit extraction (spec §4.10's exact and
// small/large power-of-two producer variants, unified since bit
// extraction is uniformly cheap regardless of how radixBits compares to
// limb.E) ---

type pow2Producer struct {
	d         []uint32
	radixBits int
	pos       int // next digit index (0 = least significant), counting down
}

func newPow2Producer(mag *limb.Buffer, radixBits int) *pow2Producer {
	total := bufBitLen(mag)
	numDigits := (total + radixBits - 1) / radixBits
	if numDigits < 1 {
		numDigits = 1
	}
	return &pow2Producer{d: mag.D[:mag.Len], radixBits: radixBits, pos: numDigits - 1}
}

func (p *pow2Producer) Next() (uint32, bool) {
	if p.pos < 0 {
		return 0, false
	}
	v := extractBits(p.d, p.pos*p.radixBits, p.radixBits)
	p.pos--
	return v, true
}

func extractBits(d []uint32, bitOffset, numBits int) uint32 {
	var v uint32
	for i := 0; i < numBits; i++ {
		bitPos := bitOffset + i
		limbIdx := bitPos / limb.E
		bitIdx := uint(bitPos % limb.E)
		if limbIdx < len(d) {
			v |= ((d[limbIdx] >> bitIdx) & 1) << uint(i)
		}
	}
	return v
}

type pow2Consumer struct {
	radixBits int
	acc       []uint32
}

func (c *pow2Consumer) Push(digit uint32) error {
	if digit>>uint(c.radixBits) != 0 {
		return ErrDomainError
	}
	c.acc = shlRaw(c.acc, c.radixBits)
	c.acc = addUint32Raw(c.acc, digit)
	return nil
}

func (c *pow2Consumer) Finalize() *limb.Buffer {
	return finalizeRaw(c.acc)
}

// --- generic (non-power-of-two) radix: divide-and-conquer against a
// doubling tower B[k] = radix^(2^k) (spec §4.10/§4.11) ---

type genericProducer struct {
	digits []uint32 // most significant first, precomputed by digitsOf
	pos    int
}

func newGenericProducer(mag *limb.Buffer, radix uint32) *genericProducer {
	n := trimBig(append([]uint32(nil), mag.D[:mag.Len]...))
	return &genericProducer{digits: digitsOf(towerFor(radix), radix, n)}
}

func (p *genericProducer) Next() (uint32, bool) {
	if p.pos >= len(p.digits) {
		return 0, false
	}
	v := p.digits[p.pos]
	p.pos++
	return v, true
}

// digitsOf returns n's digits in the given radix, most significant
// first, by finding the smallest tower level strictly greater than n and
// recursing (digitsOfBounded).
func digitsOf(t *tower, radix uint32, n []uint32) []uint32 {
	if isZeroBig(n) {
		return []uint32{0}
	}
	k := 0
	for rawCompareBig(t.level(k), n) <= 0 {
		k++
	}
	return digitsOfBounded(t, radix, n, k)
}

// digitsOfBounded returns x's digits, most significant first, given that
// B[k] > x (not necessarily the tightest such k). It halves the problem
// at each level: find the greatest j < k with B[j] <= x, split
// x = q*B[j] + r, recurse on q (itself < B[j], so bounded by the same
// j) and left-pad r's digits to the fixed width 2^j that every value
// below B[j] occupies.
func digitsOfBounded(t *tower, radix uint32, x []uint32, k int) []uint32 {
	if len(x) == 1 && x[0] < radix {
		return []uint32{x[0]}
	}
	j := k - 1
	for j > 0 && rawCompareBig(t.level(j), x) > 0 {
		j--
	}
	Bj := t.level(j)
	width := 1 << uint(j)
	if rawCompareBig(Bj, x) == 0 {
		// x == B[j] exactly: its natural representation is a leading 1
		// followed by exactly `width` zeros (radix^(2^j) has 2^j+1 digits).
		out := make([]uint32, width+1)
		out[0] = 1
		return out
	}
	q, r := rawDivModBig(x, Bj)
	qDigits := digitsOfBounded(t, radix, q, j)
	rDigits := digitsOfBounded(t, radix, r, j)
	return append(qDigits, leftPad(rDigits, width)...)
}

func leftPad(d []uint32, width int) []uint32 {
	if len(d) >= width {
		return d
	}
	out := make([]uint32, width)
	copy(out[width-len(d):], d)
	return out
}

// genericConsumer implements the spec's "push onto a stack and combine"
// construction: each pushed digit starts a level-0 entry; whenever the
// top two entries share a level the pair is folded (high*B[level]+low)
// into a level+1 entry. This is exactly a binary counter over the digit
// count, so after all pushes the surviving stack holds strictly
// increasing levels from top (least significant) to bottom (most
// significant) -- Finalize folds them in that order.
type genericConsumer struct {
	radix uint32
	tw    *tower
	stack []genericConsumerEntry
}

type genericConsumerEntry struct {
	value []uint32
	level int
}

func (c *genericConsumer) Push(digit uint32) error {
	if digit >= c.radix {
		return ErrDomainError
	}
	if c.tw == nil {
		c.tw = towerFor(c.radix)
	}
	c.stack = append(c.stack, genericConsumerEntry{value: []uint32{digit}, level: 0})
	for len(c.stack) >= 2 {
		top := c.stack[len(c.stack)-1]
		second := c.stack[len(c.stack)-2]
		if top.level != second.level {
			break
		}
		combined := rawAddBig(rawMulBig(second.value, c.tw.level(top.level)), top.value)
		c.stack = c.stack[:len(c.stack)-2]
		c.stack = append(c.stack, genericConsumerEntry{value: combined, level: top.level + 1})
	}
	return nil
}

func (c *genericConsumer) Finalize() *limb.Buffer {
	if len(c.stack) == 0 {
		return finalizeRaw([]uint32{0})
	}
	result := c.stack[0].value
	for i := 1; i < len(c.stack); i++ {
		e := c.stack[i]
		result = rawAddBig(rawMulBig(result, c.tw.level(e.level)), e.value)
	}
	return finalizeRaw(result)
}

// --- shared raw-limb helpers (base 2^limb.E, unbounded length) ---

func shlRaw(a []uint32, k int) []uint32 {
	if len(a) == 0 {
		a = []uint32{0}
	}
	limbShift := k / limb.E
	bitShift := uint(k % limb.E)
	n := len(a)
	for n > 1 && a[n-1] == 0 {
		n--
	}
	out := make([]uint32, n+limbShift+1)
	for i := 0; i < n; i++ {
		v := a[i] << bitShift
		out[i+limbShift] |= v & 0xFF
		out[i+limbShift+1] |= v >> 8
	}
	return out
}

func mulSmallRaw(a []uint32, m uint32) []uint32 {
	out := make([]uint32, len(a))
	var carry uint64
	for i, v := range a {
		s := uint64(v)*uint64(m) + carry
		out[i] = uint32(s & 0xFF)
		carry = s >> 8
	}
	for carry > 0 {
		out = append(out, uint32(carry&0xFF))
		carry >>= 8
	}
	if len(out) == 0 {
		out = []uint32{0}
	}
	return out
}

func addUint32Raw(a []uint32, v uint32) []uint32 {
	out := make([]uint32, len(a))
	copy(out, a)
	carry := uint64(v)
	for i := 0; i < len(out) && carry > 0; i++ {
		s := uint64(out[i]) + carry
		out[i] = uint32(s & 0xFF)
		carry = s >> 8
	}
	for carry > 0 {
		out = append(out, uint32(carry&0xFF))
		carry >>= 8
	}
	if len(out) == 0 {
		out = []uint32{0}
	}
	return out
}

func finalizeRaw(acc []uint32) *limb.Buffer {
	if len(acc) == 0 {
		acc = []uint32{0}
	}
	mag, _ := limb.FromLimbs(acc)
	mag.ShrinkToFit()
	return mag
}
