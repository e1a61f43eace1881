package bignum

import "github.com/eth2030/bignum/internal/limb"

// Neg returns -x as a new Int. Negating zero yields zero unchanged (spec
// §4.4: "-x flips the sign flag unless x == 0").
func Neg(x *Int) *Int {
	z := &Int{mag: x.mag.Clone(), nonneg: x.nonneg}
	if !z.mag.IsZero() {
		z.nonneg = !z.nonneg
	}
	return z.canonicalize()
}

// Neg negates x into z and returns z.
func (z *Int) Neg(x *Int) *Int {
	mag := x.mag.Clone()
	nonneg := x.nonneg
	if !mag.IsZero() {
		nonneg = !nonneg
	}
	z.mag = mag
	z.nonneg = nonneg
	return z.canonicalize()
}

// NegInPlace negates z in place and returns z.
func (z *Int) NegInPlace() *Int {
	if !z.mag.IsZero() {
		z.nonneg = !z.nonneg
	}
	return z
}

// Add returns x + y as a new Int.
//
// Same-sign operands add magnitudes directly; opposite-sign operands
// compare magnitudes and subtract the smaller from the larger, taking the
// sign of the larger operand (spec §4.4).
func Add(x, y *Int) (*Int, error) {
	if x.nonneg == y.nonneg {
		mag := x.mag.Clone()
		if err := mag.AddRaw(y.mag); err != nil {
			return nil, err
		}
		return (&Int{mag: mag, nonneg: x.nonneg}).canonicalize(), nil
	}

	return addOppositeSigns(x, y)
}

func addOppositeSigns(x, y *Int) (*Int, error) {
	cmp := compareMagnitudes(x, y)
	if cmp >= 0 {
		mag := x.mag.Clone()
		mag.SubRaw(y.mag)
		return (&Int{mag: mag, nonneg: x.nonneg}).canonicalize(), nil
	}
	mag := y.mag.Clone()
	mag.SubRaw(x.mag)
	return (&Int{mag: mag, nonneg: y.nonneg}).canonicalize(), nil
}

func compareMagnitudes(x, y *Int) int {
	return limb.CompareRaw(x.mag, y.mag)
}

// Add computes x + y into z and returns z.
func (z *Int) Add(x, y *Int) (*Int, error) {
	r, err := Add(x, y)
	if err != nil {
		return nil, err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return z, nil
}

// AddInPlace sets z to z + y, leaving z unchanged on error.
func (z *Int) AddInPlace(y *Int) error {
	r, err := Add(z, y)
	if err != nil {
		return err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return nil
}

// Sub returns x - y as a new Int. x - y == x + (-y) (spec §4.4).
func Sub(x, y *Int) (*Int, error) {
	return Add(x, Neg(y))
}

// Sub computes x - y into z and returns z.
func (z *Int) Sub(x, y *Int) (*Int, error) {
	r, err := Sub(x, y)
	if err != nil {
		return nil, err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return z, nil
}

// SubInPlace sets z to z - y. z -= z always yields zero.
func (z *Int) SubInPlace(y *Int) error {
	r, err := Sub(z, y)
	if err != nil {
		return err
	}
	z.mag, z.nonneg = r.mag, r.nonneg
	return nil
}
