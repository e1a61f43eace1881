package field

import "testing"

func TestAddSubInverse(t *testing.T) {
	a := New(123456789)
	b := New(987654321)
	sum := a.Add(b)
	if sum.Sub(b) != a {
		t.Fatalf("(a+b)-b = %v, want %v", sum.Sub(b), a)
	}
}

func TestNegZero(t *testing.T) {
	if Elem(0).Neg() != 0 {
		t.Fatalf("-0 != 0")
	}
}

func TestMulWrap(t *testing.T) {
	a := New(P - 1)
	b := New(P - 1)
	got := a.Mul(b)
	want := New(1) // (-1)*(-1) == 1
	if got != want {
		t.Fatalf("(P-1)*(P-1) = %v, want %v", got, want)
	}
}

func TestPowOmegaOrder(t *testing.T) {
	om := Elem(Omega)
	if om.Pow(PrimitiveOrder) != Elem(1) {
		t.Fatalf("omega^(2^27) != 1")
	}
	if om.Pow(PrimitiveOrder / 2) == Elem(1) {
		t.Fatalf("omega^(2^26) == 1, omega has too-small order")
	}
}

func TestInvTwo(t *testing.T) {
	two := New(2)
	if two.Mul(Elem(InvTwo)) != Elem(1) {
		t.Fatalf("2 * InvTwo != 1")
	}
}

func TestPowZeroExponent(t *testing.T) {
	a := New(42)
	if a.Pow(0) != Elem(1) {
		t.Fatalf("a^0 != 1")
	}
}
