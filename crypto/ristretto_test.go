package crypto

import (
	"testing"

	"hwmob/types"
)

func TestRistrettoPrivateBytesRoundTrip(t *testing.T) {
	var wide [64]byte
	wide[0] = 7
	priv := NewRistrettoPrivate(wide)

	enc := priv.Bytes()
	decoded, err := RistrettoPrivateFromBytes(enc)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Bytes() != enc {
		t.Fatalf("round trip mismatch: got %x, want %x", decoded.Bytes(), enc)
	}
}

func TestRistrettoPublicFromBytesRejectsGarbage(t *testing.T) {
	var bad types.CompressedPoint
	for i := range bad {
		bad[i] = 0xFF
	}
	if _, err := RistrettoPublicFromBytes(bad); err == nil {
		t.Fatalf("expected invalid point encoding to be rejected")
	}
}

func TestScalarMulDistributesOverAdd(t *testing.T) {
	var a, b [64]byte
	a[0], b[0] = 3, 5
	sa := NewRistrettoPrivate(a)
	sb := NewRistrettoPrivate(b)

	lhs := ScalarMul(sa.Add(sb), BasePoint())
	rhs := ScalarMul(sa, BasePoint()).Add(ScalarMul(sb, BasePoint()))

	if !lhs.Equal(rhs) {
		t.Fatalf("(a+b)*G != a*G + b*G")
	}
}

func TestPublicFromPrivateMatchesScalarMulByBasePoint(t *testing.T) {
	var wide [64]byte
	wide[1] = 9
	priv := NewRistrettoPrivate(wide)

	if !priv.Public().Equal(ScalarMul(priv, BasePoint())) {
		t.Fatalf("Public() disagrees with ScalarMul against the base point")
	}
}
