package crypto

import "testing"

func TestCommitmentBytesRoundTrip(t *testing.T) {
	blinding := randomScalar()
	c := NewCommitment(5000, blinding, 1)

	decoded, err := CommitmentFromBytes(c.Bytes())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Point().Equal(c.Point()) {
		t.Fatalf("commitment round trip mismatch")
	}
}

func TestCommitmentDiffersByTokenID(t *testing.T) {
	blinding := randomScalar()
	a := NewCommitment(100, blinding, 0)
	b := NewCommitment(100, blinding, 1)
	if a.Point().Equal(b.Point()) {
		t.Fatalf("commitments to different token ids must use independent generators")
	}
}

func TestCommitmentIsAdditivelyHomomorphicInBlinding(t *testing.T) {
	b1 := randomScalar()
	b2 := randomScalar()

	c1 := NewCommitment(10, b1, 0)
	c2 := NewCommitment(20, b2, 0)
	combined := NewCommitment(30, b1.Add(b2), 0)

	if !c1.Point().Add(c2.Point()).Equal(combined.Point()) {
		t.Fatalf("commitment homomorphism broken: C(10,b1)+C(20,b2) != C(30,b1+b2)")
	}
}
