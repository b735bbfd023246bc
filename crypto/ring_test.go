package crypto

import "testing"

func buildTestRing(t *testing.T, n, realIndex int) ([]RingEntry, RistrettoPrivate, RistrettoPrivate, RistrettoPrivate, RistrettoPublic) {
	t.Helper()

	ring := make([]RingEntry, n)
	var realOnetimePriv RistrettoPrivate
	inputBlinding := randomScalar()
	outputBlinding := randomScalar()
	outputCommitment := NewCommitment(1000, outputBlinding, 0).Point()

	for i := 0; i < n; i++ {
		priv := randomScalar()
		blinding := randomScalar()
		commitment := NewCommitment(1000, blinding, 0).Point()
		if i == realIndex {
			realOnetimePriv = priv
			commitment = NewCommitment(1000, inputBlinding, 0).Point()
		}
		ring[i] = RingEntry{OnetimeKey: priv.Public(), Commitment: commitment}
	}

	return ring, realOnetimePriv, inputBlinding, outputBlinding, outputCommitment
}

func TestMLSAGSignVerifyRoundTrip(t *testing.T) {
	const n, realIndex = 5, 2
	ring, onetimePriv, inputBlinding, outputBlinding, outputCommitment := buildTestRing(t, n, realIndex)

	message := []byte("test-message-digest")
	sig, err := Sign(message, ring, realIndex, onetimePriv, inputBlinding, outputBlinding, outputCommitment)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if len(sig.Responses) != 2*n {
		t.Fatalf("expected %d responses, got %d", 2*n, len(sig.Responses))
	}
	if !Verify(message, ring, outputCommitment, sig) {
		t.Fatalf("verify failed on a signature that should be valid")
	}
}

func TestMLSAGVerifyRejectsTamperedMessage(t *testing.T) {
	const n, realIndex = 4, 1
	ring, onetimePriv, inputBlinding, outputBlinding, outputCommitment := buildTestRing(t, n, realIndex)

	sig, err := Sign([]byte("original"), ring, realIndex, onetimePriv, inputBlinding, outputBlinding, outputCommitment)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if Verify([]byte("tampered"), ring, outputCommitment, sig) {
		t.Fatalf("verify must reject a signature checked against a different message")
	}
}

func TestMLSAGSignRejectsOutOfRangeRealIndex(t *testing.T) {
	ring, onetimePriv, inputBlinding, outputBlinding, outputCommitment := buildTestRing(t, 3, 0)
	if _, err := Sign([]byte("m"), ring, 3, onetimePriv, inputBlinding, outputBlinding, outputCommitment); err == nil {
		t.Fatalf("expected out-of-range real index to be rejected")
	}
}

func TestMLSAGKeyImageIsStableAcrossSignatures(t *testing.T) {
	const n, realIndex = 3, 0
	ring, onetimePriv, inputBlinding, outputBlinding, outputCommitment := buildTestRing(t, n, realIndex)

	sigA, err := Sign([]byte("a"), ring, realIndex, onetimePriv, inputBlinding, outputBlinding, outputCommitment)
	if err != nil {
		t.Fatalf("sign a failed: %v", err)
	}
	sigB, err := Sign([]byte("b"), ring, realIndex, onetimePriv, inputBlinding, outputBlinding, outputCommitment)
	if err != nil {
		t.Fatalf("sign b failed: %v", err)
	}
	if sigA.KeyImage != sigB.KeyImage {
		t.Fatalf("key image must depend only on the onetime key, not the message")
	}
}
