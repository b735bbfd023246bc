package crypto

import "testing"

func TestSignMemoMatchesBothSidesOfSharedSecret(t *testing.T) {
	senderSpend := randomScalar()
	receiverView := randomScalar()

	// Diffie-Hellman: sender computes senderSpend * receiverView.Public(),
	// receiver computes receiverView * senderSpend.Public() - same point.
	shared := KX(senderSpend, receiverView.Public())
	otherShared := KX(receiverView, senderSpend.Public())
	if shared != otherShared {
		t.Fatalf("shared secret is not symmetric")
	}

	var txPublic [32]byte
	txPublic[0] = 1
	kind := [2]byte{0, 1}
	payload := []byte("memo payload bytes")

	tag := SignMemo(senderSpend, receiverView.Public(), txPublic, kind, payload)
	expected := ComputeCategory1HMAC(otherShared, txPublic, kind, payload)
	if tag != expected {
		t.Fatalf("receiver-side HMAC does not match sender-side SignMemo tag")
	}
}

func TestComputeCategory1HMACSensitiveToPayload(t *testing.T) {
	var shared [32]byte
	shared[0] = 9
	var txPublic [32]byte
	kind := [2]byte{0, 0}

	tagA := ComputeCategory1HMAC(shared, txPublic, kind, []byte("payload a"))
	tagB := ComputeCategory1HMAC(shared, txPublic, kind, []byte("payload b"))
	if tagA == tagB {
		t.Fatalf("HMAC tag must depend on payload contents")
	}
}
