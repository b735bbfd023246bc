package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
)

// MemoTag is a 16-byte category-1 memo authentication tag.
type MemoTag [16]byte

// ComputeCategory1HMAC authenticates a transaction memo: given the
// shared secret between the sender's subaddress spend key and the
// receiver's subaddress view key, the tx-out public key, a 2-byte
// memo kind, and the memo payload, it returns the first 16 bytes of
// HMAC-SHA512 over (compressed tx-out public key || kind || payload).
func ComputeCategory1HMAC(shared [32]byte, txPublicCompressed [32]byte, kind [2]byte, payload []byte) MemoTag {
	mac := hmac.New(sha512.New, shared[:])
	mac.Write(txPublicCompressed[:])
	mac.Write(kind[:])
	mac.Write(payload)

	full := mac.Sum(nil)
	var tag MemoTag
	copy(tag[:], full[:16])
	return tag
}

// SignMemo computes the shared secret via KX and returns the category-1
// tag for the given memo fields.
func SignMemo(senderSubaddressSpendPrivate RistrettoPrivate, receiverViewPublic RistrettoPublic, txPublicCompressed [32]byte, kind [2]byte, payload []byte) MemoTag {
	shared := KX(senderSubaddressSpendPrivate, receiverViewPublic)
	return ComputeCategory1HMAC(shared, txPublicCompressed, kind, payload)
}
