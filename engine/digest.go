package engine

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"

	"hwmob/types"
)

// Digest is the 32-byte rolling content hash over state-mutating
// events (P1). It is reseeded from fresh randomness at TxInit and
// updated as digest' = SHA512_256(digest || event_hash).
type Digest types.Hash

// NewDigest seeds a fresh digest from the system CSPRNG.
func NewDigest() Digest {
	var d Digest
	if _, err := rand.Read(d[:]); err != nil {
		panic("engine: system randomness unavailable")
	}
	return d
}

// Update folds eventHash into the digest: d' = H(d || eventHash).
func (d Digest) Update(eventHash [32]byte) Digest {
	h := sha512.Sum512_256(append(append([]byte{}, d[:]...), eventHash[:]...))
	var out Digest
	copy(out[:], h[:])
	return out
}

func (d Digest) Bytes() [32]byte {
	return [32]byte(d)
}

func eventHash(domain string, fields ...[]byte) [32]byte {
	h := sha512.New512_256()
	h.Write([]byte(domain))
	for _, f := range fields {
		h.Write(f)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func le32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
