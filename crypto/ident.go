package crypto

import (
	"crypto/sha256"
	"encoding/binary"
)

// IdentPathRoot is the hardened path level reserved for identity keys,
// never reachable from account derivation.
const IdentPathRoot = 13 | 0x80000000

// DeriveIdentPath computes the SLIP-0013 5-element BIP-32 path for a
// given identity index and URI:
//
//	p[0] = 13 | 0x80000000
//	p[1..5] = LE-u32 chunks of SHA-256(index_le_bytes || uri) | 0x80000000
func DeriveIdentPath(index uint32, uri string) [5]uint32 {
	var idxBytes [4]byte
	binary.LittleEndian.PutUint32(idxBytes[:], index)

	h := sha256.New()
	h.Write(idxBytes[:])
	h.Write([]byte(uri))
	digest := h.Sum(nil)

	var path [5]uint32
	path[0] = IdentPathRoot
	for i := 0; i < 4; i++ {
		chunk := binary.LittleEndian.Uint32(digest[i*4 : i*4+4])
		path[i+1] = chunk | 0x80000000
	}
	return path
}
