// Package driver defines the hardware-independent contract the engine
// uses to obtain key material, and a reference software implementation
// suitable for the simulator and for tests.
package driver

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

// Driver is the sole boundary between the engine and private key
// material: it derives an ed25519 private key for a BIP-32-style path
// using SLIP-0010. It is never called with an externally supplied path
// without a hard-coded prefix (account derivation uses 44'/866'/i'/0/0;
// identity derivation uses the fixed 13' root).
type Driver interface {
	DeriveEd25519(path []uint32) [32]byte
}

// SeedDriver implements Driver with SLIP-0010 ed25519 derivation from a
// device-local seed, exactly as the hardware driver would from its
// secure-element-backed seed.
type SeedDriver struct {
	seed []byte
}

// NewSeedDriver wraps a 32- or 64-byte seed.
func NewSeedDriver(seed []byte) *SeedDriver {
	return &SeedDriver{seed: append([]byte{}, seed...)}
}

const ed25519CurveSeed = "ed25519 seed"

// DeriveEd25519 implements SLIP-0010 hardened-only derivation for the
// ed25519 curve: every path element is forced hardened, and each level
// computes HMAC-SHA512(parentChainCode, 0x00 || parentPriv || index_be) to
// produce the next (key, chainCode) pair.
func (d *SeedDriver) DeriveEd25519(path []uint32) [32]byte {
	mac := hmac.New(sha512.New, []byte(ed25519CurveSeed))
	mac.Write(d.seed)
	i := mac.Sum(nil)
	key, chainCode := i[:32], i[32:]

	for _, p := range path {
		hardened := p | 0x80000000

		data := make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, key...)
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], hardened)
		data = append(data, idx[:]...)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data)
		i = mac.Sum(nil)
		key, chainCode = i[:32], i[32:]
	}

	var out [32]byte
	copy(out[:], key)
	return out
}
