// Package types holds the primitive value types shared across the wallet
// engine: hashes, scalars, Ristretto keys, commitments and key images.
package types

import (
	"encoding/hex"
)

// Hash represents a 32-byte domain digest (rolling event digest, summary
// digest, block-version pre-digest, ...).
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Scalar is a 32-byte little-endian scalar reduced mod the group order.
type Scalar [32]byte

func (s Scalar) String() string {
	return hex.EncodeToString(s[:])
}

// CompressedPoint is a 32-byte compressed group element, stored as bytes
// on the wire and decompressed lazily where arithmetic is required.
type CompressedPoint [32]byte

func (p CompressedPoint) String() string {
	return hex.EncodeToString(p[:])
}

// KeyImage uniquely identifies a spent onetime output; derived as
// x * Hp(P) where x is the onetime private key and P its public key.
type KeyImage [32]byte

func (k KeyImage) String() string {
	return hex.EncodeToString(k[:])
}

// CompressedCommitment is a compressed Pedersen commitment to an amount.
type CompressedCommitment [32]byte

func (c CompressedCommitment) String() string {
	return hex.EncodeToString(c[:])
}

// Signature is a 64-byte ed25519 signature.
type Signature [64]byte

// PublicKey is a 32-byte ed25519 public key, used for identity challenges.
type PublicKey [32]byte

func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// PublicSubaddress holds the view/spend public keys exposed to a
// counterparty for a given subaddress index.
type PublicSubaddress struct {
	ViewPublic  CompressedPoint
	SpendPublic CompressedPoint
}

// UnmaskedAmount is the plaintext form of a confidential amount, known
// only to the party that can unblind it.
type UnmaskedAmount struct {
	Value    uint64
	TokenID  uint64
	Blinding Scalar
}

// ReducedTxOut is the minimal ring-member shape the ring signer needs:
// its public key, target (onetime) key, and amount commitment.
type ReducedTxOut struct {
	PublicKey  CompressedPoint
	TargetKey  CompressedPoint
	Commitment CompressedCommitment
}
