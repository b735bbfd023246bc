package crypto

import "hwmob/types"

// Commitment is a Pedersen commitment to an amount: C = blinding*G + value*H,
// where H is a token-id-specific generator independent of G.
type Commitment struct {
	point RistrettoPublic
}

// TokenGenerator derives the independent value-generator H for a token
// id, distinct per token so commitments to different asset types cannot
// be mixed.
func TokenGenerator(tokenID uint64) RistrettoPublic {
	return hashToPoint("token_generator", uint64LE(tokenID))
}

// NewCommitment computes blinding*G + value*H(token_id).
func NewCommitment(value uint64, blinding RistrettoPrivate, tokenID uint64) Commitment {
	h := TokenGenerator(tokenID)
	valueScalar := scalarFromUint64(value)
	point := blinding.Public().Add(ScalarMul(valueScalar, h))
	return Commitment{point: point}
}

func (c Commitment) Bytes() types.CompressedCommitment {
	var out types.CompressedCommitment
	b := c.point.Bytes()
	copy(out[:], b[:])
	return out
}

func (c Commitment) Point() RistrettoPublic { return c.point }

func CommitmentFromBytes(b types.CompressedCommitment) (Commitment, error) {
	var cp types.CompressedPoint
	copy(cp[:], b[:])
	p, err := RistrettoPublicFromBytes(cp)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{point: p}, nil
}

// scalarFromUint64 embeds a 64-bit value as a scalar, little-endian,
// zero-padded to 32 bytes (values never approach the group order).
func scalarFromUint64(v uint64) RistrettoPrivate {
	var wide [64]byte
	b := uint64LE(v)
	copy(wide[:8], b)
	s, err := RistrettoPrivateFromBytes(reduceNarrow(wide))
	if err != nil {
		panic("crypto: uint64 scalar embedding cannot fail")
	}
	return s
}

// reduceNarrow returns the low 32 bytes of wide; for values that fit in
// 8 bytes this is already canonical (no reduction needed since it is
// far below the group order).
func reduceNarrow(wide [64]byte) types.Scalar {
	var out types.Scalar
	copy(out[:], wide[:32])
	return out
}
