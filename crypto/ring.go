package crypto

import (
	"crypto/rand"
	"errors"

	"hwmob/types"
)

// RingEntry is one member of an MLSAG ring: a onetime public key and
// its amount commitment.
type RingEntry struct {
	OnetimeKey RistrettoPublic
	Commitment RistrettoPublic
}

// MLSAGSignature is the output of a completed ring signature: a linking
// key image, the seed challenge c_0, and 2*ring_size response scalars
// laid out [s_0_row0, s_0_row1, s_1_row0, s_1_row1, ...].
type MLSAGSignature struct {
	KeyImage  types.KeyImage
	CZero     RistrettoPrivate
	Responses []RistrettoPrivate
}

// Sign produces an MLSAG signature over message linking onetimePrivate
// (the spending scalar for ring[realIndex]) and proving, without
// revealing realIndex, that the signer knows the opening of
// ring[realIndex].Commitment minus outputCommitment.
//
// This is the two-row CryptoNote/Monero-family construction: row 0
// (G, P_j) is linkable via the shared key image; row 1
// (G, C_j - C_out) proves commitment consistency and carries no key
// image. See SPEC_FULL.md §4.4 for the exact derivation.
func Sign(message []byte, ring []RingEntry, realIndex int, onetimePrivate RistrettoPrivate, blinding, outputBlinding RistrettoPrivate, outputCommitment RistrettoPublic) (*MLSAGSignature, error) {
	n := len(ring)
	if realIndex < 0 || realIndex >= n {
		return nil, errors.New("crypto: real index out of range")
	}

	keyImage := ComputeKeyImage(onetimePrivate, ring[realIndex].OnetimeKey)
	z := blinding.Sub(outputBlinding)

	c := make([]RistrettoPrivate, n)
	s0 := make([]RistrettoPrivate, n)
	s1 := make([]RistrettoPrivate, n)

	rTrue0 := randomScalar()
	rTrue1 := randomScalar()

	realKeyBytes := ring[realIndex].OnetimeKey.Bytes()
	hp := hashToPoint("key_image", realKeyBytes[:])

	l0 := rTrue0.Public()
	r0 := ScalarMul(rTrue0, hp)
	l1 := rTrue1.Public()

	next := (realIndex + 1) % n
	c[next] = challenge(message, l0, r0, l1)

	j := next
	for j != realIndex {
		s0[j] = randomScalar()
		s1[j] = randomScalar()

		jKeyBytes := ring[j].OnetimeKey.Bytes()
		jHp := hashToPoint("key_image", jKeyBytes[:])

		lj0 := s0[j].Public().Add(ScalarMul(c[j], ring[j].OnetimeKey))
		rj0 := ScalarMul(s0[j], jHp).Add(ScalarMul(c[j], keyImageToPublic(keyImage)))
		diffJ := ring[j].Commitment.Sub(outputCommitment)
		lj1 := s1[j].Public().Add(ScalarMul(c[j], diffJ))

		jNext := (j + 1) % n
		c[jNext] = challenge(message, lj0, rj0, lj1)
		j = jNext
	}

	s0[realIndex] = rTrue0.Sub(c[realIndex].Mul(onetimePrivate))
	s1[realIndex] = rTrue1.Sub(c[realIndex].Mul(z))

	responses := make([]RistrettoPrivate, 0, 2*n)
	for i := 0; i < n; i++ {
		responses = append(responses, s0[i], s1[i])
	}

	return &MLSAGSignature{
		KeyImage:  keyImage,
		CZero:     c[0],
		Responses: responses,
	}, nil
}

// Verify recomputes the challenge chain from sig.CZero around the ring
// and checks it returns to sig.CZero (P5).
func Verify(message []byte, ring []RingEntry, outputCommitment RistrettoPublic, sig *MLSAGSignature) bool {
	n := len(ring)
	if len(sig.Responses) != 2*n {
		return false
	}

	keyImagePub := keyImageToPublic(sig.KeyImage)
	c := sig.CZero
	for j := 0; j < n; j++ {
		s0 := sig.Responses[2*j]
		s1 := sig.Responses[2*j+1]

		jKeyBytes := ring[j].OnetimeKey.Bytes()
		hp := hashToPoint("key_image", jKeyBytes[:])
		lj0 := s0.Public().Add(ScalarMul(c, ring[j].OnetimeKey))
		rj0 := ScalarMul(s0, hp).Add(ScalarMul(c, keyImagePub))
		diffJ := ring[j].Commitment.Sub(outputCommitment)
		lj1 := s1.Public().Add(ScalarMul(c, diffJ))

		c = challenge(message, lj0, rj0, lj1)
	}

	cBytes, czeroBytes := c.Bytes(), sig.CZero.Bytes()
	return subtleEqual(cBytes[:], czeroBytes[:])
}

func challenge(message []byte, l0, r0, l1 RistrettoPublic) RistrettoPrivate {
	l0b, r0b, l1b := l0.Bytes(), r0.Bytes(), l1.Bytes()
	return hashToScalar(message, l0b[:], r0b[:], l1b[:])
}

func keyImageToPublic(k types.KeyImage) RistrettoPublic {
	var cp types.CompressedPoint
	copy(cp[:], k[:])
	p, err := RistrettoPublicFromBytes(cp)
	if err != nil {
		panic("crypto: stored key image is not a valid point")
	}
	return p
}

func randomScalar() RistrettoPrivate {
	var wide [64]byte
	if _, err := rand.Read(wide[:]); err != nil {
		panic("crypto: system randomness unavailable")
	}
	return NewRistrettoPrivate(wide)
}

