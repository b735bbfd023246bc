package engine

import (
	"hwmob/crypto"
	"hwmob/types"
)

const (
	RingSizeMax = 11
	RespSize    = 2 * RingSizeMax
	MessageMax  = 66
)

// RingPhase is the sub-state of an in-progress ring signature.
type RingPhase uint8

const (
	RingInit RingPhase = iota
	RingBuild
	RingExecute
	RingComplete
)

// RingState holds the streaming MLSAG signer context. It is reused in
// place across transactions (Reset) rather than reallocated, mirroring
// the original's out-pointer discipline for its largest sub-context.
type RingState struct {
	phase RingPhase

	ringSize        uint8
	realIndex       uint8
	subaddressIndex uint64
	value           uint64
	tokenID         uint64

	blinding       crypto.RistrettoPrivate
	outputBlinding crypto.RistrettoPrivate
	haveBlindings  bool

	entries        [RingSizeMax]crypto.RingEntry
	added          uint8
	onetimePrivate crypto.RistrettoPrivate
	haveOnetime    bool

	message []byte

	sig        *crypto.MLSAGSignature
	fetchCount uint8
}

// Reset clears the context in place, zeroizing any recovered private
// scalar before it is overwritten.
func (r *RingState) Reset() {
	if r.haveOnetime {
		r.onetimePrivate.Zeroize()
	}
	*r = RingState{}
}

// Init validates ring parameters and begins a new ring (B1, B2).
func (r *RingState) Init(ringSize, realIndex uint8, subaddressIndex, value, tokenID uint64, message []byte) error {
	if ringSize == 0 || ringSize > RingSizeMax {
		return ErrRingInitFailed
	}
	if realIndex >= ringSize {
		return ErrRingInitFailed
	}
	if len(message) > MessageMax {
		return ErrRingInitFailed
	}

	r.Reset()
	r.phase = RingInit
	r.ringSize = ringSize
	r.realIndex = realIndex
	r.subaddressIndex = subaddressIndex
	r.value = value
	r.tokenID = tokenID
	r.message = append([]byte{}, message...)
	return nil
}

// SetBlinding records the input/output blinding scalars and advances
// to BuildRing(0).
func (r *RingState) SetBlinding(blinding, outputBlinding types.Scalar) error {
	if r.phase != RingInit {
		return ErrUnexpectedEvent
	}
	b, err := crypto.RistrettoPrivateFromBytes(blinding)
	if err != nil {
		return ErrInvalidKey
	}
	ob, err := crypto.RistrettoPrivateFromBytes(outputBlinding)
	if err != nil {
		return ErrInvalidKey
	}
	r.blinding = b
	r.outputBlinding = ob
	r.haveBlindings = true
	r.phase = RingBuild
	return nil
}

// AddTxOut streams one ring entry, recovering the onetime private key
// on the first (real) entry (I1, P3).
func (r *RingState) AddTxOut(ringIndex uint8, txOut types.ReducedTxOut, account crypto.Account) error {
	if r.phase != RingBuild {
		return ErrUnexpectedEvent
	}
	if !r.haveBlindings {
		return ErrMissingBlindings
	}
	if r.added >= r.ringSize {
		return ErrRingFull
	}

	expected := (uint16(r.realIndex) + uint16(r.added)) % uint16(r.ringSize)
	if uint16(ringIndex) != expected {
		return ErrRingUpdateFailed
	}

	target, err := crypto.RistrettoPublicFromBytes(txOut.TargetKey)
	if err != nil {
		return ErrInvalidKey
	}
	commitment, err := crypto.RistrettoPublicFromBytes(types.CompressedPoint(txOut.Commitment))
	if err != nil {
		return ErrInvalidKey
	}

	if r.added == 0 {
		txPub, err := crypto.RistrettoPublicFromBytes(txOut.PublicKey)
		if err != nil {
			return ErrInvalidKey
		}
		subSpend := account.SubaddressSpendPrivate(r.subaddressIndex)
		x, err := crypto.RecoverAndVerifyOnetime(txPub, target, account.ViewPrivate, subSpend)
		if err != nil {
			return ErrOnetimeKeyRecoveryFailed
		}
		r.onetimePrivate = x
		r.haveOnetime = true
	}

	r.entries[ringIndex] = crypto.RingEntry{OnetimeKey: target, Commitment: commitment}
	r.added++

	if r.added == r.ringSize {
		r.phase = RingExecute
	}
	return nil
}

// Sign executes the MLSAG signing operation (P5) and transitions to
// RingComplete.
func (r *RingState) Sign() error {
	if r.phase != RingExecute {
		return ErrUnexpectedEvent
	}
	if !r.haveOnetime {
		return ErrMissingOnetimePrivateKey
	}

	outputCommitment := crypto.NewCommitment(r.value, r.outputBlinding, r.tokenID)
	sig, err := crypto.Sign(r.message, r.entries[:r.ringSize], int(r.realIndex), r.onetimePrivate, r.blinding, r.outputBlinding, outputCommitment.Point())
	if err != nil {
		r.onetimePrivate.Zeroize()
		r.haveOnetime = false
		return ErrSignError
	}

	r.sig = sig
	r.phase = RingComplete
	return nil
}

// KeyImage returns the completed signature's key image.
func (r *RingState) KeyImage() (types.KeyImage, error) {
	if r.phase != RingComplete {
		return types.KeyImage{}, ErrUnexpectedEvent
	}
	return r.sig.KeyImage, nil
}

// GetResponse fetches response scalar i (I4, P2, B3).
func (r *RingState) GetResponse(i uint8) (types.Scalar, error) {
	if r.phase != RingComplete {
		return types.Scalar{}, ErrUnexpectedEvent
	}
	if int(i) >= 2*int(r.ringSize) {
		return types.Scalar{}, ErrInvalidState
	}
	r.fetchCount++
	return r.sig.Responses[i].Bytes(), nil
}

// Progress implements the index/(ring_size*3+2) metric from §4.4.
func (r *RingState) Progress() (index, total uint32) {
	total = uint32(r.ringSize)*3 + 2
	switch r.phase {
	case RingInit:
		index = 0
	case RingBuild:
		index = 1 + uint32(r.added)
	case RingExecute:
		index = 1 + uint32(r.ringSize)
	case RingComplete:
		index = 2 + uint32(r.ringSize) + uint32(r.fetchCount)
	}
	return index, total
}
