package engine

import "hwmob/types"

// Output is the closed set of successful results the engine can
// produce. At most one variant is populated for any given call to
// Update; events that only change state populate none, and the
// result is then carried by State and Digest alone.
type Output struct {
	State  State
	Digest [32]byte

	WalletKeys       *WalletKeysOutput
	SubaddressKeys   *SubaddressKeysOutput
	KeyImageOut      *types.KeyImage
	Random           []byte
	IdentResp        *IdentOutput
	MemoSig          *MemoSigOutput
	SummaryDigest    *types.Hash
	RingKeyImage     *RingKeyImageOutput
	RingResponse     *types.Scalar
	Info             *InfoOutput
	Ack              bool
}

type WalletKeysOutput struct {
	AccountIndex uint32
	ViewPrivate  types.Scalar
	SpendPublic  types.CompressedPoint
}

type SubaddressKeysOutput struct {
	ViewPrivate types.Scalar
	SpendPublic types.CompressedPoint
}

type IdentOutput struct {
	PublicKey types.PublicKey
	Signature types.Signature
}

type MemoSigOutput struct {
	Tag [16]byte
}

type RingKeyImageOutput struct {
	KeyImage types.KeyImage
	CZero    types.Scalar
}

// InfoOutput answers TxGetInfo: a non-mutating snapshot of progress.
type InfoOutput struct {
	ProgressIndex uint32
	ProgressTotal uint32
}
