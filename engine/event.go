package engine

import "hwmob/types"

// Event is the closed set of requests the engine accepts. Every
// concrete event reports whether it mutates the rolling digest and,
// if so, its domain-separated hash (§4.2).
type Event interface {
	// EventHash returns the domain-separated digest contribution for
	// this event, or ok=false if the event does not mutate state.
	EventHash() (hash [32]byte, ok bool)
}

// --- Queries (never mutate state) ---

type GetAppInfo struct{}

func (GetAppInfo) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type GetWalletKeys struct{ AccountIndex uint32 }

func (GetWalletKeys) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type GetSubaddressKeys struct {
	AccountIndex     uint32
	SubaddressIndex  uint64
}

func (GetSubaddressKeys) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type GetKeyImage struct {
	AccountIndex    uint32
	SubaddressIndex uint64
	TxOutPublic     types.CompressedPoint
}

func (GetKeyImage) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type GetRandom struct{ N int }

func (GetRandom) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type IdentSignReq struct {
	Index     uint32
	URI       string
	Challenge []byte
}

func (IdentSignReq) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type IdentGetReq struct{}

func (IdentGetReq) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type TxGetKeyImage struct{}

func (TxGetKeyImage) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type TxGetResponse struct{ Index uint8 }

func (TxGetResponse) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type TxComplete struct{}

func (TxComplete) EventHash() ([32]byte, bool) { return [32]byte{}, false }

type TxGetInfo struct{}

func (TxGetInfo) EventHash() ([32]byte, bool) { return [32]byte{}, false }

// --- State-mutating events ---

type TxInit struct {
	NumRings     uint8
	AccountIndex uint32
}

func (e TxInit) EventHash() ([32]byte, bool) {
	return eventHash("tx_init", le32(e.AccountIndex), []byte{e.NumRings}), true
}

type TxMemoSign struct {
	Kind                [2]byte
	SubaddressIndex     uint64
	TxPublicKey         types.CompressedPoint
	ReceiverViewPublic  types.CompressedPoint
	Payload             [48]byte
}

func (e TxMemoSign) EventHash() ([32]byte, bool) {
	return eventHash("sign_memo",
		le64(e.SubaddressIndex),
		e.TxPublicKey[:],
		e.ReceiverViewPublic[:],
		e.Kind[:],
		e.Payload[:],
	), true
}

type TxSetMessage struct{ Message []byte }

func (e TxSetMessage) EventHash() ([32]byte, bool) {
	return eventHash("set_message", e.Message), true
}

type TxSummaryInit struct {
	Message      types.Hash
	BlockVersion uint32
	NumOutputs   uint32
	NumInputs    uint32
}

func (e TxSummaryInit) EventHash() ([32]byte, bool) {
	return eventHash("tx_summary_init",
		e.Message[:], le32(e.BlockVersion), le32(e.NumOutputs), le32(e.NumInputs),
	), true
}

type MaskedAmount struct {
	Commitment types.CompressedCommitment
	Value      uint64
	TokenID    [8]byte
}

type TxSummaryAddTxOut struct {
	Masked                  *MaskedAmount
	TargetKey               types.CompressedPoint
	PublicKey                types.CompressedPoint
	AssociatedToInputRules   bool
}

func (e TxSummaryAddTxOut) EventHash() ([32]byte, bool) {
	fields := [][]byte{}
	if e.Masked != nil {
		fields = append(fields, e.Masked.Commitment[:], le64(e.Masked.Value), e.Masked.TokenID[:])
	}
	fields = append(fields, e.TargetKey[:], e.PublicKey[:])
	if e.AssociatedToInputRules {
		fields = append(fields, []byte("associated_to_input_rules"))
	}
	return eventHash("tx_summary_add_output", fields...), true
}

type TxSummaryAddTxOutUnblinding struct {
	Unmasked      types.UnmaskedAmount
	Address       *types.PublicSubaddress
	TxPrivateKey  *types.Scalar
	FogSig        []byte
}

func (e TxSummaryAddTxOutUnblinding) EventHash() ([32]byte, bool) {
	fields := [][]byte{le64(e.Unmasked.Value), le64(e.Unmasked.TokenID), e.Unmasked.Blinding[:]}
	if e.Address != nil {
		fields = append(fields, e.Address.ViewPublic[:], e.Address.SpendPublic[:])
	}
	if e.TxPrivateKey != nil {
		fields = append(fields, e.TxPrivateKey[:])
	}
	if e.FogSig != nil {
		fields = append(fields, e.FogSig)
	}
	return eventHash("tx_summary_add_output_unblinding", fields...), true
}

type TxSummaryAddTxIn struct {
	PseudoOutputCommitment types.CompressedCommitment
	InputRulesDigest       *types.Hash
	Unmasked               types.UnmaskedAmount
}

// EventHash for add_txin has no leading domain-separator literal,
// unlike its siblings: grounded on the asymmetry in the project's own
// digest routines (see SPEC_FULL.md §4.2).
func (e TxSummaryAddTxIn) EventHash() ([32]byte, bool) {
	fields := [][]byte{e.PseudoOutputCommitment[:]}
	if e.InputRulesDigest != nil {
		fields = append(fields, e.InputRulesDigest[:])
	}
	fields = append(fields, le64(e.Unmasked.Value), le64(e.Unmasked.TokenID), e.Unmasked.Blinding[:])
	return eventHash("", fields...), true
}

type TxSummaryBuild struct {
	FeeValue       uint64
	FeeToken       uint64
	TombstoneBlock uint64
}

func (e TxSummaryBuild) EventHash() ([32]byte, bool) {
	return eventHash("tx_summary_build", le64(e.FeeValue), le64(e.FeeToken), le64(e.TombstoneBlock)), true
}

type TxRingInit struct {
	RingSize        uint8
	RealIndex       uint8
	SubaddressIndex uint64
	Value           uint64
	TokenID         uint64
}

func (e TxRingInit) EventHash() ([32]byte, bool) {
	return eventHash("ring_init",
		[]byte{e.RingSize}, []byte{e.RealIndex}, le64(e.SubaddressIndex), le64(e.Value), le64(e.TokenID),
	), true
}

type TxSetBlinding struct {
	Blinding       types.Scalar
	OutputBlinding types.Scalar
}

func (e TxSetBlinding) EventHash() ([32]byte, bool) {
	return eventHash("set_blinding", e.Blinding[:], e.OutputBlinding[:]), true
}

type TxAddTxOut struct {
	RingIndex uint8
	TxOut     types.ReducedTxOut
}

func (e TxAddTxOut) EventHash() ([32]byte, bool) {
	return eventHash("add_txout",
		[]byte{e.RingIndex}, e.TxOut.PublicKey[:], e.TxOut.TargetKey[:], e.TxOut.Commitment[:],
	), true
}

type TxSign struct{}

func (TxSign) EventHash() ([32]byte, bool) {
	return eventHash("sign"), true
}
