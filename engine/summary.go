package engine

import (
	"crypto/sha512"

	"hwmob/types"
)

const MaxRecords = 16

// SummaryPhase is the sub-state of an in-progress TxSummary
// verification.
type SummaryPhase uint8

const (
	SummaryInit SummaryPhase = iota
	SummaryAddTxOut
	SummaryAddTxIn
	SummaryReady
	SummaryComplete
)

// BalanceChange records one counterparty's net balance effect for the
// approval report.
type BalanceChange struct {
	TokenID uint64
	Delta   int64 // positive: received, negative: sent
}

// Report is the bounded summary shown to the user before approval.
type Report struct {
	Changes    [MaxRecords]BalanceChange
	NumChanges int
	FeeValue   uint64
	FeeToken   uint64
}

func (r *Report) add(tokenID uint64, delta int64) {
	if r.NumChanges >= MaxRecords {
		return
	}
	r.Changes[r.NumChanges] = BalanceChange{TokenID: tokenID, Delta: delta}
	r.NumChanges++
}

// SummaryState is the streaming TxSummary verifier. It absorbs
// outputs, then inputs, then fee+tombstone, recomputing the signing
// digest the caller claims (I5, P4).
type SummaryState struct {
	phase SummaryPhase

	message      types.Hash
	blockVersion uint32
	numOutputs   uint32
	numInputs    uint32

	outputsSeen int
	inputsSeen  int

	pendingOutput *TxSummaryAddTxOut // scratch slot awaiting its unblinding companion

	acc    [32]byte
	report Report
}

func (s *SummaryState) Reset() { *s = SummaryState{} }

// Init seeds the verifier from the host-claimed extended-message
// pre-digest, block version, and input/output counts.
func (s *SummaryState) Init(message types.Hash, blockVersion, numOutputs, numInputs uint32) error {
	s.Reset()
	s.phase = SummaryInit
	s.message = message
	s.blockVersion = blockVersion
	s.numOutputs = numOutputs
	s.numInputs = numInputs
	s.acc = sha512.Sum512_256(append(append([]byte{}, message[:]...), le32(blockVersion)...))
	if numOutputs == 0 {
		s.phase = SummaryAddTxIn
	}
	return nil
}

// AddOutput records an output summary and stashes it awaiting its
// unblinding companion (§4.5 step 2).
func (s *SummaryState) AddOutput(ev TxSummaryAddTxOut) error {
	if s.phase != SummaryInit && s.phase != SummaryAddTxOut {
		return ErrInvalidState
	}
	if s.outputsSeen >= int(s.numOutputs) {
		return ErrSummaryInitFailed
	}
	if s.pendingOutput != nil {
		return ErrSummaryMissingOutput
	}

	h, _ := ev.EventHash()
	s.fold(h)
	cp := ev
	s.pendingOutput = &cp
	s.phase = SummaryAddTxOut
	return nil
}

// AddOutputUnblinding completes the most recent output summary,
// updating the approval report with the recipient's balance change.
func (s *SummaryState) AddOutputUnblinding(ev TxSummaryAddTxOutUnblinding) error {
	if s.phase != SummaryAddTxOut {
		return ErrInvalidState
	}
	if s.pendingOutput == nil {
		return ErrSummaryMissingOutput
	}

	h, _ := ev.EventHash()
	s.fold(h)

	s.report.add(ev.Unmasked.TokenID, int64(ev.Unmasked.Value))

	s.pendingOutput = nil
	s.outputsSeen++
	if s.outputsSeen == int(s.numOutputs) {
		s.phase = SummaryAddTxIn
		if s.numInputs == 0 {
			s.phase = SummaryReady
		}
	}
	return nil
}

// AddInput records a pseudo-output commitment and unmasked amount for
// one transaction input (§4.5 step 3).
func (s *SummaryState) AddInput(ev TxSummaryAddTxIn) error {
	if s.phase != SummaryAddTxIn {
		return ErrInvalidState
	}
	if s.inputsSeen >= int(s.numInputs) {
		return ErrSummaryInitFailed
	}

	h, _ := ev.EventHash()
	s.fold(h)

	s.report.add(ev.Unmasked.TokenID, -int64(ev.Unmasked.Value))

	s.inputsSeen++
	if s.inputsSeen == int(s.numInputs) {
		s.phase = SummaryReady
	}
	return nil
}

// Build finalizes the verifier with the network fee and tombstone
// block, producing the 32-byte signing digest (P4).
func (s *SummaryState) Build(feeValue, feeToken, tombstoneBlock uint64) (types.Hash, error) {
	if s.phase != SummaryReady {
		return types.Hash{}, ErrInvalidState
	}
	ev := TxSummaryBuild{FeeValue: feeValue, FeeToken: feeToken, TombstoneBlock: tombstoneBlock}
	h, _ := ev.EventHash()
	s.fold(h)

	s.report.FeeValue = feeValue
	s.report.FeeToken = feeToken

	s.phase = SummaryComplete
	return types.Hash(s.acc), nil
}

func (s *SummaryState) fold(h [32]byte) {
	s.acc = sha512.Sum512_256(append(append([]byte{}, s.acc[:]...), h[:]...))
}

// Progress implements the index/(num_inputs+num_outputs+1) metric.
func (s *SummaryState) Progress() (index, total uint32) {
	total = s.numInputs + s.numOutputs + 1
	index = uint32(s.outputsSeen) + uint32(s.inputsSeen)
	if s.phase == SummaryComplete {
		index = total
	}
	return index, total
}

// VerifyTxSummary is the off-device reference computation: it folds
// the same (message, block_version, outputs, inputs, fee, tombstone)
// tuple using the same accumulator rule, for independent comparison
// against a device-produced digest (P4, scenario 4).
func VerifyTxSummary(message types.Hash, blockVersion uint32, outputs []TxSummaryAddTxOut, unblindings []TxSummaryAddTxOutUnblinding, inputs []TxSummaryAddTxIn, feeValue, feeToken, tombstoneBlock uint64) (types.Hash, error) {
	s := &SummaryState{}
	if err := s.Init(message, blockVersion, uint32(len(outputs)), uint32(len(inputs))); err != nil {
		return types.Hash{}, err
	}
	for i := range outputs {
		if err := s.AddOutput(outputs[i]); err != nil {
			return types.Hash{}, err
		}
		if err := s.AddOutputUnblinding(unblindings[i]); err != nil {
			return types.Hash{}, err
		}
	}
	for _, in := range inputs {
		if err := s.AddInput(in); err != nil {
			return types.Hash{}, err
		}
	}
	return s.Build(feeValue, feeToken, tombstoneBlock)
}
