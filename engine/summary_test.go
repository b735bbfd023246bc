package engine

import (
	"testing"

	"hwmob/crypto"
	"hwmob/types"
)

func TestSummaryBuildMatchesVerifyTxSummary(t *testing.T) {
	var message types.Hash
	message[0] = 0xAB
	const blockVersion = 3

	commitment := crypto.NewCommitment(1000, crypto.NewRistrettoPrivate([64]byte{5}), 0).Bytes()
	output := TxSummaryAddTxOut{
		Masked:    &MaskedAmount{Commitment: commitment, Value: 1000, TokenID: [8]byte{}},
		TargetKey: crypto.NewRistrettoPrivate([64]byte{6}).Public().Bytes(),
		PublicKey: crypto.NewRistrettoPrivate([64]byte{7}).Public().Bytes(),
	}
	unblinding := TxSummaryAddTxOutUnblinding{
		Unmasked: types.UnmaskedAmount{Value: 1000, TokenID: 0, Blinding: crypto.NewRistrettoPrivate([64]byte{5}).Bytes()},
	}
	input := TxSummaryAddTxIn{
		PseudoOutputCommitment: crypto.NewCommitment(1100, crypto.NewRistrettoPrivate([64]byte{8}), 0).Bytes(),
		Unmasked:               types.UnmaskedAmount{Value: 1100, TokenID: 0, Blinding: crypto.NewRistrettoPrivate([64]byte{8}).Bytes()},
	}
	const feeValue, feeToken, tombstone = 100, 0, 500

	want, err := VerifyTxSummary(message, blockVersion,
		[]TxSummaryAddTxOut{output}, []TxSummaryAddTxOutUnblinding{unblinding}, []TxSummaryAddTxIn{input},
		feeValue, feeToken, tombstone)
	if err != nil {
		t.Fatalf("reference verification failed: %v", err)
	}

	e := newTestEngine()
	if _, err := e.Update(TxInit{NumRings: 1, AccountIndex: 0}); err != nil {
		t.Fatalf("tx init failed: %v", err)
	}
	if _, err := e.Update(TxSummaryInit{Message: message, BlockVersion: blockVersion, NumOutputs: 1, NumInputs: 1}); err != nil {
		t.Fatalf("summary init failed: %v", err)
	}
	if e.CurrentState() != StateSummaryInit && e.CurrentState() != StateSummaryAddTxOut {
		t.Fatalf("unexpected state after summary init: %v", e.CurrentState())
	}

	if _, err := e.Update(output); err != nil {
		t.Fatalf("add output failed: %v", err)
	}
	if _, err := e.Update(unblinding); err != nil {
		t.Fatalf("add output unblinding failed: %v", err)
	}
	if e.CurrentState() != StateSummaryAddTxIn {
		t.Fatalf("expected StateSummaryAddTxIn, got %v", e.CurrentState())
	}

	if _, err := e.Update(input); err != nil {
		t.Fatalf("add input failed: %v", err)
	}
	if e.CurrentState() != StateSummaryReady {
		t.Fatalf("expected StateSummaryReady, got %v", e.CurrentState())
	}

	idx, total := e.Progress()
	if total != 3 {
		t.Fatalf("expected summary progress total 3 (1 output + 1 input + 1), got %d", total)
	}
	if idx != 2 {
		t.Fatalf("expected summary progress index 2 before build, got %d", idx)
	}

	out, err := e.Update(TxSummaryBuild{FeeValue: feeValue, FeeToken: feeToken, TombstoneBlock: tombstone})
	if err != nil {
		t.Fatalf("summary build failed: %v", err)
	}
	if out.SummaryDigest == nil {
		t.Fatalf("expected a summary digest")
	}
	if *out.SummaryDigest != want {
		t.Fatalf("engine-produced digest does not match the independent VerifyTxSummary computation")
	}
	if e.CurrentState() != StatePending {
		t.Fatalf("expected StatePending after summary build, got %v", e.CurrentState())
	}
}

func TestSummaryAddTxOutRejectsOutOfOrderUnblinding(t *testing.T) {
	var message types.Hash
	e := newTestEngine()
	if _, err := e.Update(TxInit{NumRings: 1, AccountIndex: 0}); err != nil {
		t.Fatalf("tx init failed: %v", err)
	}
	if _, err := e.Update(TxSummaryInit{Message: message, BlockVersion: 1, NumOutputs: 1, NumInputs: 0}); err != nil {
		t.Fatalf("summary init failed: %v", err)
	}

	unblinding := TxSummaryAddTxOutUnblinding{}
	if _, err := e.Update(unblinding); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState for unblinding before any output, got %v", err)
	}
}

func TestSummaryInitSkipsDirectlyToInputsWhenNoOutputs(t *testing.T) {
	var message types.Hash
	e := newTestEngine()
	if _, err := e.Update(TxInit{NumRings: 1, AccountIndex: 0}); err != nil {
		t.Fatalf("tx init failed: %v", err)
	}
	if _, err := e.Update(TxSummaryInit{Message: message, BlockVersion: 1, NumOutputs: 0, NumInputs: 1}); err != nil {
		t.Fatalf("summary init failed: %v", err)
	}
	if e.CurrentState() != StateSummaryAddTxIn {
		t.Fatalf("expected StateSummaryAddTxIn immediately when NumOutputs is 0, got %v", e.CurrentState())
	}
}
