// Package engine implements the driver-independent transaction-signing
// state machine: it consumes typed events, maintains a rolling content
// digest over state-mutating events, and orchestrates the memo, ring,
// summary, and identity sub-machines.
package engine

import (
	"crypto/ed25519"
	"crypto/rand"

	"hwmob/crypto"
	"hwmob/driver"
)

// State is the top-level engine state, matching the one-byte wire
// state codes in SPEC_FULL.md §6.
type State uint8

const (
	StateInit            State = 0x00
	StateSignMemos       State = 0x01
	StateSetMessage      State = 0x02
	StateSummaryInit     State = 0x03
	StateSummaryAddTxOut State = 0x04
	StateSummaryAddTxIn  State = 0x05
	StateSummaryReady    State = 0x06
	StateSummaryComplete State = 0x07
	StatePending         State = 0x10
	StateReady           State = 0x20
	StateRingInit        State = 0x30
	StateRingBuild       State = 0x31
	StateRingSign        State = 0x32
	StateRingComplete    State = 0x33
	StateTxComplete      State = 0x40
	StateTxDenied        State = 0x41
	StateIdentPending    State = 0x50
	StateIdentApproved   State = 0x51
	StateIdentDenied     State = 0x52
	StateError           State = 0xFF
)

// Engine is the sole, single-threaded, cooperative state machine
// described by the specification. All transaction state is owned
// exclusively by the Engine; external callers observe it only through
// the read-only accessors and drive it only through Update and the
// external controls (Unlock, Lock, Approve, Deny, Reset, IdentApprove).
type Engine struct {
	drv driver.Driver

	state    State
	unlocked bool
	digest   Digest

	accountIndex uint32
	memoCount    uint16

	ident   IdentState
	ring    RingState
	summary SummaryState
	message []byte // raw message of at most 32 bytes from TxSetMessage, or the 32-byte TxSummaryBuild digest

	identResult *IdentOutput
}

// New constructs an Engine in its initial state. Account 0 is used
// until a TxInit names another.
func New(d driver.Driver) *Engine {
	return &Engine{drv: d, state: StateInit, digest: NewDigest()}
}

// --- External controls ---

func (e *Engine) Unlock() { e.unlocked = true }
func (e *Engine) Lock()   { e.unlocked = false }

// Approve transitions Pending -> Ready.
func (e *Engine) Approve() error {
	if e.state != StatePending {
		return ErrUnexpectedEvent
	}
	e.state = StateReady
	return nil
}

// Deny transitions Pending -> TxDenied.
func (e *Engine) Deny() error {
	if e.state != StatePending {
		return ErrUnexpectedEvent
	}
	e.state = StateTxDenied
	e.clearSubContexts()
	return nil
}

// Reset returns the engine to Init, clearing all sub-contexts.
func (e *Engine) Reset() {
	e.state = StateInit
	e.clearSubContexts()
	e.memoCount = 0
	e.message = nil
}

// IdentApprove resolves a pending identity challenge: on approval it
// derives the SLIP-0013 key and signs the challenge; on denial it
// simply records the rejection. Either way the caller must still issue
// IdentGetReq to retrieve the result, after which the engine returns
// to Init.
func (e *Engine) IdentApprove(approve bool) error {
	if e.state != StateIdentPending {
		return ErrUnexpectedEvent
	}
	if !approve {
		e.ident.phase = IdentDenied
		e.state = StateIdentDenied
		return nil
	}

	path := crypto.DeriveIdentPath(e.ident.index, e.ident.uri)
	seed := e.drv.DeriveEd25519(path[:])
	priv := ed25519.NewKeyFromSeed(seed[:])
	sig := ed25519.Sign(priv, e.ident.challenge)

	var out IdentOutput
	copy(out.PublicKey[:], priv.Public().(ed25519.PublicKey))
	copy(out.Signature[:], sig)
	e.identResult = &out

	e.ident.phase = IdentApproved
	e.state = StateIdentApproved
	return nil
}

func (e *Engine) clearSubContexts() {
	e.ring.Reset()
	e.summary.Reset()
	e.ident.Reset()
	e.identResult = nil
}

// --- Read-only accessors ---

func (e *Engine) CurrentState() State   { return e.state }
func (e *Engine) Digest() [32]byte      { return e.digest.Bytes() }
func (e *Engine) Unlocked() bool        { return e.unlocked }

func (e *Engine) Progress() (index, total uint32) {
	switch {
	case e.state >= StateRingInit && e.state <= StateRingComplete:
		return e.ring.Progress()
	case e.state >= StateSummaryInit && e.state <= StateSummaryReady:
		return e.summary.Progress()
	default:
		return 0, 1
	}
}

// account derives the account keypair for the engine's current
// account index via the driver, per-call, never cached.
func (e *Engine) account() crypto.Account {
	seed := e.drv.DeriveEd25519(crypto.AccountPath(e.accountIndex))
	return crypto.AccountFromSeed(seed)
}

// --- Update: the sole event-dispatch entry point ---

func (e *Engine) Update(ev Event) (Output, error) {
	if h, ok := ev.EventHash(); ok {
		e.digest = e.digest.Update(h)
	}

	out, err := e.dispatch(ev)
	if err != nil {
		if isCryptographicFailure(err) {
			e.state = StateError
			e.clearSubContexts()
		}
		return Output{}, err
	}
	out.State = e.state
	out.Digest = e.digest.Bytes()
	return out, nil
}

func isCryptographicFailure(err error) bool {
	switch err {
	case ErrInvalidKey, ErrOnetimeKeyRecoveryFailed, ErrSignError:
		return true
	default:
		return false
	}
}

func (e *Engine) dispatch(ev Event) (Output, error) {
	switch v := ev.(type) {

	case GetRandom:
		return e.handleGetRandom(v)

	case GetWalletKeys:
		return e.handleGetWalletKeys(v)
	case GetSubaddressKeys:
		return e.handleGetSubaddressKeys(v)
	case GetKeyImage:
		return e.handleGetKeyImage(v)

	case IdentSignReq:
		if e.state != StateInit {
			return Output{}, ErrUnexpectedEvent
		}
		e.ident.Begin(v.Index, v.URI, v.Challenge)
		e.state = StateIdentPending
		return Output{}, nil
	case IdentGetReq:
		return e.handleIdentGetReq()

	case TxInit:
		e.Reset()
		e.digest = NewDigest()
		e.accountIndex = v.AccountIndex
		e.state = StateSignMemos
		return Output{}, nil

	case TxMemoSign:
		return e.handleMemoSign(v)

	case TxSetMessage:
		if e.state != StateSetMessage && e.state != StateSignMemos {
			return Output{}, ErrUnexpectedEvent
		}
		if len(v.Message) > 32 {
			return Output{}, ErrInvalidLength
		}
		e.message = append([]byte{}, v.Message...)
		e.state = StatePending
		return Output{}, nil

	case TxSummaryInit:
		if e.state != StateSetMessage && e.state != StateSignMemos {
			return Output{}, ErrUnexpectedEvent
		}
		if err := e.summary.Init(v.Message, v.BlockVersion, v.NumOutputs, v.NumInputs); err != nil {
			return Output{}, ErrSummaryInitFailed
		}
		e.state = summaryStateCode(e.summary.phase)
		return Output{}, nil
	case TxSummaryAddTxOut:
		if err := e.summary.AddOutput(v); err != nil {
			return Output{}, err
		}
		e.state = summaryStateCode(e.summary.phase)
		return Output{}, nil
	case TxSummaryAddTxOutUnblinding:
		if err := e.summary.AddOutputUnblinding(v); err != nil {
			return Output{}, err
		}
		e.state = summaryStateCode(e.summary.phase)
		return Output{}, nil
	case TxSummaryAddTxIn:
		if err := e.summary.AddInput(v); err != nil {
			return Output{}, err
		}
		e.state = summaryStateCode(e.summary.phase)
		return Output{}, nil
	case TxSummaryBuild:
		digest, err := e.summary.Build(v.FeeValue, v.FeeToken, v.TombstoneBlock)
		if err != nil {
			return Output{}, err
		}
		e.message = append([]byte{}, digest[:]...)
		e.state = StatePending
		return Output{SummaryDigest: &digest}, nil

	case TxRingInit:
		if e.state != StateReady {
			return Output{}, ErrUnexpectedEvent
		}
		if err := e.ring.Init(v.RingSize, v.RealIndex, v.SubaddressIndex, v.Value, v.TokenID, e.message); err != nil {
			return Output{}, err
		}
		e.state = StateRingInit
		return Output{}, nil
	case TxSetBlinding:
		if err := e.ring.SetBlinding(v.Blinding, v.OutputBlinding); err != nil {
			return Output{}, err
		}
		e.state = StateRingBuild
		return Output{}, nil
	case TxAddTxOut:
		if err := e.ring.AddTxOut(v.RingIndex, v.TxOut, e.account()); err != nil {
			return Output{}, err
		}
		if e.ring.phase == RingExecute {
			e.state = StateRingSign
		}
		return Output{}, nil
	case TxSign:
		if err := e.ring.Sign(); err != nil {
			return Output{}, err
		}
		e.state = StateRingComplete
		return Output{}, nil
	case TxGetKeyImage:
		ki, err := e.ring.KeyImage()
		if err != nil {
			return Output{}, err
		}
		return Output{RingKeyImage: &RingKeyImageOutput{KeyImage: ki, CZero: e.ring.sig.CZero.Bytes()}}, nil
	case TxGetResponse:
		s, err := e.ring.GetResponse(v.Index)
		if err != nil {
			return Output{}, err
		}
		return Output{RingResponse: &s}, nil

	case TxComplete:
		e.state = StateTxComplete
		e.clearSubContexts()
		return Output{Ack: true}, nil

	case TxGetInfo:
		idx, total := e.Progress()
		return Output{Info: &InfoOutput{ProgressIndex: idx, ProgressTotal: total}}, nil

	case GetAppInfo:
		return Output{}, nil

	default:
		return Output{}, ErrUnexpectedEvent
	}
}

func summaryStateCode(p SummaryPhase) State {
	switch p {
	case SummaryInit:
		return StateSummaryInit
	case SummaryAddTxOut:
		return StateSummaryAddTxOut
	case SummaryAddTxIn:
		return StateSummaryAddTxIn
	case SummaryReady:
		return StateSummaryReady
	case SummaryComplete:
		return StateSummaryComplete
	default:
		return StateError
	}
}

func (e *Engine) handleGetRandom(v GetRandom) (Output, error) {
	n := v.N
	if n <= 0 || n > 256 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return Output{}, ErrUnknown
	}
	return Output{Random: buf}, nil
}

func (e *Engine) handleGetWalletKeys(v GetWalletKeys) (Output, error) {
	if !e.unlocked {
		return Output{}, ErrApprovalPending
	}
	seed := e.drv.DeriveEd25519(crypto.AccountPath(v.AccountIndex))
	acc := crypto.AccountFromSeed(seed)
	spendPub := acc.SpendPublic().Bytes()
	return Output{WalletKeys: &WalletKeysOutput{
		AccountIndex: v.AccountIndex,
		ViewPrivate:  acc.ViewPrivate.Bytes(),
		SpendPublic:  spendPub,
	}}, nil
}

func (e *Engine) handleGetSubaddressKeys(v GetSubaddressKeys) (Output, error) {
	if !e.unlocked {
		return Output{}, ErrApprovalPending
	}
	seed := e.drv.DeriveEd25519(crypto.AccountPath(v.AccountIndex))
	acc := crypto.AccountFromSeed(seed)
	_, spend := acc.Subaddress(v.SubaddressIndex)
	return Output{SubaddressKeys: &SubaddressKeysOutput{
		ViewPrivate: acc.ViewPrivate.Bytes(),
		SpendPublic: spend.Bytes(),
	}}, nil
}

func (e *Engine) handleGetKeyImage(v GetKeyImage) (Output, error) {
	if !e.unlocked {
		return Output{}, ErrApprovalPending
	}
	seed := e.drv.DeriveEd25519(crypto.AccountPath(v.AccountIndex))
	acc := crypto.AccountFromSeed(seed)

	txPub, err := crypto.RistrettoPublicFromBytes(v.TxOutPublic)
	if err != nil {
		return Output{}, ErrInvalidKey
	}
	subSpend := acc.SubaddressSpendPrivate(v.SubaddressIndex)
	x := crypto.RecoverOnetimePrivate(txPub, acc.ViewPrivate, subSpend)
	ki := crypto.ComputeKeyImage(x, x.Public())
	return Output{KeyImageOut: &ki}, nil
}

func (e *Engine) handleMemoSign(v TxMemoSign) (Output, error) {
	if e.state != StateSignMemos {
		return Output{}, ErrUnexpectedEvent
	}
	acc := e.account()
	subSpend := acc.SubaddressSpendPrivate(v.SubaddressIndex)
	receiverView, err := crypto.RistrettoPublicFromBytes(v.ReceiverViewPublic)
	if err != nil {
		return Output{}, ErrInvalidKey
	}
	tag := crypto.SignMemo(subSpend, receiverView, v.TxPublicKey, v.Kind, v.Payload[:])
	e.memoCount++
	return Output{MemoSig: &MemoSigOutput{Tag: tag}}, nil
}

func (e *Engine) handleIdentGetReq() (Output, error) {
	switch e.state {
	case StateIdentApproved:
		out := *e.identResult
		e.Reset()
		return Output{IdentResp: &out}, nil
	case StateIdentDenied:
		e.Reset()
		return Output{}, ErrIdentRejected
	default:
		return Output{}, ErrUnexpectedEvent
	}
}

