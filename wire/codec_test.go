package wire

import (
	"bytes"
	"testing"

	"hwmob/engine"
)

// payload strips the 2-byte (class, ins) header a Build* function
// prepends, returning what ParseEvent expects as its payload argument.
func payload(f []byte) []byte { return f[2:] }

func TestParseEventRoundTripsGetWalletKeys(t *testing.T) {
	f := BuildGetWalletKeys(7)
	ev, err := ParseEvent(InsGetWalletKeys, payload(f))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got, ok := ev.(engine.GetWalletKeys)
	if !ok {
		t.Fatalf("expected GetWalletKeys, got %T", ev)
	}
	if got.AccountIndex != 7 {
		t.Fatalf("expected account index 7, got %d", got.AccountIndex)
	}
}

func TestParseEventRoundTripsGetSubaddressKeys(t *testing.T) {
	f := BuildGetSubaddressKeys(2, 99)
	ev, err := ParseEvent(InsGetSubaddressKeys, payload(f))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := ev.(engine.GetSubaddressKeys)
	if got.AccountIndex != 2 || got.SubaddressIndex != 99 {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestParseEventRoundTripsGetRandom(t *testing.T) {
	f := BuildGetRandom(64)
	ev, err := ParseEvent(InsGetRandom, payload(f))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := ev.(engine.GetRandom)
	if got.N != 64 {
		t.Fatalf("expected N=64, got %d", got.N)
	}
}

func TestParseEventRoundTripsIdentSignReq(t *testing.T) {
	f := BuildIdentSignReq(3, "https://example.com/ident", []byte("challenge-bytes"))
	ev, err := ParseEvent(InsIdentSignReq, payload(f))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := ev.(engine.IdentSignReq)
	if got.Index != 3 || got.URI != "https://example.com/ident" || !bytes.Equal(got.Challenge, []byte("challenge-bytes")) {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestParseEventRoundTripsTxInit(t *testing.T) {
	f := BuildTxInit(5, 11)
	ev, err := ParseEvent(InsTxInit, payload(f))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := ev.(engine.TxInit)
	if got.NumRings != 5 || got.AccountIndex != 11 {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestParseEventRoundTripsTxSetMessage(t *testing.T) {
	msg := []byte("a 32 byte message goes here!!!!!")
	f := BuildTxSetMessage(msg)
	ev, err := ParseEvent(InsTxSetMessage, payload(f))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := ev.(engine.TxSetMessage)
	if !bytes.Equal(got.Message, msg) {
		t.Fatalf("message mismatch: got %q", got.Message)
	}
}

func TestParseEventRoundTripsTxAddTxOut(t *testing.T) {
	w := &writer{}
	w.u8(2)
	w.pad(3)
	var pub, target, commitment [32]byte
	pub[0], target[0], commitment[0] = 1, 2, 3
	w.bytes(pub[:])
	w.bytes(target[:])
	w.bytes(commitment[:])

	ev, err := ParseEvent(InsTxAddTxOut, w.b)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := ev.(engine.TxAddTxOut)
	if got.RingIndex != 2 {
		t.Fatalf("expected ring index 2, got %d", got.RingIndex)
	}
	if got.TxOut.PublicKey != pub || got.TxOut.TargetKey != target || got.TxOut.Commitment != commitment {
		t.Fatalf("txout fields mismatch")
	}
}

func TestParseEventRejectsTruncatedPayload(t *testing.T) {
	f := BuildGetWalletKeys(1)
	truncated := payload(f)[:2] // a u32 needs 4 bytes
	if _, err := ParseEvent(InsGetWalletKeys, truncated); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestParseEventRejectsUnknownInstruction(t *testing.T) {
	if _, err := ParseEvent(0xEE, nil); err != ErrUnknownInstruction {
		t.Fatalf("expected ErrUnknownInstruction, got %v", err)
	}
}

func TestEncodeResponseRejectsOversizedRandom(t *testing.T) {
	out := engine.Output{State: engine.StateInit, Random: make([]byte, MaxAPDUPayload+1)}
	if _, err := EncodeResponse(InsGetRandom, 0, out); err != ErrTooLong {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestEncodeResponseRejectsMismatchedOutput(t *testing.T) {
	out := engine.Output{State: engine.StateReady}
	if _, err := EncodeResponse(InsGetWalletKeys, 0, out); err != ErrEncodingMismatch {
		t.Fatalf("expected ErrEncodingMismatch when WalletKeys is nil, got %v", err)
	}
}

func TestEncodeDecodeResponseRoundTrip(t *testing.T) {
	var digest [32]byte
	digest[0] = 0x42
	out := engine.Output{
		State:  engine.StateReady,
		Digest: digest,
		Info:   &engine.InfoOutput{ProgressIndex: 3, ProgressTotal: 10},
	}
	body, err := EncodeResponse(InsTxGetInfo, 0, out)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	full := append(append([]byte{}, body...), byte(StatusOK>>8), byte(StatusOK))

	resp, err := DecodeResponse(full)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.State != engine.StateReady {
		t.Fatalf("expected StateReady, got %v", resp.State)
	}
	if resp.Digest != digest {
		t.Fatalf("digest mismatch")
	}
	if resp.Status != StatusOK {
		t.Fatalf("expected StatusOK, got %#x", resp.Status)
	}
	if len(resp.Body) != 8 {
		t.Fatalf("expected 8-byte progress body, got %d", len(resp.Body))
	}
}

func TestDecodeResponseRejectsShortFrame(t *testing.T) {
	if _, err := DecodeResponse(make([]byte, 10)); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestEncodeDecodeAppInfoRoundTrip(t *testing.T) {
	body, err := EncodeAppInfo(1, "hwmob", "0.1.0", true, false)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	full := append(append([]byte{}, body...), byte(StatusOK>>8), byte(StatusOK))

	info, err := DecodeAppInfo(full)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if info.Name != "hwmob" || info.Version != "0.1.0" {
		t.Fatalf("unexpected name/version: %+v", info)
	}
	if !info.Unlocked || info.HasTxSummary {
		t.Fatalf("unexpected flags: %+v", info)
	}
	if info.Status != StatusOK {
		t.Fatalf("expected StatusOK, got %#x", info.Status)
	}
}

func TestStatusWordMapsEngineErrors(t *testing.T) {
	if sw := StatusWord(nil); sw != StatusOK {
		t.Fatalf("expected StatusOK for nil error, got %#x", sw)
	}
	if sw := StatusWord(engine.ErrApprovalPending); sw != engine.ErrApprovalPending.StatusWord() {
		t.Fatalf("expected engine error status word, got %#x", sw)
	}
	if sw := StatusWord(ErrTruncated); sw != 0x6D00|uint16(engine.ErrUnknown) {
		t.Fatalf("expected fallback unknown status word for a non-engine error, got %#x", sw)
	}
}
