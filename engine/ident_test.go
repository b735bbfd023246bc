package engine

import (
	"crypto/ed25519"
	"testing"
)

func TestIdentApproveProducesVerifiableSignature(t *testing.T) {
	e := newTestEngine()

	challenge := []byte("login-challenge-bytes")
	if _, err := e.Update(IdentSignReq{Index: 0, URI: "https://example.com/login", Challenge: challenge}); err != nil {
		t.Fatalf("ident sign req failed: %v", err)
	}
	if e.CurrentState() != StateIdentPending {
		t.Fatalf("expected StateIdentPending, got %v", e.CurrentState())
	}

	if err := e.IdentApprove(true); err != nil {
		t.Fatalf("ident approve failed: %v", err)
	}
	if e.CurrentState() != StateIdentApproved {
		t.Fatalf("expected StateIdentApproved, got %v", e.CurrentState())
	}

	out, err := e.Update(IdentGetReq{})
	if err != nil {
		t.Fatalf("ident get req failed: %v", err)
	}
	if out.IdentResp == nil {
		t.Fatalf("expected an ident response")
	}
	if !ed25519.Verify(out.IdentResp.PublicKey[:], challenge, out.IdentResp.Signature[:]) {
		t.Fatalf("ident signature does not verify against the returned public key")
	}

	if e.CurrentState() != StateInit {
		t.Fatalf("expected engine to return to StateInit after the result is collected, got %v", e.CurrentState())
	}
}

func TestIdentDenyRejectsSubsequentGetReq(t *testing.T) {
	e := newTestEngine()

	if _, err := e.Update(IdentSignReq{Index: 0, URI: "https://example.com", Challenge: []byte("c")}); err != nil {
		t.Fatalf("ident sign req failed: %v", err)
	}
	if err := e.IdentApprove(false); err != nil {
		t.Fatalf("ident deny failed: %v", err)
	}
	if e.CurrentState() != StateIdentDenied {
		t.Fatalf("expected StateIdentDenied, got %v", e.CurrentState())
	}

	if _, err := e.Update(IdentGetReq{}); err != ErrIdentRejected {
		t.Fatalf("expected ErrIdentRejected, got %v", err)
	}
	if e.CurrentState() != StateInit {
		t.Fatalf("expected engine to return to StateInit after rejection is collected, got %v", e.CurrentState())
	}
}

func TestIdentSignReqOnlyAllowedFromInit(t *testing.T) {
	e := newTestEngine()
	if _, err := e.Update(TxInit{NumRings: 1, AccountIndex: 0}); err != nil {
		t.Fatalf("tx init failed: %v", err)
	}
	if _, err := e.Update(IdentSignReq{Index: 0, URI: "https://example.com", Challenge: []byte("c")}); err != ErrUnexpectedEvent {
		t.Fatalf("expected ErrUnexpectedEvent for ident req mid-transaction, got %v", err)
	}
}
