package wire

import "hwmob/engine"

// EncodeStateHeader builds the ubiquitous 3-byte-plus-digest response
// prefix: state | value | digest.
func EncodeStateHeader(state engine.State, value uint16, digest [32]byte) []byte {
	w := &writer{}
	w.u8(byte(state))
	var v [2]byte
	v[0] = byte(value)
	v[1] = byte(value >> 8)
	w.bytes(v[:])
	w.bytes(digest[:])
	return w.b
}

// EncodeAppInfo builds the self-identifying AppInfo response, which
// carries no state header.
func EncodeAppInfo(proto byte, name, version string, unlocked, hasTxSummary bool) ([]byte, error) {
	w := &writer{}
	w.u8(proto)
	w.u8(byte(len(name)))
	w.u8(byte(len(version)))
	w.u8(3) // flags_tlv length: tag(1) + u16 bits
	w.bytes([]byte(name))
	w.bytes([]byte(version))

	var bits uint16
	if unlocked {
		bits |= FlagUnlocked
	}
	if hasTxSummary {
		bits |= FlagHasTxSummary
	}
	w.u8(2)
	w.u8(byte(bits))
	w.u8(byte(bits >> 8))
	return w.finish()
}

// EncodeResponse builds the full response for a successful Update
// call: the state header followed by any instruction-specific
// payload. value carries the instruction-specific header field (ring
// index, memo counter) the caller already knows; it defaults to 0 for
// instructions that don't use it.
func EncodeResponse(ins byte, value uint16, out engine.Output) ([]byte, error) {
	w := &writer{}
	w.bytes(EncodeStateHeader(out.State, value, out.Digest))

	switch ins {
	case InsGetWalletKeys:
		if out.WalletKeys == nil {
			return nil, ErrEncodingMismatch
		}
		w.u32(out.WalletKeys.AccountIndex)
		w.bytes(out.WalletKeys.ViewPrivate[:])
		w.bytes(out.WalletKeys.SpendPublic[:])

	case InsGetSubaddressKeys:
		if out.SubaddressKeys == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.SubaddressKeys.ViewPrivate[:])
		w.bytes(out.SubaddressKeys.SpendPublic[:])

	case InsGetKeyImage:
		if out.KeyImageOut == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.KeyImageOut[:])

	case InsGetRandom:
		w.bytes(out.Random)

	case InsIdentGetReq:
		if out.IdentResp == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.IdentResp.PublicKey[:])
		w.bytes(out.IdentResp.Signature[:])

	case InsTxMemoSign:
		if out.MemoSig == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.MemoSig.Tag[:])

	case InsTxSummaryBuild:
		if out.SummaryDigest == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.SummaryDigest[:])

	case InsTxGetKeyImage:
		if out.RingKeyImage == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.RingKeyImage.KeyImage[:])
		w.bytes(out.RingKeyImage.CZero[:])

	case InsTxGetResponse:
		if out.RingResponse == nil {
			return nil, ErrEncodingMismatch
		}
		w.bytes(out.RingResponse[:])

	case InsTxGetInfo:
		if out.Info == nil {
			return nil, ErrEncodingMismatch
		}
		w.u32(out.Info.ProgressIndex)
		w.u32(out.Info.ProgressTotal)

	case InsGetAppInfo, InsIdentSignReq, InsTxInit, InsTxSetMessage,
		InsTxSummaryInit, InsTxSummaryAddTxOut, InsTxSummaryAddTxOutU, InsTxSummaryAddTxIn,
		InsTxRingInit, InsTxSetBlinding, InsTxAddTxOut, InsTxSign, InsTxComplete:
		// Header only; these acknowledge with no further payload.
	}

	return w.finish()
}
