package wire

import (
	"errors"

	"hwmob/engine"
	"hwmob/types"
)

// ErrUnknownInstruction is returned for an instruction byte outside
// the known set.
var ErrUnknownInstruction = errors.New("wire: unknown instruction code")

// ParseEvent decodes a request APDU's instruction byte and payload
// into the engine event it represents.
func ParseEvent(ins byte, payload []byte) (engine.Event, error) {
	r := newReader(payload)

	switch ins {
	case InsGetAppInfo:
		return engine.GetAppInfo{}, nil

	case InsGetWalletKeys:
		idx, err := r.u32()
		if err != nil {
			return nil, err
		}
		return engine.GetWalletKeys{AccountIndex: idx}, nil

	case InsGetSubaddressKeys:
		acct, err := r.u32()
		if err != nil {
			return nil, err
		}
		sub, err := r.u64()
		if err != nil {
			return nil, err
		}
		return engine.GetSubaddressKeys{AccountIndex: acct, SubaddressIndex: sub}, nil

	case InsGetKeyImage:
		acct, err := r.u32()
		if err != nil {
			return nil, err
		}
		sub, err := r.u64()
		if err != nil {
			return nil, err
		}
		pub, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		var cp types.CompressedPoint
		copy(cp[:], pub)
		return engine.GetKeyImage{AccountIndex: acct, SubaddressIndex: sub, TxOutPublic: cp}, nil

	case InsGetRandom:
		n, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(3); err != nil {
			return nil, err
		}
		return engine.GetRandom{N: int(n)}, nil

	case InsIdentSignReq:
		idx, err := r.u32()
		if err != nil {
			return nil, err
		}
		uriLen, err := r.u8()
		if err != nil {
			return nil, err
		}
		chLen, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(2); err != nil {
			return nil, err
		}
		uriB, err := r.fixed(int(uriLen))
		if err != nil {
			return nil, err
		}
		chB, err := r.fixed(int(chLen))
		if err != nil {
			return nil, err
		}
		return engine.IdentSignReq{Index: idx, URI: string(uriB), Challenge: append([]byte{}, chB...)}, nil

	case InsIdentGetReq:
		return engine.IdentGetReq{}, nil

	case InsTxInit:
		numRings, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(3); err != nil {
			return nil, err
		}
		acct, err := r.u32()
		if err != nil {
			return nil, err
		}
		return engine.TxInit{NumRings: numRings, AccountIndex: acct}, nil

	case InsTxMemoSign:
		kind, err := r.fixed(2)
		if err != nil {
			return nil, err
		}
		if _, err := r.u8(); err != nil { // payload_len, informational only
			return nil, err
		}
		if _, err := r.u8(); err != nil { // pad
			return nil, err
		}
		sub, err := r.u64()
		if err != nil {
			return nil, err
		}
		txPub, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		viewPub, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		pl, err := r.fixed(48)
		if err != nil {
			return nil, err
		}
		var ev engine.TxMemoSign
		copy(ev.Kind[:], kind)
		ev.SubaddressIndex = sub
		copy(ev.TxPublicKey[:], txPub)
		copy(ev.ReceiverViewPublic[:], viewPub)
		copy(ev.Payload[:], pl)
		return ev, nil

	case InsTxSetMessage:
		n, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(3); err != nil {
			return nil, err
		}
		msg, err := r.fixed(int(n))
		if err != nil {
			return nil, err
		}
		return engine.TxSetMessage{Message: append([]byte{}, msg...)}, nil

	case InsTxSummaryInit:
		msg, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		bv, err := r.u32()
		if err != nil {
			return nil, err
		}
		nout, err := r.u32()
		if err != nil {
			return nil, err
		}
		nin, err := r.u32()
		if err != nil {
			return nil, err
		}
		var h types.Hash
		copy(h[:], msg)
		return engine.TxSummaryInit{Message: h, BlockVersion: bv, NumOutputs: nout, NumInputs: nin}, nil

	case InsTxSummaryAddTxOut:
		return decodeSummaryAddTxOut(r)

	case InsTxSummaryAddTxOutU:
		return decodeSummaryAddTxOutUnblinding(r)

	case InsTxSummaryAddTxIn:
		return decodeSummaryAddTxIn(r)

	case InsTxSummaryBuild:
		fv, err := r.u64()
		if err != nil {
			return nil, err
		}
		ft, err := r.u64()
		if err != nil {
			return nil, err
		}
		tb, err := r.u64()
		if err != nil {
			return nil, err
		}
		return engine.TxSummaryBuild{FeeValue: fv, FeeToken: ft, TombstoneBlock: tb}, nil

	case InsTxRingInit:
		ringSize, err := r.u8()
		if err != nil {
			return nil, err
		}
		realIndex, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(2); err != nil {
			return nil, err
		}
		sub, err := r.u64()
		if err != nil {
			return nil, err
		}
		val, err := r.u64()
		if err != nil {
			return nil, err
		}
		tok, err := r.u64()
		if err != nil {
			return nil, err
		}
		return engine.TxRingInit{RingSize: ringSize, RealIndex: realIndex, SubaddressIndex: sub, Value: val, TokenID: tok}, nil

	case InsTxSetBlinding:
		b, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		ob, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		var ev engine.TxSetBlinding
		copy(ev.Blinding[:], b)
		copy(ev.OutputBlinding[:], ob)
		return ev, nil

	case InsTxAddTxOut:
		ringIndex, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(3); err != nil {
			return nil, err
		}
		pub, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		target, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		commitment, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		var ev engine.TxAddTxOut
		ev.RingIndex = ringIndex
		copy(ev.TxOut.PublicKey[:], pub)
		copy(ev.TxOut.TargetKey[:], target)
		copy(ev.TxOut.Commitment[:], commitment)
		return ev, nil

	case InsTxSign:
		return engine.TxSign{}, nil

	case InsTxGetKeyImage:
		return engine.TxGetKeyImage{}, nil

	case InsTxGetResponse:
		idx, err := r.u8()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(3); err != nil {
			return nil, err
		}
		return engine.TxGetResponse{Index: idx}, nil

	case InsTxComplete:
		return engine.TxComplete{}, nil

	case InsTxGetInfo:
		return engine.TxGetInfo{}, nil

	default:
		return nil, ErrUnknownInstruction
	}
}

func decodeSummaryAddTxOut(r *reader) (engine.Event, error) {
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	if _, err := r.take(3); err != nil {
		return nil, err
	}
	var ev engine.TxSummaryAddTxOut
	if flags&0x01 != 0 {
		commitment, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		value, err := r.u64()
		if err != nil {
			return nil, err
		}
		tokenID, err := r.fixed(8)
		if err != nil {
			return nil, err
		}
		var m engine.MaskedAmount
		copy(m.Commitment[:], commitment)
		m.Value = value
		copy(m.TokenID[:], tokenID)
		ev.Masked = &m
	}
	target, err := r.fixed(32)
	if err != nil {
		return nil, err
	}
	pub, err := r.fixed(32)
	if err != nil {
		return nil, err
	}
	copy(ev.TargetKey[:], target)
	copy(ev.PublicKey[:], pub)
	ev.AssociatedToInputRules = flags&0x02 != 0
	return ev, nil
}

func decodeSummaryAddTxOutUnblinding(r *reader) (engine.Event, error) {
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	fogLen, err := r.u8()
	if err != nil {
		return nil, err
	}
	if _, err := r.take(2); err != nil {
		return nil, err
	}
	value, err := r.u64()
	if err != nil {
		return nil, err
	}
	tokenID, err := r.u64()
	if err != nil {
		return nil, err
	}
	blinding, err := r.fixed(32)
	if err != nil {
		return nil, err
	}

	var ev engine.TxSummaryAddTxOutUnblinding
	ev.Unmasked.Value = value
	ev.Unmasked.TokenID = tokenID
	copy(ev.Unmasked.Blinding[:], blinding)

	if flags&0x01 != 0 {
		view, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		spend, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		addr := &types.PublicSubaddress{}
		copy(addr.ViewPublic[:], view)
		copy(addr.SpendPublic[:], spend)
		ev.Address = addr
	}
	if flags&0x02 != 0 {
		priv, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		var s types.Scalar
		copy(s[:], priv)
		ev.TxPrivateKey = &s
	}
	if flags&0x04 != 0 {
		sig, err := r.fixed(int(fogLen))
		if err != nil {
			return nil, err
		}
		ev.FogSig = append([]byte{}, sig...)
	}
	return ev, nil
}

func decodeSummaryAddTxIn(r *reader) (engine.Event, error) {
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	if _, err := r.take(3); err != nil {
		return nil, err
	}
	commitment, err := r.fixed(32)
	if err != nil {
		return nil, err
	}

	var ev engine.TxSummaryAddTxIn
	copy(ev.PseudoOutputCommitment[:], commitment)

	if flags&0x01 != 0 {
		digest, err := r.fixed(32)
		if err != nil {
			return nil, err
		}
		var h types.Hash
		copy(h[:], digest)
		ev.InputRulesDigest = &h
	}

	value, err := r.u64()
	if err != nil {
		return nil, err
	}
	tokenID, err := r.u64()
	if err != nil {
		return nil, err
	}
	blinding, err := r.fixed(32)
	if err != nil {
		return nil, err
	}
	ev.Unmasked.Value = value
	ev.Unmasked.TokenID = tokenID
	copy(ev.Unmasked.Blinding[:], blinding)
	return ev, nil
}
