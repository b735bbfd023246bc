package wire

// Request builders mirror ParseEvent in reverse: they are the
// host-side half of the APDU codec, used by an operator client to
// build the frames a Device decodes with ParseEvent. Only the
// instructions an operator drives directly are built here; summary
// and ring construction are ordinarily driven by a transaction
// builder rather than typed by a human.

func frame(class, ins byte, payload []byte) []byte {
	out := make([]byte, 0, 2+len(payload))
	out = append(out, class, ins)
	out = append(out, payload...)
	return out
}

// BuildGetAppInfo requests the device's identity and flags.
func BuildGetAppInfo() []byte {
	return frame(ClassGeneric, InsGetAppInfo, nil)
}

// BuildGetWalletKeys requests the account's view private key and
// spend public key.
func BuildGetWalletKeys(accountIndex uint32) []byte {
	w := &writer{}
	w.u32(accountIndex)
	return frame(ClassApp, InsGetWalletKeys, w.b)
}

// BuildGetSubaddressKeys requests a subaddress's derived keys.
func BuildGetSubaddressKeys(accountIndex uint32, subaddressIndex uint64) []byte {
	w := &writer{}
	w.u32(accountIndex)
	w.u64(subaddressIndex)
	return frame(ClassApp, InsGetSubaddressKeys, w.b)
}

// BuildGetRandom requests n bytes of device-sourced randomness.
func BuildGetRandom(n uint8) []byte {
	w := &writer{}
	w.u8(n)
	w.pad(3)
	return frame(ClassApp, InsGetRandom, w.b)
}

// BuildIdentSignReq requests an identity challenge signature for the
// SLIP-0013 path rooted at index under uri.
func BuildIdentSignReq(index uint32, uri string, challenge []byte) []byte {
	w := &writer{}
	w.u32(index)
	w.u8(byte(len(uri)))
	w.u8(byte(len(challenge)))
	w.pad(2)
	w.bytes([]byte(uri))
	w.bytes(challenge)
	return frame(ClassApp, InsIdentSignReq, w.b)
}

// BuildIdentGetReq retrieves the result of an approved or denied
// identity request, resetting the engine afterward.
func BuildIdentGetReq() []byte {
	return frame(ClassApp, InsIdentGetReq, nil)
}

// BuildTxInit begins a new transaction signing session.
func BuildTxInit(numRings uint8, accountIndex uint32) []byte {
	w := &writer{}
	w.u8(numRings)
	w.pad(3)
	w.u32(accountIndex)
	return frame(ClassApp, InsTxInit, w.b)
}

// BuildTxSetMessage supplies the 0..32 byte message to be covered by
// the rolling digest.
func BuildTxSetMessage(message []byte) []byte {
	w := &writer{}
	w.u8(byte(len(message)))
	w.pad(3)
	w.bytes(message)
	return frame(ClassApp, InsTxSetMessage, w.b)
}

// BuildTxComplete acknowledges a finished or denied transaction,
// moving the engine to TxComplete and clearing its sub-contexts.
func BuildTxComplete() []byte {
	return frame(ClassApp, InsTxComplete, nil)
}

// BuildTxGetInfo queries ring/summary progress without mutating
// state; it is the frame Resync replays to recover lost visibility.
func BuildTxGetInfo() []byte {
	return frame(ClassApp, InsTxGetInfo, nil)
}
