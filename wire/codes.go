// Package wire implements the packed binary APDU envelope: instruction
// codes, request/response framing, and the instruction-code-to-event
// parser the engine is driven through. All multi-byte integers are
// little-endian; 8-byte scalars are padded onto a 32-bit boundary.
package wire

// ClassApp and ClassGeneric are the two APDU class bytes the engine
// recognizes.
const (
	ClassApp     byte = 0xAB
	ClassGeneric byte = 0x00
)

// Instruction codes, complete set.
const (
	InsGetAppInfo         byte = 0x00
	InsGetWalletKeys      byte = 0x10
	InsGetSubaddressKeys  byte = 0x11
	InsGetKeyImage        byte = 0x12
	InsGetRandom          byte = 0x13
	InsIdentSignReq       byte = 0x14
	InsIdentGetReq        byte = 0x15
	InsTxInit             byte = 0x20
	InsTxMemoSign         byte = 0x21
	InsTxSetMessage       byte = 0x22
	InsTxSummaryInit      byte = 0x30
	InsTxSummaryAddTxOut  byte = 0x31
	InsTxSummaryAddTxOutU byte = 0x32
	InsTxSummaryAddTxIn   byte = 0x33
	InsTxSummaryBuild     byte = 0x34
	InsTxRingInit         byte = 0x40
	InsTxSetBlinding      byte = 0x41
	InsTxAddTxOut         byte = 0x42
	InsTxSign             byte = 0x43
	InsTxGetKeyImage      byte = 0x44
	InsTxGetResponse      byte = 0x45
	InsTxComplete         byte = 0x50
	InsTxGetInfo          byte = 0x51
)

// MaxAPDUPayload is the largest payload the engine may emit; callers
// MUST reject longer encodings.
const MaxAPDUPayload = 249

// StatusOK is the success status word; all others are 0x6D00 | engine.Error.
const StatusOK uint16 = 0x9000

// Known AppInfo flag bits.
const (
	FlagUnlocked      uint16 = 1 << 0
	FlagHasTxSummary  uint16 = 1 << 8
)
