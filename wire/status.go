package wire

import "hwmob/engine"

// StatusWord maps an Update() result to the two-byte APDU status
// word the transport appends after the response payload.
func StatusWord(err error) uint16 {
	if err == nil {
		return StatusOK
	}
	if e, ok := err.(engine.Error); ok {
		return e.StatusWord()
	}
	return 0x6D00 | uint16(engine.ErrUnknown)
}
