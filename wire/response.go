package wire

import "hwmob/engine"

// Response is a decoded reply frame: the state header common to
// every instruction, the instruction-specific body still left to
// parse, and the trailing status word.
type Response struct {
	State  engine.State
	Value  uint16
	Digest [32]byte
	Body   []byte
	Status uint16
}

// DecodeResponse splits a raw reply frame into its state header,
// remaining body, and trailing two-byte status word. AppInfo replies
// have no state header and should be read with DecodeAppInfo instead.
func DecodeResponse(frame []byte) (Response, error) {
	if len(frame) < 37 {
		return Response{}, ErrTruncated
	}
	status := uint16(frame[len(frame)-2])<<8 | uint16(frame[len(frame)-1])
	r := newReader(frame[:len(frame)-2])

	state, err := r.u8()
	if err != nil {
		return Response{}, err
	}
	lo, err := r.u8()
	if err != nil {
		return Response{}, err
	}
	hi, err := r.u8()
	if err != nil {
		return Response{}, err
	}
	digest, err := r.fixed(32)
	if err != nil {
		return Response{}, err
	}

	var d [32]byte
	copy(d[:], digest)
	return Response{
		State:  engine.State(state),
		Value:  uint16(lo) | uint16(hi)<<8,
		Digest: d,
		Body:   append([]byte{}, r.remaining()...),
		Status: status,
	}, nil
}

// AppInfo is the decoded reply to BuildGetAppInfo.
type AppInfo struct {
	Proto        byte
	Name         string
	Version      string
	Unlocked     bool
	HasTxSummary bool
	Status       uint16
}

// DecodeAppInfo parses a GetAppInfo reply, which carries no state
// header.
func DecodeAppInfo(frame []byte) (AppInfo, error) {
	if len(frame) < 2 {
		return AppInfo{}, ErrTruncated
	}
	status := uint16(frame[len(frame)-2])<<8 | uint16(frame[len(frame)-1])
	r := newReader(frame[:len(frame)-2])

	proto, err := r.u8()
	if err != nil {
		return AppInfo{}, err
	}
	nameLen, err := r.u8()
	if err != nil {
		return AppInfo{}, err
	}
	verLen, err := r.u8()
	if err != nil {
		return AppInfo{}, err
	}
	if _, err := r.u8(); err != nil { // flags_tlv length
		return AppInfo{}, err
	}
	nameB, err := r.fixed(int(nameLen))
	if err != nil {
		return AppInfo{}, err
	}
	verB, err := r.fixed(int(verLen))
	if err != nil {
		return AppInfo{}, err
	}
	if _, err := r.u8(); err != nil { // flags tag
		return AppInfo{}, err
	}
	lo, err := r.u8()
	if err != nil {
		return AppInfo{}, err
	}
	hi, err := r.u8()
	if err != nil {
		return AppInfo{}, err
	}
	bits := uint16(lo) | uint16(hi)<<8

	return AppInfo{
		Proto:        proto,
		Name:         string(nameB),
		Version:      string(verB),
		Unlocked:     bits&FlagUnlocked != 0,
		HasTxSummary: bits&FlagHasTxSummary != 0,
		Status:       status,
	}, nil
}
