package wire

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned when a decode call runs past the end of
// the supplied payload.
var ErrTruncated = errors.New("wire: truncated payload")

// ErrTooLong is returned when an encoded message would exceed
// MaxAPDUPayload.
var ErrTooLong = errors.New("wire: payload exceeds APDU maximum")

// ErrEncodingMismatch is returned when EncodeResponse is asked to
// encode an instruction whose Output variant was not populated.
var ErrEncodingMismatch = errors.New("wire: output does not match instruction")

// reader walks a byte slice, failing closed on underrun.
type reader struct {
	b   []byte
	pos int
}

func newReader(b []byte) *reader { return &reader{b: b} }

func (r *reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.b) {
		return nil, ErrTruncated
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) fixed(n int) ([]byte, error) { return r.take(n) }

func (r *reader) remaining() []byte { return r.b[r.pos:] }

// writer accumulates an encoded message, failing closed on overflow.
type writer struct {
	b []byte
}

func (w *writer) u8(v byte)          { w.b = append(w.b, v) }
func (w *writer) pad(n int)          { w.b = append(w.b, make([]byte, n)...) }
func (w *writer) bytes(v []byte)     { w.b = append(w.b, v...) }
func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.b = append(w.b, b[:]...)
}
func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.b = append(w.b, b[:]...)
}

func (w *writer) finish() ([]byte, error) {
	if len(w.b) > MaxAPDUPayload {
		return nil, ErrTooLong
	}
	return w.b, nil
}
