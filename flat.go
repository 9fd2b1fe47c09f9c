// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "io"

// FlatProvider serves a contiguous in-memory byte region. Release moves
// the window boundary only; the payload is freed solely when the refcount
// reaches zero, so clones over the same region stay valid regardless of
// how far each consumer has acknowledged.
var FlatProvider Provider = &flat{}

type flat struct{}

// InitFlat initializes inst over payload using caller-supplied control
// block storage. It performs no allocations, for callers that pool or
// statically place their stream state. payload must be non-empty; the
// bytes must not be mutated afterwards.
func InitFlat(inst *Stream, cb *ControlBlock, payload []byte, opts ...Option) error {
	if inst == nil || cb == nil || len(payload) == 0 {
		return ErrInvalidArgument
	}
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	*cb = ControlBlock{
		provider:       FlatProvider,
		payload:        payload,
		payloadRelease: o.PayloadRelease,
		blockRelease:   o.ControlBlockRelease,
	}
	cb.refs.StoreRelease(1)
	*inst = Stream{cb: cb, length: uint64(len(payload))}
	return nil
}

// NewFlat returns a stream over payload. The bytes must not be mutated
// afterwards. Dispose with Close; the last Close across all clones runs
// the configured release callbacks.
func NewFlat(payload []byte, opts ...Option) (*Stream, error) {
	inst := new(Stream)
	if err := InitFlat(inst, new(ControlBlock), payload, opts...); err != nil {
		return nil, err
	}
	return inst, nil
}

func (f *flat) SetPosition(s *Stream, pos uint64) error {
	if err := instanceOf(s, f); err != nil {
		return err
	}
	return s.seekTo(pos)
}

func (f *flat) Reset(s *Stream) error {
	if err := instanceOf(s, f); err != nil {
		return err
	}
	return s.rewind()
}

func (f *flat) Read(s *Stream, p []byte) (int, error) {
	if err := instanceOf(s, f); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, ErrInvalidArgument
	}
	if s.innerCurrent == s.length {
		return 0, io.EOF
	}
	payload := s.cb.payload.([]byte)
	n := copy(p, payload[s.innerCurrent:s.length])
	s.innerCurrent += uint64(n)
	return n, nil
}

func (f *flat) RemainingSize(s *Stream) (uint64, error) {
	if err := instanceOf(s, f); err != nil {
		return 0, err
	}
	return s.remaining(), nil
}

func (f *flat) Position(s *Stream) (uint64, error) {
	if err := instanceOf(s, f); err != nil {
		return 0, err
	}
	return s.logicalPosition(), nil
}

func (f *flat) Release(s *Stream, pos uint64) error {
	if err := instanceOf(s, f); err != nil {
		return err
	}
	return s.retire(pos)
}

func (f *flat) Clone(dst, src *Stream, offset uint64) error {
	if err := instanceOf(src, f); err != nil {
		return err
	}
	return cloneInstance(dst, src, offset)
}

func (f *flat) Dispose(s *Stream) error {
	if err := instanceOf(s, f); err != nil {
		return err
	}
	return disposeInstance(s)
}
