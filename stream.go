// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "math"

// Public dispatch surface. Each method routes through the instance's
// control block so composed and cloned instances behave uniformly; the
// provider re-checks identity on entry.

// SetPosition moves the cursor to the logical position pos within the
// pending or future segment.
func (s *Stream) SetPosition(pos uint64) error {
	if s == nil || s.cb == nil {
		return ErrInvalidArgument
	}
	return s.cb.provider.SetPosition(s, pos)
}

// Reset moves the cursor back to the start of the pending segment: the
// position immediately after the last released prefix, or the stream start
// when nothing has been released.
func (s *Stream) Reset() error {
	if s == nil || s.cb == nil {
		return ErrInvalidArgument
	}
	return s.cb.provider.Reset(s)
}

// Read copies the next sequential bytes into p and advances the cursor.
// At the end of the stream it returns (0, io.EOF). Unlike io.Reader, an
// empty p is an error here; use [NewReader] for io semantics.
func (s *Stream) Read(p []byte) (int, error) {
	if s == nil || s.cb == nil {
		return 0, ErrInvalidArgument
	}
	return s.cb.provider.Read(s, p)
}

// RemainingSize reports how many source positions remain ahead of the
// cursor. Position()+RemainingSize() is constant between reads and
// releases.
func (s *Stream) RemainingSize() (uint64, error) {
	if s == nil || s.cb == nil {
		return 0, ErrInvalidArgument
	}
	return s.cb.provider.RemainingSize(s)
}

// Position reports the logical position of the cursor.
func (s *Stream) Position() (uint64, error) {
	if s == nil || s.cb == nil {
		return 0, ErrInvalidArgument
	}
	return s.cb.provider.Position(s)
}

// Release retires the prefix up to and including logical position pos.
// Only consumed bytes (strictly below the cursor) can be retired.
func (s *Stream) Release(pos uint64) error {
	if s == nil || s.cb == nil {
		return ErrInvalidArgument
	}
	return s.cb.provider.Release(s, pos)
}

// Clone returns a new instance over the same content, starting at the
// current cursor, with logical positions rebased to offset. The clone owns
// an independent cursor; content and refcount are shared.
func (s *Stream) Clone(offset uint64) (*Stream, error) {
	dst := new(Stream)
	if err := s.CloneInto(dst, offset); err != nil {
		return nil, err
	}
	return dst, nil
}

// CloneInto is the allocation-free variant of Clone: dst is caller-supplied
// storage and is overwritten on success.
func (s *Stream) CloneInto(dst *Stream, offset uint64) error {
	if s == nil || s.cb == nil {
		return ErrInvalidArgument
	}
	return s.cb.provider.Clone(dst, s, offset)
}

// Close disposes the instance, dropping its reference on the shared
// content. The last Close across all clones runs the payload release and
// then the control block release. Close implements io.Closer; a second
// Close on the same instance returns ErrInvalidArgument.
func (s *Stream) Close() error {
	if s == nil || s.cb == nil {
		return ErrInvalidArgument
	}
	return s.cb.provider.Dispose(s)
}

// instanceOf is the provider-side identity guard shared by all operations.
func instanceOf(s *Stream, p Provider) error {
	if s == nil || s.cb == nil || s.cb.provider != p {
		return ErrInvalidArgument
	}
	return nil
}

// Window arithmetic shared by providers. All positions are computed in the
// unsigned domain; wraparound from an underflowing subtraction lands far
// outside the window and fails the range checks.

func (s *Stream) seekTo(pos uint64) error {
	inner := pos - s.offsetDiff
	if inner > s.length || inner < s.innerFirstValid {
		return ErrOutOfRange
	}
	s.innerCurrent = inner
	return nil
}

func (s *Stream) rewind() error {
	if s.innerFirstValid == s.length {
		return ErrOutOfRange
	}
	s.innerCurrent = s.innerFirstValid
	return nil
}

// retire advances the first valid position so that logical pos is the last
// released byte (inclusive boundary).
func (s *Stream) retire(pos uint64) error {
	first := pos - s.offsetDiff + 1
	if first > s.innerCurrent {
		return ErrInvalidArgument
	}
	if first <= s.innerFirstValid {
		return ErrOutOfRange
	}
	s.innerFirstValid = first
	return nil
}

func (s *Stream) remaining() uint64 {
	return s.length - s.innerCurrent
}

func (s *Stream) logicalPosition() uint64 {
	return s.innerCurrent + s.offsetDiff
}

// cloneInstance implements Clone for every provider: the content and
// control block are shared, only the cursor state is per-instance. The
// clone's window starts at the source cursor; its pending segment is empty.
func cloneInstance(dst, src *Stream, offset uint64) error {
	if dst == nil {
		return ErrInvalidArgument
	}
	if offset > math.MaxUint64-src.remaining() {
		return ErrTooLong
	}
	src.cb.refs.AddAcqRel(1)
	*dst = Stream{
		cb:              src.cb,
		offsetDiff:      offset - src.innerCurrent,
		innerFirstValid: src.innerCurrent,
		innerCurrent:    src.innerCurrent,
		length:          src.length,
	}
	return nil
}

// disposeInstance implements Dispose for every provider. The decrement
// carries acquire-release ordering so the releasing goroutine observes all
// prior writes to the payload before freeing it. The instance is unbound
// first: any use after Close fails the identity guard instead of touching
// freed content.
func disposeInstance(s *Stream) error {
	cb := s.cb
	s.cb = nil
	if cb.refs.AddAcqRel(-1) != 0 {
		return nil
	}
	if cb.payloadRelease != nil {
		cb.payloadRelease(cb.payload)
	}
	if cb.blockRelease != nil {
		cb.blockRelease(cb)
	}
	return nil
}
