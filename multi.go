// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "io"

// MultiProvider composes two child streams into one seamless logical
// stream: the first child's remaining content followed by the second's.
// Construction is O(1) and copies no bytes; see [Concat].
var MultiProvider Provider = &multi{}

type multi struct{}

// multiPayload is the composite's shared content: two child instances and
// the fixed boundary between them, in the composite's inner position
// domain. Child cursors are derived state — the outer instance's cursor is
// authoritative, and children are repositioned under mu before every
// delegated operation. The lock exists because clones of the composite
// share these child cursors across goroutines.
type multiPayload struct {
	mu spinMutex

	c1, c2 Stream
	// bound is child one's logical end: inner positions below it belong
	// to child one, positions at or above it to child two. Fixed at
	// construction.
	bound uint64
}

// Concat returns a new stream presenting first's remaining content
// followed by second's remaining content.
//
// Both inputs are cloned, never absorbed: their refcounts are bumped,
// their cursors and observable streams are untouched, and the caller still
// owns (and eventually closes) both. Concatenating an already composed
// stream chains in O(1) — the existing composite's control block is shared
// by reference, not copied.
//
// When rebasing second past first's end would overflow the position
// domain, Concat returns ErrTooLong and rolls back: no net refcount
// change on either input.
func Concat(first, second *Stream) (*Stream, error) {
	if first == nil || first.cb == nil || second == nil || second.cb == nil {
		return nil, ErrInvalidArgument
	}
	pl := new(multiPayload)
	if err := first.cb.provider.Clone(&pl.c1, first, 0); err != nil {
		return nil, err
	}
	pl.bound = pl.c1.remaining()
	if err := second.cb.provider.Clone(&pl.c2, second, pl.bound); err != nil {
		_ = pl.c1.Close()
		return nil, err
	}

	cb := &ControlBlock{
		provider:       MultiProvider,
		payload:        pl,
		payloadRelease: releaseMultiPayload,
	}
	cb.refs.StoreRelease(1)
	return &Stream{cb: cb, length: pl.bound + pl.c2.remaining()}, nil
}

// releaseMultiPayload drops the composite's references on its children,
// in composition order. Runs once, when the last composite instance is
// closed.
func releaseMultiPayload(obj any) {
	pl := obj.(*multiPayload)
	_ = pl.c1.Close()
	_ = pl.c2.Close()
}

// SetPosition, Reset, RemainingSize and Position operate on the outer
// window only; child cursors are synchronized at the next delegated read.
// The single-instance rule makes outer cursor state private, so none of
// these take the lock.

func (m *multi) SetPosition(s *Stream, pos uint64) error {
	if err := instanceOf(s, m); err != nil {
		return err
	}
	return s.seekTo(pos)
}

func (m *multi) Reset(s *Stream) error {
	if err := instanceOf(s, m); err != nil {
		return err
	}
	return s.rewind()
}

// Read delegates to the child owning the cursor. A single call never spans
// the boundary: a read starting inside child one returns at most child
// one's tail, and the next call resumes in child two. The outer cursor
// advances by the child's cursor delta — the count of source positions
// consumed — not by the byte count written, so converting children keep
// the outer position model intact.
func (m *multi) Read(s *Stream, p []byte) (int, error) {
	if err := instanceOf(s, m); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, ErrInvalidArgument
	}
	if s.innerCurrent == s.length {
		return 0, io.EOF
	}

	pl := s.cb.payload.(*multiPayload)
	pl.mu.lock()
	defer pl.mu.unlock()

	pos := s.innerCurrent
	child := &pl.c1
	if pos >= pl.bound {
		child = &pl.c2
	}
	// Child logical positions coincide with the composite's inner
	// positions: child one was cloned at offset 0, child two at bound.
	if err := child.SetPosition(pos); err != nil {
		return 0, err
	}
	n, err := child.Read(p)
	after, perr := child.Position()
	if perr == nil {
		s.innerCurrent += after - pos
	}
	return n, err
}

func (m *multi) RemainingSize(s *Stream) (uint64, error) {
	if err := instanceOf(s, m); err != nil {
		return 0, err
	}
	return s.remaining(), nil
}

func (m *multi) Position(s *Stream) (uint64, error) {
	if err := instanceOf(s, m); err != nil {
		return 0, err
	}
	return s.logicalPosition(), nil
}

// Release retires the outer prefix, then forwards the new boundary to the
// children so composed providers can retire their own prefixes. The outer
// window is authoritative; forwarding is best-effort and tolerates
// already-released children (clones of the composite race only over
// shared child state, which the lock serializes).
func (m *multi) Release(s *Stream, pos uint64) error {
	if err := instanceOf(s, m); err != nil {
		return err
	}
	if err := s.retire(pos); err != nil {
		return err
	}

	pl := s.cb.payload.(*multiPayload)
	pl.mu.lock()
	defer pl.mu.unlock()

	first := s.innerFirstValid
	if first <= pl.bound {
		forwardRelease(&pl.c1, first)
	} else {
		forwardRelease(&pl.c1, pl.bound)
		forwardRelease(&pl.c2, first)
	}
	return nil
}

// forwardRelease retires a child's prefix so that firstValid (in child
// logical positions) becomes its first valid byte. The child cursor is
// pulled forward when it trails the boundary; it is repositioned from the
// outer cursor at the next read anyway.
func forwardRelease(child *Stream, firstValid uint64) {
	if firstValid == 0 {
		return
	}
	if cur, err := child.Position(); err != nil || cur >= firstValid {
		// Already at or past the boundary; release directly below.
	} else if child.SetPosition(firstValid) != nil {
		return
	}
	_ = child.Release(firstValid - 1)
}

func (m *multi) Clone(dst, src *Stream, offset uint64) error {
	if err := instanceOf(src, m); err != nil {
		return err
	}
	return cloneInstance(dst, src, offset)
}

func (m *multi) Dispose(s *Stream) error {
	if err := instanceOf(s, m); err != nil {
		return err
	}
	return disposeInstance(s)
}
