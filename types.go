// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "code.hybscloud.com/atomix"

// ReleaseFunc frees a payload or a control block once its refcount drops to
// zero. It is invoked exactly once per object. A nil ReleaseFunc means “do
// not release” — the memory is static, GC-managed, or owned elsewhere.
type ReleaseFunc func(obj any)

// Provider is the polymorphic operation set a stream provider implements.
//
// Every operation takes the stream instance as its first argument and must
// return ErrInvalidArgument when the instance is nil, carries no control
// block, or belongs to a different provider. Provider identity is pointer
// equality against the provider's package-level singleton; see [IsOfType].
//
// Consumers do not call a Provider directly — the methods on [Stream]
// dispatch through the instance's control block. The interface exists so
// additional media (flash, file, network, generated bytes) can sit behind
// the same contract as [FlatProvider] and [MultiProvider].
type Provider interface {
	// SetPosition moves the cursor to the logical position pos.
	// Positions below the first valid (unreleased) position or beyond the
	// end return ErrOutOfRange and leave the cursor untouched.
	SetPosition(s *Stream, pos uint64) error

	// Reset moves the cursor back to the first valid position: the start
	// of the pending segment. Returns ErrOutOfRange when the whole stream
	// has been released.
	Reset(s *Stream) error

	// Read copies the next sequential bytes into p and advances the
	// cursor. A nil or empty p returns ErrInvalidArgument. At the end of
	// the stream Read returns (0, io.EOF). Providers that convert data on
	// the way out may write a byte count that differs from the number of
	// source positions consumed; the cursor always advances by source
	// positions. Such providers may also return ErrInvalidArgument when p
	// is smaller than their conversion granularity.
	Read(s *Stream, p []byte) (int, error)

	// RemainingSize reports how many source positions remain between the
	// cursor and the end of the stream.
	RemainingSize(s *Stream) (uint64, error)

	// Position reports the logical position of the cursor.
	Position(s *Stream) (uint64, error)

	// Release retires the prefix up to and including logical position pos.
	// Retired positions can no longer be sought. Releasing at or beyond
	// the cursor returns ErrInvalidArgument; releasing inside the already
	// retired prefix returns ErrOutOfRange.
	Release(s *Stream, pos uint64) error

	// Clone initializes dst as a new instance over the same content,
	// starting at the source cursor, with dst's logical positions rebased
	// so the current byte appears at logical position offset. Returns
	// ErrTooLong when offset plus the remaining size would overflow the
	// position domain. On success the shared refcount has been bumped.
	Clone(dst, src *Stream, offset uint64) error

	// Dispose drops the instance's reference. When the last reference is
	// dropped the payload release and then the control block release run,
	// each exactly once.
	Dispose(s *Stream) error
}

// ControlBlock is the shared, reference-counted record binding immutable
// content to its provider and release callbacks. Many instances on many
// goroutines may reference one control block; the refcount is the only
// field mutated after construction, and only atomically.
type ControlBlock struct {
	provider Provider
	payload  any
	refs     atomix.Int64

	payloadRelease ReleaseFunc
	blockRelease   ReleaseFunc
}

// Stream is a per-consumer cursor onto a control block.
//
// A stream exposes its content as three contiguous logical segments:
//
//	released | pending                  | future
//	         ^ first valid              ^ cursor
//
// Read draws from the future segment. SetPosition moves the cursor anywhere
// within pending+future. Release grows the released prefix, acknowledging
// bytes the consumer will never need again.
//
// Logical positions are inner (provider-internal, zero-based) positions
// shifted by a per-instance offset fixed at creation; the offset may wrap
// modulo 2^64, the invariant is logical = inner + offset.
//
// A Stream must not be used concurrently from more than one goroutine.
// To share content across goroutines, Clone — each clone owns an
// independent cursor over the same immutable bytes.
type Stream struct {
	cb *ControlBlock

	offsetDiff      uint64
	innerFirstValid uint64
	innerCurrent    uint64
	length          uint64
}

// IsOfType reports whether s is a live instance of provider p: non-nil,
// bound to a control block, and stamped with exactly p's identity.
func IsOfType(s *Stream, p Provider) bool {
	return s != nil && s.cb != nil && s.cb.provider != nil && p != nil &&
		s.cb.provider == p
}
