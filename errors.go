// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import (
	"errors"

	"code.hybscloud.com/iox"
)

var (
	// ErrInvalidArgument reports a nil instance, a nil or foreign control
	// block, a nil/empty read buffer, or an attempt to release bytes that
	// have not been read yet.
	ErrInvalidArgument = errors.New("ustream: invalid argument")

	// ErrOutOfRange reports a legal request that falls outside the current
	// window: seeking into the released prefix or past the end, resetting a
	// fully released stream, or releasing an already released position.
	ErrOutOfRange = errors.New("ustream: position out of range")

	// ErrTooLong reports that a clone or concatenation would push a logical
	// position beyond the unsigned position domain.
	ErrTooLong = errors.New("ustream: stream too long")

	// ErrCanceled reports that a provider abandoned a long-running read.
	ErrCanceled = errors.New("ustream: operation canceled")
)

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// A provider backed by a slow medium may return it from Read to surface
	// liveness instead of blocking. It is an expected, non-failure signal;
	// any returned byte count still represents real progress.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will
	// follow”. It is not io.EOF and not “try later”; call again to obtain
	// the next chunk of the same ongoing operation.
	ErrMore = iox.ErrMore
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
