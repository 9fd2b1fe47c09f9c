// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

// Options configures stream construction.
type Options struct {
	// PayloadRelease runs once when the last reference to the content is
	// dropped, receiving the payload handed to the factory. Nil means the
	// payload is static or GC-managed and nothing runs.
	PayloadRelease ReleaseFunc

	// ControlBlockRelease runs once after PayloadRelease, receiving the
	// *ControlBlock, for callers that place control blocks in pools or
	// static storage. Nil means GC-managed.
	ControlBlockRelease ReleaseFunc
}

var defaultOptions = Options{}

type Option func(*Options)

// WithPayloadRelease sets the callback that frees the payload when the
// refcount reaches zero.
func WithPayloadRelease(fn ReleaseFunc) Option {
	return func(o *Options) { o.PayloadRelease = fn }
}

// WithControlBlockRelease sets the callback that frees the control block
// after the payload release has run.
func WithControlBlockRelease(fn ReleaseFunc) Option {
	return func(o *Options) { o.ControlBlockRelease = fn }
}
