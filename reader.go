// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import (
	"io"
	"sync"

	"code.hybscloud.com/iobuf"
)

// NewReader wraps s in an io-compatible adapter. The adapter owns the
// instance from this point: Close disposes it. Logical positions are
// exposed through io.Seeker within the int64 domain; streams rebased near
// the top of the uint64 position domain should be driven through the
// Stream methods directly.
func NewReader(s *Stream) *Reader {
	return &Reader{s: s}
}

// Reader adapts a Stream to io.Reader, io.Seeker, io.WriterTo and
// io.Closer. Like the Stream it wraps, a Reader must not be used
// concurrently from more than one goroutine.
type Reader struct {
	s *Stream

	// WriteTo partial-write resume state: when dst.Write returns a
	// partial result with ErrWouldBlock/ErrMore, carry holds the bytes
	// already consumed from the stream but not yet written, so the next
	// WriteTo call finishes draining before reading on. The stream cursor
	// cannot simply be rewound: for converting providers the written byte
	// count does not map back to source positions.
	carry    []byte
	carryOff int
}

// Stream returns the wrapped instance for window operations (Release,
// Clone, Reset) the io surface does not express.
func (r *Reader) Stream() *Stream { return r.s }

// Read implements io.Reader. An empty buffer returns (0, nil) per the io
// contract; at the end of the stream Read returns (0, io.EOF).
func (r *Reader) Read(p []byte) (int, error) {
	if r.s == nil {
		return 0, ErrInvalidArgument
	}
	if len(p) == 0 {
		return 0, nil
	}
	return r.s.Read(p)
}

// Seek implements io.Seeker over logical positions. Seeking into the
// released prefix returns ErrOutOfRange; seeking before position zero
// returns ErrInvalidArgument. Seeking beyond the end is rejected with
// ErrOutOfRange — the content is immutable, there is no gap to back-fill.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.s == nil {
		return 0, ErrInvalidArgument
	}
	cur, err := r.s.Position()
	if err != nil {
		return 0, err
	}
	rem, err := r.s.RemainingSize()
	if err != nil {
		return 0, err
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(cur) + offset
	case io.SeekEnd:
		target = int64(cur+rem) + offset
	default:
		return 0, ErrInvalidArgument
	}
	if target < 0 {
		return 0, ErrInvalidArgument
	}
	if err := r.s.SetPosition(uint64(target)); err != nil {
		return 0, err
	}
	return target, nil
}

// scratchSize matches the Big buffer tier used for WriteTo draining.
const scratchSize = 32 * 1024

// scratchPool serves WriteTo scratch buffers so steady-state draining
// stays allocation-free. When the pool is dry WriteTo falls back to a
// one-off allocation rather than waiting.
var (
	scratchPool     = iobuf.NewBigBufferPool(8)
	scratchPoolOnce sync.Once
)

// WriteTo implements io.WriterTo: it drains the remaining window into dst.
//
// Non-blocking semantics: if the underlying provider or dst returns
// ErrWouldBlock or ErrMore, WriteTo returns immediately with the progress
// count and the same semantic error; call again to continue. Short writes
// on dst are handled per the io.Writer contract.
func (r *Reader) WriteTo(dst io.Writer) (int64, error) {
	if r.s == nil {
		return 0, ErrInvalidArgument
	}

	scratchPoolOnce.Do(func() { scratchPool.Fill(iobuf.NewBigBuffer) })
	var buf []byte
	if idx, err := scratchPool.Get(); err == nil {
		buf = scratchPool.Value(idx)[:]
		defer scratchPool.Put(idx)
	} else {
		buf = make([]byte, scratchSize)
	}

	var total int64

	// Finish draining a chunk left over from a previous interrupted call.
	if r.carryOff < len(r.carry) {
		n, err := r.drain(dst, r.carry[r.carryOff:])
		total += n
		r.carryOff += int(n)
		if err != nil {
			return total, err
		}
		r.carry, r.carryOff = r.carry[:0], 0
	}

	for {
		n, err := r.s.Read(buf)
		if n > 0 {
			wn, werr := r.drain(dst, buf[:n])
			total += wn
			if werr != nil {
				// Keep the unwritten tail; buf returns to the pool.
				r.carry = append(r.carry[:0], buf[int(wn):n]...)
				r.carryOff = 0
				return total, werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}

// drain writes p to dst honoring the io.Writer short-write contract.
func (r *Reader) drain(dst io.Writer, p []byte) (int64, error) {
	var total int64
	for len(p) > 0 {
		wn, err := dst.Write(p)
		if wn > 0 {
			total += int64(wn)
			p = p[wn:]
		}
		if err != nil {
			return total, err
		}
		if wn == 0 {
			// Avoid potential infinite loop on pathological writers.
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// Close implements io.Closer by disposing the wrapped stream. A second
// Close returns ErrInvalidArgument.
func (r *Reader) Close() error {
	s := r.s
	r.s = nil
	if s == nil {
		return ErrInvalidArgument
	}
	return s.Close()
}
