// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ustream provides an immutable, reference-counted byte stream
// abstraction for memory-constrained systems.
//
// A producer exposes arbitrarily large, possibly non-contiguous or lazily
// materialized content behind one iterator-style read interface. Consumers
// read sequential bytes into small local buffers, rewind within a retained
// pending window, acknowledge prefixes they no longer need, and compose
// streams in O(1) without copying the underlying bytes.
//
// # Position Model
//
// Every stream instance is a cursor over three contiguous segments:
//
//	released | pending                  | future
//	         ^ first valid              ^ cursor
//
//   - Released: acknowledged via Release; can never be read again.
//   - Pending: already read but still re-readable via SetPosition/Reset.
//   - Future: the next Read draws from here.
//
// Positions are logical: a per-instance offset (fixed at creation) plus the
// provider's internal zero-based index. Clones may rebase their logical
// positions freely; Position()+RemainingSize() stays constant between
// reads and releases.
//
// # Quick Start
//
//	s, _ := ustream.NewFlat([]byte("0123456789"))
//	defer s.Close()
//
//	buf := make([]byte, 4)
//	for {
//	    n, err := s.Read(buf)
//	    if err == io.EOF {
//	        break
//	    }
//	    consume(buf[:n])
//	}
//
// # Sharing Content
//
// A single instance must not be used from more than one goroutine. To share
// content, clone — each clone owns an independent cursor over the same
// immutable bytes, and the content lives until the last clone is closed:
//
//	clone, _ := s.Clone(0)
//	go func() {
//	    defer clone.Close()
//	    // read clone independently
//	}()
//
// Closing is strictly balanced: every successful factory or Clone return is
// closed exactly once. The last Close runs the payload release and then the
// control block release, each exactly once.
//
// # Acknowledging Consumed Bytes
//
// Release retires the prefix up to and including a position, shrinking what
// a rewind can reach. Providers over scarce media use it to recycle backing
// storage; the flat provider only narrows the window:
//
//	n, _ := s.Read(buf)          // consume buf[:n]
//	pos, _ := s.Position()
//	_ = s.Release(pos - 1)       // never need those bytes again
//
// # Composition
//
//	a, _ := ustream.NewFlat(part1)
//	b, _ := ustream.NewFlat(part2)
//	ab, _ := ustream.Concat(a, b) // a's bytes then b's, zero copy
//	defer ab.Close()
//	// a and b are still owned by the caller:
//	a.Close()
//	b.Close()
//
// Concat clones its inputs: both stay valid, and closing them does not tear
// down the composition. Chained concatenation shares existing composites by
// reference, so building an N-part stream is O(N) total. A single Read
// never spans a composition boundary; the next Read continues in the
// following part.
//
// # io Integration
//
// [NewReader] adapts a stream to io.Reader, io.Seeker, io.WriterTo and
// io.Closer for code written against the standard interfaces:
//
//	r := ustream.NewReader(s)
//	defer r.Close()
//	_, _ = io.Copy(dst, r)
//
// # Non-Blocking Providers
//
// Providers backed by slow media may surface liveness as ErrWouldBlock
// instead of blocking. The error is a control-flow signal sourced from
// [code.hybscloud.com/iox]; retry with backoff:
//
//	backoff := iox.Backoff{}
//	for {
//	    n, err := s.Read(buf)
//	    if ustream.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    backoff.Reset()
//	    // handle n, err
//	}
//
// # Thread Safety
//
//   - One instance, one goroutine. Clone to fan out.
//   - Control blocks are shared freely across goroutines; the refcount is
//     atomic and payload bytes are immutable after construction.
//   - Composite streams serialize delegated child operations internally, so
//     clones of a composite may read concurrently.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, [code.hybscloud.com/spin] for spin-wait backoff, and
// [code.hybscloud.com/iobuf] for pooled scratch buffers.
package ustream
