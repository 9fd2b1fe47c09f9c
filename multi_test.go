// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"code.hybscloud.com/ustream"
)

func mustConcat(t *testing.T, first, second *ustream.Stream) *ustream.Stream {
	t.Helper()
	m, err := ustream.Concat(first, second)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	return m
}

func TestConcatFullRead(t *testing.T) {
	const (
		digits = "0123456789"
		upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		lower  = "abcdefghijklmnopqrstuvwxyz"
	)
	a := mustFlat(t, digits)
	b := mustFlat(t, upper)
	c := mustFlat(t, lower)

	ab := mustConcat(t, a, b)
	m := mustConcat(t, ab, c)

	// Inputs remain caller-owned after composition.
	for _, s := range []*ustream.Stream{a, b, c, ab} {
		if err := s.Close(); err != nil {
			t.Fatalf("close input: %v", err)
		}
	}
	defer m.Close()

	if rem, err := m.RemainingSize(); err != nil || rem != 62 {
		t.Fatalf("RemainingSize: rem=%d err=%v want=62", rem, err)
	}
	want := digits + upper + lower
	if got := string(readAll(t, m, 7)); got != want {
		t.Fatalf("content: got %q, want %q", got, want)
	}
}

func TestConcatMatchesSequentialRead(t *testing.T) {
	a := mustFlat(t, "first-part|")
	b := mustFlat(t, "second-part")

	m := mustConcat(t, a, b)
	defer m.Close()

	var want []byte
	want = append(want, readAll(t, a, 3)...)
	want = append(want, readAll(t, b, 3)...)
	a.Close()
	b.Close()

	if got := readAll(t, m, 5); !bytes.Equal(got, want) {
		t.Fatalf("content: got %q, want %q", got, want)
	}
}

func TestConcatInputsUnchanged(t *testing.T) {
	a := mustFlat(t, "0123456789")
	defer a.Close()
	b := mustFlat(t, "ABCDE")
	defer b.Close()

	// Consume part of a before composing: the composite starts at a's
	// cursor, and a's own view stays where it was.
	if _, err := a.Read(make([]byte, 4)); err != nil {
		t.Fatalf("read a: %v", err)
	}
	m := mustConcat(t, a, b)
	defer m.Close()

	if pos, _ := a.Position(); pos != 4 {
		t.Fatalf("a.Position after concat: %d want=4", pos)
	}
	if pos, _ := b.Position(); pos != 0 {
		t.Fatalf("b.Position after concat: %d want=0", pos)
	}
	if got := string(readAll(t, m, 8)); got != "456789ABCDE" {
		t.Fatalf("composite content: got %q, want %q", got, "456789ABCDE")
	}
	// The composite consumed nothing from its inputs.
	if got := string(readAll(t, a, 8)); got != "456789" {
		t.Fatalf("a content after composite read: got %q, want %q", got, "456789")
	}
	if got := string(readAll(t, b, 8)); got != "ABCDE" {
		t.Fatalf("b content after composite read: got %q, want %q", got, "ABCDE")
	}
}

func TestConcatReadNeverSpansBoundary(t *testing.T) {
	a := mustFlat(t, "0123")
	b := mustFlat(t, "ABCD")
	m := mustConcat(t, a, b)
	a.Close()
	b.Close()
	defer m.Close()

	// A buffer larger than the first part still stops at its end.
	buf := make([]byte, 6)
	n, err := m.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "0123" {
		t.Fatalf("first read: got %q, want %q (must stop at the boundary)", got, "0123")
	}

	n, err = m.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "ABCD" {
		t.Fatalf("second read: got %q, want %q", got, "ABCD")
	}
	if _, err := m.Read(buf); err != io.EOF {
		t.Fatalf("read at end: err=%v want=io.EOF", err)
	}
}

func TestConcatSeekAcrossBoundary(t *testing.T) {
	a := mustFlat(t, "0123456789")
	b := mustFlat(t, "ABCDEFGHIJ")
	m := mustConcat(t, a, b)
	a.Close()
	b.Close()
	defer m.Close()

	if err := m.SetPosition(12); err != nil {
		t.Fatalf("SetPosition(12): %v", err)
	}
	buf := make([]byte, 4)
	n, err := m.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "CDEF" {
		t.Fatalf("read at 12: got %q, want %q", got, "CDEF")
	}

	// Rewind back into the first part.
	if err := m.SetPosition(8); err != nil {
		t.Fatalf("SetPosition(8): %v", err)
	}
	n, err = m.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "89" {
		t.Fatalf("read at 8: got %q, want %q (boundary stop)", got, "89")
	}
}

func TestConcatReleaseAcrossBoundary(t *testing.T) {
	a := mustFlat(t, "0123456789")
	b := mustFlat(t, "ABCDEFGHIJ")
	m := mustConcat(t, a, b)
	a.Close()
	b.Close()
	defer m.Close()

	// Consume into the second part, then retire a prefix ending there.
	if got := string(readAll(t, m, 20)[:14]); got != "0123456789ABCD" {
		t.Fatalf("unexpected content prefix: %q", got)
	}
	if err := m.SetPosition(14); err != nil {
		t.Fatalf("SetPosition(14): %v", err)
	}
	if err := m.Release(11); err != nil {
		t.Fatalf("Release(11): %v", err)
	}
	if err := m.SetPosition(11); !errors.Is(err, ustream.ErrOutOfRange) {
		t.Fatalf("SetPosition into released prefix: err=%v want=ErrOutOfRange", err)
	}
	if err := m.SetPosition(12); err != nil {
		t.Fatalf("SetPosition(12): %v", err)
	}
	buf := make([]byte, 4)
	n, err := m.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "CDEF" {
		t.Fatalf("read after release: got %q, want %q", got, "CDEF")
	}

	if err := m.Release(11); !errors.Is(err, ustream.ErrOutOfRange) {
		t.Fatalf("Release(11) twice: err=%v want=ErrOutOfRange", err)
	}
}

func TestConcatReleaseWithinFirstChild(t *testing.T) {
	a := mustFlat(t, "0123456789")
	b := mustFlat(t, "ABCDEFGHIJ")
	m := mustConcat(t, a, b)
	a.Close()
	b.Close()
	defer m.Close()

	if _, err := m.Read(make([]byte, 6)); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := m.Release(3); err != nil {
		t.Fatalf("Release(3): %v", err)
	}
	if err := m.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if pos, _ := m.Position(); pos != 4 {
		t.Fatalf("Position after reset: %d want=4", pos)
	}
	want := "456789" + "ABCDEFGHIJ"
	if got := string(readAll(t, m, 7)); got != want {
		t.Fatalf("content after release: got %q, want %q", got, want)
	}
}

func TestConcatCloneIsolation(t *testing.T) {
	a := mustFlat(t, "01234")
	b := mustFlat(t, "ABCDE")
	m := mustConcat(t, a, b)
	a.Close()
	b.Close()
	defer m.Close()

	if _, err := m.Read(make([]byte, 3)); err != nil {
		t.Fatalf("read: %v", err)
	}
	c, err := m.Clone(0)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer c.Close()

	if got := string(readAll(t, c, 4)); got != "34ABCDE" {
		t.Fatalf("clone content: got %q, want %q", got, "34ABCDE")
	}
	if pos, _ := m.Position(); pos != 3 {
		t.Fatalf("source Position after clone read: %d want=3", pos)
	}
	if got := string(readAll(t, m, 4)); got != "34ABCDE" {
		t.Fatalf("source content: got %q, want %q", got, "34ABCDE")
	}
}

func TestConcatInvalidArguments(t *testing.T) {
	s := mustFlat(t, "data")
	defer s.Close()

	if _, err := ustream.Concat(nil, s); !errors.Is(err, ustream.ErrInvalidArgument) {
		t.Fatalf("Concat(nil, s): err=%v want=ErrInvalidArgument", err)
	}
	if _, err := ustream.Concat(s, nil); !errors.Is(err, ustream.ErrInvalidArgument) {
		t.Fatalf("Concat(s, nil): err=%v want=ErrInvalidArgument", err)
	}
	if _, err := ustream.Concat(&ustream.Stream{}, s); !errors.Is(err, ustream.ErrInvalidArgument) {
		t.Fatalf("Concat(zero, s): err=%v want=ErrInvalidArgument", err)
	}
}

func TestConcatSelf(t *testing.T) {
	// Composing a stream with itself duplicates its remaining content;
	// both children are independent clones of the same control block.
	s := mustFlat(t, "abc")
	m := mustConcat(t, s, s)
	s.Close()
	defer m.Close()

	if got := string(readAll(t, m, 2)); got != "abcabc" {
		t.Fatalf("content: got %q, want %q", got, "abcabc")
	}
}
