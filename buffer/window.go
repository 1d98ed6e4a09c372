/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package buffer implements the decoder's input buffer manager: a single
// growable byte window holding unparsed input, bounded by an
// undecoded-bytes limit.
package buffer

import "github.com/badu/pullpart/errs"

// Window owns one growable byte window of undecoded input. Reader and
// writer offsets are absolute; compaction (on Add) only ever drops bytes
// already behind the reader offset, it never renumbers them. Only Release
// resets both offsets to zero.
type Window struct {
	buf   []byte
	base  int // absolute offset of buf[0]
	r     int // absolute reader offset
	w     int // absolute writer offset
	limit int
}

// New returns a Window bounded by limit unread bytes.
func New(limit int) *Window {
	return &Window{limit: limit}
}

// Add appends chunk to the window. If the window has a consumed prefix, it
// is compacted away first. If the resulting unread size would exceed the
// configured limit, the chunk is dropped and ErrLimitExceeded is returned.
func (win *Window) Add(chunk []byte) error {
	if win.r > win.base {
		drop := win.r - win.base
		win.buf = win.buf[drop:]
		win.base += drop
	}
	unread := win.w - win.r
	if unread+len(chunk) > win.limit {
		return errs.ErrLimitExceeded
	}
	win.buf = append(win.buf, chunk...)
	win.w += len(chunk)
	return nil
}

// Readable reports how many unread bytes are currently buffered.
func (win *Window) Readable() int { return win.w - win.r }

// ReaderOffset returns the current absolute reader offset.
func (win *Window) ReaderOffset() int { return win.r }

// WriterOffset returns the current absolute writer offset.
func (win *Window) WriterOffset() int { return win.w }

// SetReaderOffset restores a previously observed reader offset. Callers use
// this to roll back a tentative parse that found insufficient data.
func (win *Window) SetReaderOffset(i int) { win.r = i }

// ByteAt returns the byte at absolute offset i, or false if i falls outside
// the currently buffered range.
func (win *Window) ByteAt(i int) (byte, bool) {
	if i < win.r || i >= win.w {
		return 0, false
	}
	return win.buf[i-win.base], true
}

// Unread returns a read-only view of the unread bytes. The slice is only
// valid until the next call to Add, which may compact or reallocate.
func (win *Window) Unread() []byte {
	return win.buf[win.r-win.base : win.w-win.base]
}

// ReadSplit detaches the next n unread bytes as an owned copy and advances
// the reader offset past them. The caller takes exclusive ownership of the
// returned slice.
func (win *Window) ReadSplit(n int) []byte {
	start := win.r - win.base
	out := make([]byte, n)
	copy(out, win.buf[start:start+n])
	win.r += n
	return out
}

// Release drops all owned bytes. The Window is left empty but usable.
func (win *Window) Release() {
	win.buf = nil
	win.base, win.r, win.w = 0, 0, 0
}
