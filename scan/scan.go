/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package scan implements the decoder's byte-level primitives: skipping
// leading control bytes, consuming a single line terminator, reading one
// header line, and locating the next delimiter.
package scan

import (
	"bytes"

	"github.com/badu/pullpart/buffer"
	"github.com/badu/pullpart/charset"
	"github.com/badu/pullpart/errs"
)

// isControlOrSpace reports whether b is an ISO control byte or whitespace,
// the class skipped before the first delimiter (the preamble).
func isControlOrSpace(b byte) bool {
	return b <= ' ' || b == 0x7f
}

// SkipControlCharacters advances the reader past any leading control or
// whitespace bytes. It fails with ErrNotEnoughData if the buffer is
// exhausted before a non-control byte is seen; the reader offset is
// restored in that case.
func SkipControlCharacters(w *buffer.Window) error {
	start := w.ReaderOffset()
	buf := w.Unread()
	for i, b := range buf {
		if !isControlOrSpace(b) {
			w.SetReaderOffset(start + i)
			return nil
		}
	}
	w.SetReaderOffset(start)
	return errs.ErrNotEnoughData
}

// SkipOneLine consumes exactly one of {CRLF, LF} at the current reader
// position. It reports whether a terminator was consumed. A lone CR with
// no following LF, or a buffer ending mid-CRLF, restores the reader and
// returns false.
func SkipOneLine(w *buffer.Window) bool {
	start := w.ReaderOffset()
	b, ok := w.ByteAt(start)
	if !ok {
		return false
	}
	if b == '\n' {
		w.SetReaderOffset(start + 1)
		return true
	}
	if b != '\r' {
		return false
	}
	nb, ok := w.ByteAt(start + 1)
	if !ok {
		return false
	}
	if nb != '\n' {
		return false
	}
	w.SetReaderOffset(start + 2)
	return true
}

// ReadLine finds the next line break in the remaining bytes, decodes the
// bytes before it (excluding the terminator) as text under cs, and consumes
// the terminator. It fails with ErrNotEnoughData (reader restored) if no
// line break is present yet.
func ReadLine(w *buffer.Window, cs charset.Encoding) (string, error) {
	start := w.ReaderOffset()
	buf := w.Unread()

	nl := bytes.IndexByte(buf, '\n')
	if nl < 0 {
		return "", errs.ErrNotEnoughData
	}
	end := nl
	if end > 0 && buf[end-1] == '\r' {
		end--
	}
	line, err := cs.Decode(buf[:end])
	if err != nil {
		w.SetReaderOffset(start)
		return "", err
	}
	w.SetReaderOffset(start + nl + 1)
	return line, nil
}

// ReadDelimiter searches for delimiter as a byte sequence from the current
// reader offset. If found, it advances past the delimiter and then
// optionally consumes "--" (closing form) and the trailing line
// terminator (tolerating leading LWSP before it, per RFC 2046). The
// opening form requires its trailing terminator; if absent, the whole
// match is rolled back and ErrNotEnoughData is returned so the caller can
// wait for more bytes. The closing form tolerates a missing terminator.
//
// If delimiter is not found at all, ErrNotEnoughData is returned and the
// reader is restored — the caller decides, from its own knowledge of how
// much data has arrived, whether to keep waiting or raise ErrNoDelimiter.
func ReadDelimiter(w *buffer.Window, delimiter []byte) (matched string, closing bool, err error) {
	start := w.ReaderOffset()
	buf := w.Unread()

	idx := bytes.Index(buf, delimiter)
	if idx < 0 {
		return "", false, errs.ErrNotEnoughData
	}

	pos := idx + len(delimiter)
	isClose := pos+2 <= len(buf) && buf[pos] == '-' && buf[pos+1] == '-'
	if isClose {
		pos += 2
	}

	lwspEnd := pos
	for lwspEnd < len(buf) && (buf[lwspEnd] == ' ' || buf[lwspEnd] == '\t') {
		lwspEnd++
	}

	if lwspEnd >= len(buf) {
		if isClose {
			w.SetReaderOffset(start + lwspEnd)
			return string(delimiter) + "--", true, nil
		}
		w.SetReaderOffset(start)
		return "", false, errs.ErrNotEnoughData
	}

	termLen := 0
	switch buf[lwspEnd] {
	case '\n':
		termLen = 1
	case '\r':
		if lwspEnd+1 >= len(buf) {
			w.SetReaderOffset(start)
			return "", false, errs.ErrNotEnoughData
		}
		if buf[lwspEnd+1] == '\n' {
			termLen = 2
		}
	}

	if termLen == 0 {
		if !isClose {
			w.SetReaderOffset(start)
			return "", false, errs.ErrNotEnoughData
		}
		w.SetReaderOffset(start + lwspEnd)
		return string(delimiter) + "--", true, nil
	}

	w.SetReaderOffset(start + lwspEnd + termLen)
	if isClose {
		return string(delimiter) + "--", true, nil
	}
	return string(delimiter), false, nil
}
