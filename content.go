/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package pullpart

import "bytes"

// stepContent emits as much of the current part's payload as is safely
// knowable without consuming bytes that might belong to the upcoming
// delimiter. The delimiter itself — and the CR?LF terminator immediately
// before it — are left in the buffer; the next HeaderDelimiter step
// consumes them and decides opening vs closing.
func (d *Decoder) stepContent() (Event, error) {
	buf := d.win.Unread()
	if len(buf) == 0 {
		return EventNone, nil
	}

	delim := d.activeDelimiter()
	n, found := scanContent(buf, delim, d.receivedLength)

	ev := EventNone
	if n > 0 {
		chunk := d.win.ReadSplit(n)
		d.receivedLength += n
		d.pendingContent = chunk
		d.pendingContentTaken = false
		ev = Content
	}
	if found {
		d.state = StateContentDone
	}
	return ev, nil
}

// matchAfterPrefix reports whether buf — known to start with prefix —
// matches the full delimiter: +1 if prefix is followed by a dash, space,
// tab, CR, LF; -1 if definitely not; 0 if len(buf) == len(prefix) and more
// bytes are needed to decide (the pull model has no end-of-stream signal
// that would otherwise resolve this case).
func matchAfterPrefix(buf, prefix []byte) int {
	if len(buf) == len(prefix) {
		return 0
	}
	switch buf[len(prefix)] {
	case ' ', '\t', '\r', '\n', '-':
		return +1
	default:
		return -1
	}
}

// scanContent finds how much of buf can be safely emitted as payload for
// the current part, mirroring the teacher's scanUntilBoundary: locate
// whichever tolerated terminator form is closest to the front of buf,
// decide whether it truly matches the delimiter, and — only once no form
// occurs anywhere in buf — fall back to withholding just the suffix that
// could still grow into one. delim is the active boundary ("--token", no
// terminator). total is the number of payload bytes already delivered for
// this part; when it is zero the delimiter may immediately follow with no
// preceding CRLF (the headers-terminating blank line already consumed
// it). Both CRLF and bare-LF forms of the pre-delimiter terminator are
// tolerated, mirroring the tolerance required of every other line-ending
// check in the wire format.
func scanContent(buf, delim []byte, total int) (n int, found bool) {
	if total == 0 && len(buf) >= len(delim) && bytes.Equal(buf[:len(delim)], delim) {
		switch matchAfterPrefix(buf, delim) {
		case -1:
			// Not actually the delimiter: emit through the false match
			// and let the caller resume the search past it on the next
			// call, rather than treating the rest of buf as undecided.
			return len(delim), false
		case 0:
			return 0, false
		case +1:
			return 0, true
		}
	}
	if total == 0 && len(buf) < len(delim) && bytes.Equal(delim[:len(buf)], buf) {
		return 0, false
	}

	crlfForm := append(append([]byte{}, '\r', '\n'), delim...)
	lfForm := append([]byte{'\n'}, delim...)

	if i, form := earliestForm(buf, crlfForm, lfForm); i >= 0 {
		switch matchAfterPrefix(buf[i:], form) {
		case 0:
			return i, false
		case +1:
			return i, true
		case -1:
			// A false hit partway through buf: the bytes through it are
			// confirmed payload. Emit them and let the next call resume
			// the search past it — don't treat the rest of buf as
			// undecided just because this particular hit didn't pan out.
			return i + len(form), false
		}
	}

	if w := withholdFrom(buf, crlfForm, lfForm); w >= 0 {
		return w, false
	}
	return len(buf), false
}

// earliestForm returns the index and bytes of whichever of crlfForm,
// lfForm occurs first as a complete match in buf, or (-1, nil) if neither
// occurs at all.
func earliestForm(buf, crlfForm, lfForm []byte) (int, []byte) {
	ci := bytes.Index(buf, crlfForm)
	li := bytes.Index(buf, lfForm)
	switch {
	case ci < 0 && li < 0:
		return -1, nil
	case ci < 0:
		return li, lfForm
	case li < 0:
		return ci, crlfForm
	case ci <= li:
		return ci, crlfForm
	default:
		return li, lfForm
	}
}

// withholdFrom reports the earliest index in buf that could still grow
// into a complete match of crlfForm or lfForm given more bytes — the
// point emission must stop at — or -1 if no suffix of buf is a prefix of
// either form. Each form contains its own leading byte ('\r' or '\n')
// exactly once, so only the last occurrence of that byte in buf can
// possibly be starting a still-growing match: an earlier occurrence of
// the same byte would have to recur inside the form itself to stay on a
// matching path, which it cannot.
func withholdFrom(buf, crlfForm, lfForm []byte) int {
	best := -1
	for _, form := range [][]byte{crlfForm, lfForm} {
		i := bytes.LastIndexByte(buf, form[0])
		if i < 0 || !isPrefixOf(buf[i:], form) {
			continue
		}
		if best == -1 || i < best {
			best = i
		}
	}
	return best
}

// isPrefixOf reports whether tail (no longer than form) matches form's
// leading bytes exactly.
func isPrefixOf(tail, form []byte) bool {
	if len(tail) > len(form) {
		return false
	}
	return bytes.Equal(form[:len(tail)], tail)
}
