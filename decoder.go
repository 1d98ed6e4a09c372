/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package pullpart implements an incremental, pull-style decoder for HTTP
// multipart/form-data (and nested multipart/mixed) request bodies. Input
// arrives as arbitrary byte chunks via Add; Decoder.Next drives a small
// state machine that emits a deterministic event stream identifying part
// boundaries, headers, and payload bytes, tolerating a chunk split at any
// byte offset.
package pullpart

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/badu/pullpart/buffer"
	"github.com/badu/pullpart/charset"
	"github.com/badu/pullpart/errs"
	"github.com/badu/pullpart/header"
	"github.com/badu/pullpart/scan"
)

// Decoder is a single-threaded, cooperative pull parser. It never blocks
// and never spawns work; all progress is driven by alternating Add and
// Next. It is not safe for concurrent use.
type Decoder struct {
	defaultCharset charset.Encoding
	topBoundary    []byte
	undecodedLimit int

	win *buffer.Window
	ps  header.PartState

	state         State
	receivedLength int

	lastEvent Event

	curHeaderName  string
	curHeaderValue string
	dispositionCache *ParsedDisposition

	pendingContent      []byte
	pendingContentTaken bool

	failed error
	closed bool
}

// Add appends chunk to the Decoder's input window. If, after compacting
// already-consumed bytes, the unread window would exceed the configured
// undecoded limit, the chunk is dropped and ErrLimitExceeded is returned.
func (d *Decoder) Add(chunk []byte) error {
	if d.closed {
		return errs.ErrIllegalState
	}
	return d.win.Add(chunk)
}

// Next advances the state machine by as much as the currently buffered
// bytes allow. EventNone with a nil error means "need more bytes" — Add
// more input and call Next again. A non-nil error is terminal: every
// subsequent Next call returns the same error.
func (d *Decoder) Next() (Event, error) {
	if d.closed {
		return EventNone, errs.ErrIllegalState
	}
	if d.failed != nil {
		return EventNone, d.failed
	}

	// A transition that emits no event (e.g. a zero-residual Content ->
	// ContentDone step) still made progress and must not be reported back
	// to the caller as "need more bytes" — none means exactly that, never
	// "call again with the same bytes for a free event". Keep advancing
	// internally until an event is produced or the state genuinely stops
	// changing.
	for {
		if d.state == StatePreEpilogue {
			d.lastEvent = EventNone
			return EventNone, nil
		}

		prevState := d.state
		ev, err := d.step()
		if err != nil {
			if errors.Is(err, errs.ErrNotEnoughData) {
				d.lastEvent = EventNone
				return EventNone, nil
			}
			d.failed = err
			d.lastEvent = EventNone
			return EventNone, err
		}
		if ev != EventNone {
			d.lastEvent = ev
			return ev, nil
		}
		if d.state == prevState {
			d.lastEvent = EventNone
			return EventNone, nil
		}
	}
}

func (d *Decoder) step() (Event, error) {
	switch d.state {
	case StateHeaderDelimiter:
		return d.stepHeaderDelimiter()
	case StateDisposition:
		return d.stepDisposition()
	case StateContent:
		return d.stepContent()
	case StateContentDone:
		return d.stepContentDone()
	default:
		return EventNone, nil
	}
}

// activeDelimiter returns the boundary currently in force: the nested
// mixed boundary once one has been introduced by a Content-Type header,
// otherwise the top-level boundary. A mixed boundary, once set, is
// sticky for the remainder of the decode — there is no un-nesting edge
// in the state machine.
func (d *Decoder) activeDelimiter() []byte {
	if d.ps.MixedBoundary != "" {
		return []byte(d.ps.MixedBoundary)
	}
	return d.topBoundary
}

func (d *Decoder) stepHeaderDelimiter() (Event, error) {
	if err := scan.SkipControlCharacters(d.win); err != nil {
		return EventNone, err
	}

	delim := d.activeDelimiter()
	_, closing, err := scan.ReadDelimiter(d.win, delim)
	if err != nil {
		if errors.Is(err, errs.ErrNotEnoughData) && d.win.Readable() >= d.undecodedLimit {
			return EventNone, errors.Wrap(errs.ErrNoDelimiter, "delimiter not found within undecoded limit")
		}
		return EventNone, err
	}

	if closing {
		d.state = StatePreEpilogue
		return EventNone, nil
	}

	d.ps.Reset()
	d.receivedLength = 0
	d.curHeaderName = ""
	d.curHeaderValue = ""
	d.dispositionCache = nil
	d.state = StateDisposition
	return BeginField, nil
}

func (d *Decoder) stepDisposition() (Event, error) {
	if scan.SkipOneLine(d.win) {
		d.state = StateContent
		return HeadersComplete, nil
	}

	line, err := scan.ReadLine(d.win, d.defaultCharset)
	if err != nil {
		return EventNone, err
	}
	name, value, err := header.Split(line)
	if err != nil {
		return EventNone, errors.Wrapf(err, "header line %q", line)
	}
	if err := header.Dispatch(&d.ps, name, value); err != nil {
		return EventNone, err
	}

	d.curHeaderName = name
	d.curHeaderValue = value
	d.dispositionCache = nil
	return Header, nil
}

func (d *Decoder) stepContentDone() (Event, error) {
	d.state = StateHeaderDelimiter
	return FieldComplete, nil
}

// HeaderName returns the name of the header most recently delivered by a
// HEADER event. It fails with ErrIllegalState outside that window.
func (d *Decoder) HeaderName() (string, error) {
	if d.lastEvent != Header {
		return "", errs.ErrIllegalState
	}
	return d.curHeaderName, nil
}

// HeaderValue returns the (trimmed) value of the header most recently
// delivered by a HEADER event. It fails with ErrIllegalState outside that
// window.
func (d *Decoder) HeaderValue() (string, error) {
	if d.lastEvent != Header {
		return "", errs.ErrIllegalState
	}
	return d.curHeaderValue, nil
}

// ParsedHeaderValue returns a cached disposition parser when the current
// header is Content-Disposition, nil when it is any other header name,
// and ErrIllegalState outside a HEADER window. Parsing is idempotent:
// repeated calls on the same header return the same cached result.
func (d *Decoder) ParsedHeaderValue() (*ParsedDisposition, error) {
	if d.lastEvent != Header {
		return nil, errs.ErrIllegalState
	}
	if !strings.EqualFold(d.curHeaderName, "Content-Disposition") {
		return nil, nil
	}
	if d.dispositionCache == nil {
		d.dispositionCache = parseDisposition(d.curHeaderValue)
	}
	return d.dispositionCache, nil
}

// DecodedContent transfers the payload slice most recently delivered by a
// CONTENT event to the caller. Calling it twice for the same event, or
// outside a CONTENT window, is ErrIllegalState.
func (d *Decoder) DecodedContent() ([]byte, error) {
	if d.lastEvent != Content || d.pendingContentTaken {
		return nil, errs.ErrIllegalState
	}
	d.pendingContentTaken = true
	out := d.pendingContent
	d.pendingContent = nil
	return out, nil
}

// Close releases all buffered and pending bytes and renders the Decoder
// unusable.
func (d *Decoder) Close() {
	d.win.Release()
	d.pendingContent = nil
	d.closed = true
}
