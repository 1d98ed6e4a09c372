/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package errs holds the sentinel error kinds shared by every layer of the
// decoder, so buffer, scan, param, header and the root package can all
// raise (and callers can all recognize) the same values without import
// cycles.
package errs

import "github.com/pkg/errors"

var (
	// ErrNotEnoughData is internal: every exported boundary (Decoder.Next,
	// Decoder.Add) converts it into a plain "no event yet" return. It must
	// never reach a caller.
	ErrNotEnoughData = errors.New("pullpart: not enough data")

	// ErrLimitExceeded is raised by Decoder.Add when the unread window
	// would exceed the configured undecoded limit.
	ErrLimitExceeded = errors.New("pullpart: undecoded buffer limit exceeded")

	// ErrNoDelimiter is raised when buffered bytes are enough to rule out a
	// delimiter match but none was found where one was required.
	ErrNoDelimiter = errors.New("pullpart: required delimiter not found")

	// ErrInvalidHeader is raised when a header line cannot be split into a
	// name and a value.
	ErrInvalidHeader = errors.New("pullpart: malformed header line")

	// ErrUnknownTransferEncoding is raised when Content-Transfer-Encoding
	// names anything other than 7bit, 8bit or binary.
	ErrUnknownTransferEncoding = errors.New("pullpart: unknown content-transfer-encoding")

	// ErrInvalidCharset is raised when a charset name is syntactically
	// invalid or unsupported.
	ErrInvalidCharset = errors.New("pullpart: invalid or unsupported charset")

	// ErrNestedMixed is raised when multipart/mixed is encountered while a
	// mixed boundary is already active.
	ErrNestedMixed = errors.New("pullpart: nested multipart/mixed")

	// ErrMissingBoundary is raised when a multipart/mixed Content-Type
	// header has no boundary parameter.
	ErrMissingBoundary = errors.New("pullpart: multipart/mixed header missing boundary")

	// ErrIllegalState is raised when an accessor is called at the wrong
	// point in the event stream (or on a closed Decoder).
	ErrIllegalState = errors.New("pullpart: illegal state")
)
