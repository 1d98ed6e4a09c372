/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package header splits one raw header line into a name and a value, and
// dispatches specific header names into part-state mutations (boundary,
// charset, transfer-encoding bookkeeping).
package header

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/badu/pullpart/charset"
	"github.com/badu/pullpart/errs"
	"github.com/badu/pullpart/param"
)

const (
	contentDisposition     = "Content-Disposition"
	contentType            = "Content-Type"
	contentTransferEncoding = "Content-Transfer-Encoding"
)

func isLWS(b byte) bool { return b == ' ' || b == '\t' }

// trim returns s with leading and trailing spaces and tabs removed.
func trim(s string) string {
	i := 0
	for i < len(s) && isLWS(s[i]) {
		i++
	}
	n := len(s)
	for n > i && isLWS(s[n-1]) {
		n--
	}
	return s[i:n]
}

// Split splits line into (name, value): name is the prefix up to ':' or
// whitespace, whichever comes first; the ':' is skipped; value runs from
// the first to the last non-whitespace byte. A line whose name is not
// immediately followed by ':' (no ':' at all, or whitespace before it)
// fails with ErrInvalidHeader.
func Split(line string) (name, value string, err error) {
	i := 0
	for i < len(line) && line[i] != ':' && !isLWS(line[i]) {
		i++
	}
	name = line[:i]
	if i >= len(line) || line[i] != ':' {
		return "", "", errs.ErrInvalidHeader
	}
	value = trim(line[i+1:])
	return name, value, nil
}

// PartState is the subset of decoder bookkeeping that header dispatch can
// mutate: the nested mixed-multipart boundary (sticky once set) and the
// current part's charset.
type PartState struct {
	MixedBoundary       string
	PartCharset         charset.Encoding
	partCharsetExplicit bool
}

// Reset clears per-part state at the start of a new part. MixedBoundary is
// intentionally left untouched: once a mixed boundary is active it stays
// active for the rest of the decode.
func (ps *PartState) Reset() {
	ps.PartCharset = charset.Encoding{}
	ps.partCharsetExplicit = false
}

// Dispatch feeds one parsed header's (name, value) into ps, updating
// transfer-encoding and content-type derived state. Header names it does
// not recognize are a no-op here — the caller still emits them as plain
// HEADER events regardless.
func Dispatch(ps *PartState, name, value string) error {
	switch {
	case strings.EqualFold(name, contentTransferEncoding):
		return dispatchTransferEncoding(ps, value)
	case strings.EqualFold(name, contentType):
		return dispatchContentType(ps, value)
	default:
		return nil
	}
}

func dispatchTransferEncoding(ps *PartState, value string) error {
	var implied string
	switch strings.ToLower(trim(value)) {
	case "7bit":
		implied = "us-ascii"
	case "8bit":
		implied = "iso-8859-1"
	case "binary":
		implied = "none"
	default:
		return errors.Wrapf(errs.ErrUnknownTransferEncoding, "content-transfer-encoding %q", value)
	}
	// Preserve an earlier explicit charset choice: only update when one is
	// already set. This mirrors the source's documented, if surprising,
	// behavior rather than "fixing" it.
	if ps.partCharsetExplicit {
		enc, err := charset.Lookup(implied)
		if err != nil {
			return errors.Wrap(err, "content-transfer-encoding implied charset")
		}
		ps.PartCharset = enc
	}
	return nil
}

func dispatchContentType(ps *PartState, value string) error {
	var (
		typ          string
		boundary     string
		charsetName  string
		sawCharset   bool
		sawBoundary  bool
	)
	param.Parse(value, param.Callbacks{
		VisitType: func(t string) { typ = t },
		VisitAttribute: func(key string) bool {
			k := strings.ToLower(key)
			return k == "boundary" || k == "charset"
		},
		VisitAttributeValue: func(key, v string) {
			switch strings.ToLower(key) {
			case "boundary":
				boundary = v
				sawBoundary = true
			case "charset":
				charsetName = v
				sawCharset = true
			}
		},
	})

	if strings.EqualFold(typ, "multipart/mixed") {
		if ps.MixedBoundary != "" {
			return errors.Wrap(errs.ErrNestedMixed, "content-type")
		}
		if !sawBoundary || boundary == "" {
			return errors.Wrap(errs.ErrMissingBoundary, "content-type")
		}
		ps.MixedBoundary = "--" + boundary
		return nil
	}

	if sawCharset {
		enc, err := charset.Lookup(charsetName)
		if err != nil {
			return errors.Wrapf(errs.ErrInvalidCharset, "content-type charset %q", charsetName)
		}
		ps.PartCharset = enc
		ps.partCharsetExplicit = true
	}
	return nil
}
