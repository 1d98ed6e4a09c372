/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package charset resolves IANA/HTML charset names to decoders, backing
// the core decoder's read_line and RFC 5987 extended-value handling.
package charset

import (
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"github.com/badu/pullpart/errs"
)

// Encoding is a resolved charset. The zero value is UTF-8 (the decoder's
// fast path: bytes are already valid UTF-8 text, no transcoding needed).
type Encoding struct {
	name string
	enc  encoding.Encoding
}

// UTF8 is the default charset used when none is configured or named.
var UTF8 = Encoding{name: "utf-8"}

// None represents the "none" part charset implied by a
// Content-Transfer-Encoding of binary. It never transcodes; it exists so
// the decoder can distinguish "no charset interpretation applies" from
// "UTF-8" in its bookkeeping.
var None = Encoding{name: "none"}

// Name returns the resolved charset's canonical name.
func (e Encoding) Name() string { return e.name }

// Lookup resolves name to an Encoding. An empty name resolves to UTF-8, per
// the core decoder's default-charset semantics. Unknown or syntactically
// invalid names return ErrInvalidCharset.
func Lookup(name string) (Encoding, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return UTF8, nil
	}
	if strings.EqualFold(trimmed, "none") {
		return None, nil
	}
	if strings.EqualFold(trimmed, "utf-8") || strings.EqualFold(trimmed, "utf8") {
		return UTF8, nil
	}
	enc, canonical := charset.Lookup(trimmed)
	if enc == nil {
		return Encoding{}, errs.ErrInvalidCharset
	}
	return Encoding{name: canonical, enc: enc}, nil
}

// Decode decodes b as text under e. The UTF-8 and "none" fast paths copy
// bytes without transcoding.
func (e Encoding) Decode(b []byte) (string, error) {
	if e.enc == nil {
		return string(b), nil
	}
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
