/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package param parses a single logical header value of the form
// `type; attr=value; attr*=charset'lang'pct-encoded; ...`, delivering
// results through a small callback record rather than a visitor
// hierarchy — there is exactly one direct call per callback, so no
// dynamic dispatch is warranted.
package param

import (
	"strings"

	"github.com/badu/pullpart/charset"
)

// Callbacks receives the parsed pieces of a header value as Parse walks it.
type Callbacks struct {
	// VisitType is called once with the portion before the first ';'.
	VisitType func(typ string)
	// VisitAttribute is called for each attribute key (with the trailing
	// '*' already stripped when DecodeExtendedAttribute accepted the key as
	// extended; otherwise the key is passed as written); it reports whether
	// the value is wanted.
	VisitAttribute func(key string) (wantValue bool)
	// VisitAttributeValue delivers a wanted value for key.
	VisitAttributeValue func(key, value string)
	// DecodeExtendedAttribute is consulted for a key ending in '*'; if it
	// returns true the attribute is parsed as an RFC 5987 extended value.
	DecodeExtendedAttribute func(key string) bool
}

// Parse walks value, invoking cb's hooks. A syntactic error that prevents
// parsing further (a missing closing quote, a missing second ' in an
// extended value) stops the walk silently — attributes already delivered
// remain valid. An unresolvable charset in an extended value only skips
// that one attribute; parsing continues with the next.
func Parse(value string, cb Callbacks) {
	typ, rest := splitType(value)
	if cb.VisitType != nil {
		cb.VisitType(typ)
	}

	for len(rest) > 0 {
		rest = trimLeadingSpace(rest)
		if rest == "" {
			return
		}
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return
		}
		key := rest[:eq]
		after := rest[eq+1:]

		extended := false
		if strings.HasSuffix(key, "*") && cb.DecodeExtendedAttribute != nil && cb.DecodeExtendedAttribute(key[:len(key)-1]) {
			extended = true
			key = key[:len(key)-1]
		}

		want := false
		if cb.VisitAttribute != nil {
			want = cb.VisitAttribute(key)
		}

		var (
			val      string
			consumed int
			deliver  bool
			hardStop bool
		)
		switch {
		case extended:
			val, consumed, deliver, hardStop = parseExtendedValue(after)
		case len(after) > 0 && after[0] == '"':
			val, consumed, hardStop = parseQuotedValue(after)
			deliver = !hardStop
		default:
			val, consumed = parseTokenValue(after)
			deliver = true
		}
		if hardStop {
			return
		}
		if deliver && want && cb.VisitAttributeValue != nil {
			cb.VisitAttributeValue(key, val)
		}

		after = after[consumed:]
		after = trimLeadingSpace(after)
		if len(after) > 0 && after[0] == ';' {
			after = after[1:]
		}
		rest = after
	}
}

func splitType(value string) (typ, rest string) {
	i := strings.IndexByte(value, ';')
	if i < 0 {
		return strings.TrimSpace(value), ""
	}
	return strings.TrimSpace(value[:i]), value[i+1:]
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

// parseQuotedValue parses a "..." value starting at s[0] == '"', honoring
// \X as the literal X. It returns the decoded value, the number of bytes
// of s consumed (through the closing quote), and whether a missing
// closing quote forced a hard stop.
func parseQuotedValue(s string) (value string, consumed int, hardStop bool) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c == '"' {
			return b.String(), i + 1, false
		}
		b.WriteByte(c)
		i++
	}
	return "", 0, true
}

// parseTokenValue reads up to the next ';' or end of string.
func parseTokenValue(s string) (value string, consumed int) {
	i := strings.IndexByte(s, ';')
	if i < 0 {
		return s, len(s)
	}
	return s[:i], i
}

// parseExtendedValue parses charset'lang'pct-encoded, ending at the next
// ';' or end of string. A missing quote delimiter is a hard stop. An
// unresolvable charset is a soft skip: the bytes are still consumed so
// subsequent attributes parse, but deliver is false.
func parseExtendedValue(s string) (value string, consumed int, deliver bool, hardStop bool) {
	end := strings.IndexByte(s, ';')
	segment := s
	if end >= 0 {
		segment = s[:end]
		consumed = end
	} else {
		consumed = len(s)
	}

	q1 := strings.IndexByte(segment, '\'')
	if q1 < 0 {
		return "", consumed, false, true
	}
	q2 := strings.IndexByte(segment[q1+1:], '\'')
	if q2 < 0 {
		return "", consumed, false, true
	}
	q2 += q1 + 1

	csName := segment[:q1]
	pctEncoded := segment[q2+1:]

	enc, err := charset.Lookup(csName)
	if err != nil {
		return "", consumed, false, false
	}
	decoded, ok := pctDecode(pctEncoded)
	if !ok {
		return "", consumed, false, false
	}
	text, err := enc.Decode(decoded)
	if err != nil {
		return "", consumed, false, false
	}
	return text, consumed, true, false
}

func pctDecode(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(s) {
			return nil, false
		}
		b, ok := readHexByte(s[i+1], s[i+2])
		if !ok {
			return nil, false
		}
		out = append(out, b)
		i += 2
	}
	return out, true
}

func readHexByte(hi, lo byte) (byte, bool) {
	h, ok := fromHex(hi)
	if !ok {
		return 0, false
	}
	l, ok := fromHex(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}

func fromHex(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}
