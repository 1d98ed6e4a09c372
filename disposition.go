/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package pullpart

import (
	"strings"

	"github.com/badu/pullpart/param"
)

// ParsedDisposition is a lazily-computed, idempotent view of a
// Content-Disposition header value: its name and filename attributes, if
// present.
type ParsedDisposition struct {
	name     string
	fileName string
}

// Name returns the disposition's "name" attribute, or "" if absent.
func (pd *ParsedDisposition) Name() string { return pd.name }

// FileName returns the disposition's "filename" attribute (decoded if it
// was an RFC 5987 extended value), or "" if absent.
func (pd *ParsedDisposition) FileName() string { return pd.fileName }

func parseDisposition(value string) *ParsedDisposition {
	pd := &ParsedDisposition{}
	param.Parse(value, param.Callbacks{
		VisitAttribute: func(key string) bool {
			k := strings.ToLower(key)
			return k == "name" || k == "filename"
		},
		VisitAttributeValue: func(key, v string) {
			switch strings.ToLower(key) {
			case "name":
				pd.name = v
			case "filename":
				pd.fileName = v
			}
		},
		DecodeExtendedAttribute: func(key string) bool {
			return strings.EqualFold(key, "filename")
		},
	})
	return pd
}
