/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package pullpart

import (
	"github.com/badu/pullpart/buffer"
	"github.com/badu/pullpart/charset"
)

// DefaultUndecodedLimit is the undecoded-buffer bound used when no
// WithUndecodedLimit option is supplied.
const DefaultUndecodedLimit = 4096

type options struct {
	charsetName    string
	undecodedLimit int
}

// Option configures a Decoder at construction time.
type Option func(*options)

// WithCharset sets the default charset used to decode header line text.
// An empty name (the default) resolves to UTF-8.
func WithCharset(name string) Option {
	return func(o *options) { o.charsetName = name }
}

// WithUndecodedLimit bounds the number of unread bytes the Decoder will
// hold across Add calls.
func WithUndecodedLimit(n int) Option {
	return func(o *options) { o.undecodedLimit = n }
}

// ForMultipartBoundary builds a Decoder for a top-level multipart body
// delimited by boundaryToken (supplied without its leading "--").
func ForMultipartBoundary(boundaryToken string, opts ...Option) (*Decoder, error) {
	o := options{undecodedLimit: DefaultUndecodedLimit}
	for _, opt := range opts {
		opt(&o)
	}
	enc, err := charset.Lookup(o.charsetName)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		defaultCharset: enc,
		topBoundary:    []byte("--" + boundaryToken),
		win:            buffer.New(o.undecodedLimit),
		undecodedLimit: o.undecodedLimit,
		state:          StateHeaderDelimiter,
	}, nil
}
