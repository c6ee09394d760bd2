// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// Condition holds the script-expression strings that gate whether an entry
// record applies to a given install: which components/tasks/languages it
// belongs to, and Pascal Script snippets evaluated at install time. Every
// field is optional; an empty string means the entry carries no such
// condition and therefore always matches on that axis.
type Condition struct {
	Components    string
	Tasks         string
	Languages     string
	Check         string
	AfterInstall  string
	BeforeInstall string
}

// readCondition reads the shared Condition sub-record embedded at a fixed
// point in nearly every entry type. Unlike the setup header's own deferred
// strings, entry records are always parsed after the language table and
// effective codepage are known, so these strings are decoded immediately.
func readCondition(r io.Reader, codepage encoding.Encoding, version InnoVersion) (Condition, error) {
	br := newByteReader(r)
	var c Condition
	var err error

	if version.AtLeast(2, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 8)) {
		if c.Components, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	if version.AtLeast(2, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 17)) {
		if c.Tasks, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 0, 1) {
		if c.Languages, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 24)) {
		if c.Check, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 1, 0) {
		if c.AfterInstall, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
		if c.BeforeInstall, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	return c, nil
}
