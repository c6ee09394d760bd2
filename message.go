// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// CustomMessage is a single compiler-level [CustomMessages] entry: a named
// string overridable per language, resolved at install time to the string
// belonging to the active language.
type CustomMessage struct {
	Name          string
	Value         string
	LanguageIndex int32
}

// Language returns the CustomMessage's language, or nil for a
// language-neutral message (LanguageIndex < 0 or out of range).
func (m CustomMessage) Language(languages []Language) *Language {
	if m.LanguageIndex < 0 || int(m.LanguageIndex) >= len(languages) {
		return nil
	}
	return &languages[m.LanguageIndex]
}

// readCustomMessage reads one CustomMessage entry. Its value is decoded
// using the codepage of the language it names, which may differ from the
// installer's default codepage for a multi-language, non-Unicode build.
func readCustomMessage(r io.Reader, languages []Language, codepage encoding.Encoding) (CustomMessage, error) {
	br := newByteReader(r)
	var m CustomMessage
	var err error

	if m.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return m, err
	}

	rawValue, err := br.ReadRawPascalString()
	if err != nil {
		return m, err
	}

	if m.LanguageIndex, err = br.ReadInt32(); err != nil {
		return m, err
	}

	valueCodepage := codepage
	if m.LanguageIndex >= 0 && int(m.LanguageIndex) < len(languages) {
		valueCodepage = languages[m.LanguageIndex].Codepage
	}
	if m.Value, err = decodeString(rawValue, valueCodepage); err != nil {
		return m, err
	}

	return m, nil
}
