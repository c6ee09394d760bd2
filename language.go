// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Language is one entry of the setup's language table: its display name,
// dialog fonts, embedded license/info text, and the codepage its other
// Pascal strings (including every other entry record's strings) are
// encoded in.
type Language struct {
	Name                        string
	LanguageName                string
	DialogFont                  string
	TitleFont                   string
	WelcomeFont                 string
	CopyrightFont               string
	Data                        string
	LicenseText                 string
	InfoBefore                  string
	InfoAfter                   string
	ID                          uint32
	Codepage                    encoding.Encoding
	DialogFontSize              uint32
	DialogFontStandardHeight    uint32
	DialogFontBaseScaleWidth    uint32
	DialogFontBaseScaleHeight   uint32
	TitleFontSize               uint32
	WelcomeFontSize             uint32
	CopyrightFontSize           uint32
	RightToLeft                 bool
}

// defaultLanguage mirrors the Inno Setup compiler's own built-in default
// language entry, used for any field a given version's layout omits.
func defaultLanguage() Language {
	return Language{
		Name:                      "default",
		LanguageName:              "English",
		DialogFont:                "Tahoma",
		DialogFontSize:            9,
		DialogFontBaseScaleWidth:  7,
		DialogFontBaseScaleHeight: 15,
		TitleFont:                 "Arial",
		TitleFontSize:             29,
		WelcomeFont:               "Segoe UI",
		WelcomeFontSize:           14,
		CopyrightFont:             "Arial",
		CopyrightFontSize:         8,
		ID:                        1033, // English (United States)
		Codepage:                  charmap.Windows1252,
	}
}

// readLanguage reads one Language entry. Its own strings cannot be decoded
// with the caller's running codepage, since the language entry is itself
// what determines that codepage for everything that follows it; they are
// read raw and decoded only once this entry's own codepage field has been
// read.
func readLanguage(r io.Reader, version InnoVersion) (Language, error) {
	br := newByteReader(r)
	lang := defaultLanguage()

	var name, languageName, dialogFont, titleFont, welcomeFont, copyrightFont []byte
	var err error

	if version.AtLeast(4, 0, 0) {
		if name, err = br.ReadRawPascalString(); err != nil {
			return lang, err
		}
	}

	if languageName, err = br.ReadRawPascalString(); err != nil {
		return lang, err
	}

	if version.Equal(NewInnoVersion(5, 5, 7, 1)) {
		if err = br.DiscardPascalString(); err != nil {
			return lang, err
		}
	}

	if dialogFont, err = br.ReadRawPascalString(); err != nil {
		return lang, err
	}

	if version.Before(6, 6, 0) {
		if titleFont, err = br.ReadRawPascalString(); err != nil {
			return lang, err
		}
	}

	if welcomeFont, err = br.ReadRawPascalString(); err != nil {
		return lang, err
	}

	if version.Before(6, 6, 0) {
		if copyrightFont, err = br.ReadRawPascalString(); err != nil {
			return lang, err
		}
	}

	if version.AtLeast(4, 0, 0) {
		raw, err := br.ReadRawPascalString()
		if err != nil {
			return lang, err
		}
		lang.Data = string(raw)
	}

	if version.AtLeast(4, 0, 1) {
		raw, err := br.ReadRawPascalString()
		if err != nil {
			return lang, err
		}
		lang.LicenseText = string(raw)

		if raw, err = br.ReadRawPascalString(); err != nil {
			return lang, err
		}
		lang.InfoBefore = string(raw)

		if raw, err = br.ReadRawPascalString(); err != nil {
			return lang, err
		}
		lang.InfoAfter = string(raw)
	}

	if version.AtLeast(6, 6, 0) {
		id, err := br.ReadUint16()
		if err != nil {
			return lang, err
		}
		lang.ID = uint32(id)
	} else {
		if lang.ID, err = br.ReadUint32(); err != nil {
			return lang, err
		}
	}

	switch {
	case version.Before(4, 2, 2):
		if cp := codepageFromID(uint16(lang.ID)); cp != nil {
			lang.Codepage = cp
		}
	case !version.Variant.IsUnicode():
		id, err := br.ReadUint32()
		if err != nil {
			return lang, err
		}
		if id != 0 {
			if cp := codepageFromID(uint16(id)); cp != nil {
				lang.Codepage = cp
			}
		}
	default:
		if version.Before(5, 3, 0) {
			if _, err = br.ReadUint32(); err != nil {
				return lang, err
			}
		}
		lang.Codepage = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}

	if len(name) > 0 {
		if lang.Name, err = decodeString(name, lang.Codepage); err != nil {
			return lang, err
		}
	}
	if len(languageName) > 0 {
		if lang.LanguageName, err = decodeString(languageName, lang.Codepage); err != nil {
			return lang, err
		}
	}
	if len(dialogFont) > 0 {
		if lang.DialogFont, err = decodeString(dialogFont, lang.Codepage); err != nil {
			return lang, err
		}
	}
	if len(titleFont) > 0 {
		if lang.TitleFont, err = decodeString(titleFont, lang.Codepage); err != nil {
			return lang, err
		}
	}
	if len(welcomeFont) > 0 {
		if lang.WelcomeFont, err = decodeString(welcomeFont, lang.Codepage); err != nil {
			return lang, err
		}
	}
	if len(copyrightFont) > 0 {
		if lang.CopyrightFont, err = decodeString(copyrightFont, lang.Codepage); err != nil {
			return lang, err
		}
	}
	if lang.Data != "" {
		if lang.Data, err = decodeString([]byte(lang.Data), lang.Codepage); err != nil {
			return lang, err
		}
	}
	if lang.LicenseText != "" {
		if lang.LicenseText, err = decodeString([]byte(lang.LicenseText), lang.Codepage); err != nil {
			return lang, err
		}
	}
	if lang.InfoBefore != "" {
		if lang.InfoBefore, err = decodeString([]byte(lang.InfoBefore), lang.Codepage); err != nil {
			return lang, err
		}
	}
	if lang.InfoAfter != "" {
		if lang.InfoAfter, err = decodeString([]byte(lang.InfoAfter), lang.Codepage); err != nil {
			return lang, err
		}
	}

	if lang.DialogFontSize, err = br.ReadUint32(); err != nil {
		return lang, err
	}

	if version.Before(4, 1, 0) {
		if lang.DialogFontStandardHeight, err = br.ReadUint32(); err != nil {
			return lang, err
		}
	}

	if version.AtLeast(6, 6, 0) {
		if lang.DialogFontBaseScaleHeight, err = br.ReadUint32(); err != nil {
			return lang, err
		}
		if lang.DialogFontBaseScaleWidth, err = br.ReadUint32(); err != nil {
			return lang, err
		}
	} else {
		if lang.TitleFontSize, err = br.ReadUint32(); err != nil {
			return lang, err
		}
	}

	if lang.WelcomeFontSize, err = br.ReadUint32(); err != nil {
		return lang, err
	}

	if version.Before(6, 6, 0) {
		if lang.CopyrightFontSize, err = br.ReadUint32(); err != nil {
			return lang, err
		}
	}

	if version.Equal(NewInnoVersion(5, 5, 7, 1)) {
		if _, err = br.ReadUint32(); err != nil {
			return lang, err
		}
	}

	if version.AtLeast(5, 2, 3) {
		if lang.RightToLeft, err = br.ReadBool(); err != nil {
			return lang, err
		}
	}

	return lang, nil
}
