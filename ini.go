// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// IniFlags holds an IniEntry's flag set.
type IniFlags uint8

// IniFlags bits.
const (
	IniFlagCreateKeyIfDoesntExist IniFlags = 1 << iota
	IniFlagUninstallDeleteEntry
	IniFlagUninstallDeleteEntireSection
	IniFlagUninstallDeleteSectionIfEmpty
	IniFlagHasValue
)

// Has reports whether flag is set.
func (f IniFlags) Has(flag IniFlags) bool { return f&flag != 0 }

// defaultIniFile is the path Inno Setup uses when an [INI] entry omits
// its Filename parameter.
const defaultIniFile = "{windows}/WIN.INI"

// IniEntry is one [INI] section entry: a value written to an .ini file at
// install time.
type IniEntry struct {
	File      string
	Section   string
	Key       string
	Value     string
	Condition Condition
	Flags     IniFlags
}

func readIniEntry(r io.Reader, codepage encoding.Encoding, version InnoVersion) (IniEntry, error) {
	br := newByteReader(r)
	ini := IniEntry{File: defaultIniFile}
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil {
			return ini, err
		}
	}

	file, err := br.ReadDecodedPascalString(codepage)
	if err != nil {
		return ini, err
	}
	if file != "" {
		ini.File = file
	}

	if ini.Section, err = br.ReadDecodedPascalString(codepage); err != nil {
		return ini, err
	}
	if ini.Key, err = br.ReadDecodedPascalString(codepage); err != nil {
		return ini, err
	}
	if ini.Value, err = br.ReadDecodedPascalString(codepage); err != nil {
		return ini, err
	}

	if ini.Condition, err = readCondition(br.r, codepage, version); err != nil {
		return ini, err
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return ini, err
	}

	flagByte, err := br.ReadUint8()
	if err != nil {
		return ini, err
	}
	ini.Flags = IniFlags(flagByte)

	return ini, nil
}
