// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// SetupType is one of the built-in installation types a Type entry may
// stand in for (Full, Compact, Custom) or User for a compiler-defined
// custom type.
type SetupType uint8

// SetupType values.
const (
	SetupTypeUser           SetupType = iota
	SetupTypeDefaultFull
	SetupTypeDefaultCompact
	SetupTypeDefaultCustom
)

func (s SetupType) String() string {
	switch s {
	case SetupTypeUser:
		return "User"
	case SetupTypeDefaultFull:
		return "Default full"
	case SetupTypeDefaultCompact:
		return "Default compact"
	case SetupTypeDefaultCustom:
		return "Default custom"
	default:
		return "Unknown"
	}
}

func readSetupType(r io.Reader) (SetupType, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return SetupTypeUser, err
	}
	if buf[0] > uint8(SetupTypeDefaultCustom) {
		return SetupTypeUser, &UnknownEnumValueError{Type: "SetupType", Value: uint64(buf[0])}
	}
	return SetupType(buf[0]), nil
}

// TypeFlags holds a Type entry's single-byte flag set.
type TypeFlags uint8

// TypeFlags bits.
const (
	TypeFlagCustomSetupType TypeFlags = 1 << iota
)

// Has reports whether flag is set.
func (f TypeFlags) Has(flag TypeFlags) bool { return f&flag != 0 }

// TypeEntry is one [Types] section entry: a named installation profile
// (Full, Compact, Custom, or a user-defined type) that components declare
// membership in.
type TypeEntry struct {
	Name        string
	Description string
	Languages   string
	Check       string
	Flags       TypeFlags
	Setup       SetupType
	Size        uint64
}

// IsCustom reports whether the entry is the compiler-synthesized "Custom"
// type rather than a named one.
func (t TypeEntry) IsCustom() bool { return t.Flags.Has(TypeFlagCustomSetupType) }

func readTypeEntry(r io.Reader, codepage encoding.Encoding, version InnoVersion) (TypeEntry, error) {
	br := newByteReader(r)
	var t TypeEntry
	var err error

	if t.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return t, err
	}
	if t.Description, err = br.ReadDecodedPascalString(codepage); err != nil {
		return t, err
	}

	if version.AtLeast(4, 0, 1) {
		if t.Languages, err = br.ReadDecodedPascalString(codepage); err != nil {
			return t, err
		}
	}

	if version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 24)) {
		if t.Check, err = br.ReadDecodedPascalString(codepage); err != nil {
			return t, err
		}
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return t, err
	}

	flagByte, err := br.ReadUint8()
	if err != nil {
		return t, err
	}
	t.Flags = TypeFlags(flagByte)

	if version.AtLeast(4, 0, 3) {
		if t.Setup, err = readSetupType(br.r); err != nil {
			return t, err
		}
	}

	if version.AtLeast(4, 0, 0) {
		if t.Size, err = br.ReadUint64(); err != nil {
			return t, err
		}
	} else {
		size, err := br.ReadUint32()
		if err != nil {
			return t, err
		}
		t.Size = uint64(size)
	}

	return t, nil
}
