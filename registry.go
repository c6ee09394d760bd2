// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// RegRoot is the predefined registry key a RegistryEntry operates under.
// Inno Setup tolerates an unrecognized root value, defaulting to
// HKEY_CLASSES_ROOT rather than rejecting the entry.
type RegRoot uint32

// RegRoot values.
const (
	RegRootHKeyClassesRoot RegRoot = iota
	RegRootHKeyCurrentUser
	RegRootHKeyLocalMachine
	RegRootHKeyUsers
	RegRootHKeyPerformanceData
	RegRootHKeyCurrentConfig
	RegRootHKeyDynamicData
	RegRootUnset
)

func (r RegRoot) String() string {
	switch r {
	case RegRootHKeyClassesRoot:
		return "HKEY_CLASSES_ROOT"
	case RegRootHKeyCurrentUser:
		return "HKEY_CURRENT_USER"
	case RegRootHKeyLocalMachine:
		return "HKEY_LOCAL_MACHINE"
	case RegRootHKeyUsers:
		return "HKEY_USERS"
	case RegRootHKeyPerformanceData:
		return "HKEY_PERFORMANCE_DATA"
	case RegRootHKeyCurrentConfig:
		return "HKEY_CURRENT_CONFIG"
	case RegRootHKeyDynamicData:
		return "HKEY_DYNAMIC_DATA"
	case RegRootUnset:
		return "Unset"
	default:
		return "HKEY_CLASSES_ROOT"
	}
}

// readRegRoot reads the registry root field, masking off the legacy
// "force 32-bit view" bit Inno Setup historically packed into the same
// dword, and falling back to RegRootHKeyClassesRoot for any value it does
// not recognize.
func readRegRoot(r *byteReader) (RegRoot, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return RegRootHKeyClassesRoot, err
	}
	v &^= 0x8000_0000
	if v > uint32(RegRootUnset) {
		return RegRootHKeyClassesRoot, nil
	}
	return RegRoot(v), nil
}

// RegistryValueType is the data type of a RegistryEntry's value.
type RegistryValueType uint8

// RegistryValueType values.
const (
	RegistryValueNone RegistryValueType = iota
	RegistryValueString
	RegistryValueExpandString
	RegistryValueDWord
	RegistryValueBinary
	RegistryValueMultiString
	RegistryValueQWord
)

func (t RegistryValueType) String() string {
	switch t {
	case RegistryValueNone:
		return "None"
	case RegistryValueString:
		return "String"
	case RegistryValueExpandString:
		return "ExpandString"
	case RegistryValueDWord:
		return "DWord"
	case RegistryValueBinary:
		return "Binary"
	case RegistryValueMultiString:
		return "MultiString"
	case RegistryValueQWord:
		return "QWord"
	default:
		return "Unknown"
	}
}

func readRegistryValueType(r io.Reader) (RegistryValueType, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return RegistryValueNone, err
	}
	if buf[0] > uint8(RegistryValueQWord) {
		return RegistryValueNone, &UnknownEnumValueError{Type: "RegistryValueType", Value: uint64(buf[0])}
	}
	return RegistryValueType(buf[0]), nil
}

// RegistryFlags holds a RegistryEntry's version-gated flag set.
type RegistryFlags uint16

// RegistryFlags bits.
const (
	RegistryFlagCreateValueIfDoesntExist RegistryFlags = 1 << iota
	RegistryFlagUninstallDeleteValue
	RegistryFlagUninstallClearValue
	RegistryFlagUninstallDeleteEntireKey
	RegistryFlagUninstallDeleteEntireKeyIfEmpty
	RegistryFlagPreserveStringType
	RegistryFlagDeleteKey
	RegistryFlagDeleteValue
	RegistryFlagNoError
	RegistryFlagDontCreateKey
	RegistryFlagBits32
	RegistryFlagBits64
)

// Has reports whether flag is set.
func (f RegistryFlags) Has(flag RegistryFlags) bool { return f&flag != 0 }

// RegistryEntry is one [Registry] section entry: a key or value written,
// or scheduled for removal, under the Windows registry.
type RegistryEntry struct {
	Key         string
	Name        string
	Value       string
	Condition   Condition
	Permissions string
	RegRoot     RegRoot
	// Permission indexes into the Permission table, or -1 for none.
	Permission int16
	Type       RegistryValueType
	Flags      RegistryFlags
}

func readRegistryEntry(r io.Reader, codepage encoding.Encoding, version InnoVersion) (RegistryEntry, error) {
	br := newByteReader(r)
	e := RegistryEntry{Permission: -1}
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil {
			return e, err
		}
	}

	if e.Key, err = br.ReadDecodedPascalString(codepage); err != nil {
		return e, err
	}
	if e.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return e, err
	}

	rawValue, err := br.ReadRawPascalString()
	if err != nil {
		return e, err
	}
	if e.Value, err = decodeString(rawValue, codepage); err != nil {
		return e, err
	}

	if e.Condition, err = readCondition(br.r, codepage, version); err != nil {
		return e, err
	}

	if version.AtLeastRev(4, 0, 11, 0) && version.BeforeRev(4, 1, 0, 0) {
		if e.Permissions, err = br.ReadDecodedPascalString(codepage); err != nil {
			return e, err
		}
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return e, err
	}

	if e.RegRoot, err = readRegRoot(br); err != nil {
		return e, err
	}

	if version.AtLeast(4, 1, 0) {
		v, err := br.ReadUint16()
		if err != nil {
			return e, err
		}
		e.Permission = int16(v)
	}

	if e.Type, err = readRegistryValueType(br.r); err != nil {
		return e, err
	}

	fr := NewFlagReader(br)
	fr.Add(uint64(RegistryFlagCreateValueIfDoesntExist))
	fr.Add(uint64(RegistryFlagUninstallDeleteValue))
	fr.Add(uint64(RegistryFlagUninstallClearValue))
	fr.Add(uint64(RegistryFlagUninstallDeleteEntireKey))
	fr.Add(uint64(RegistryFlagUninstallDeleteEntireKeyIfEmpty))
	fr.AddIf(version.AtLeast(1, 2, 6), uint64(RegistryFlagPreserveStringType))
	fr.AddIf(version.AtLeast(1, 3, 9), uint64(RegistryFlagDeleteKey))
	fr.AddIf(version.AtLeast(1, 3, 9), uint64(RegistryFlagDeleteValue))
	fr.AddIf(version.AtLeast(1, 3, 12), uint64(RegistryFlagNoError))
	fr.AddIf(version.AtLeast(1, 3, 16), uint64(RegistryFlagDontCreateKey))
	fr.AddIf(version.AtLeast(5, 1, 0), uint64(RegistryFlagBits32))
	fr.AddIf(version.AtLeast(5, 1, 0), uint64(RegistryFlagBits64))
	flags, err := fr.Finalize()
	if err != nil {
		return e, err
	}
	e.Flags = RegistryFlags(flags)

	return e, nil
}
