// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// TargetType is what a DeleteEntry removes.
type TargetType uint8

// TargetType values.
const (
	TargetTypeFile TargetType = iota
	TargetTypeFilesAndSubDirectories
	TargetTypeDirectoryIfEmpty
)

func (t TargetType) String() string {
	switch t {
	case TargetTypeFile:
		return "File"
	case TargetTypeFilesAndSubDirectories:
		return "Files and subdirectories"
	case TargetTypeDirectoryIfEmpty:
		return "Directory if empty"
	default:
		return "Unknown"
	}
}

func readTargetType(r io.Reader) (TargetType, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return TargetTypeFile, err
	}
	if buf[0] > uint8(TargetTypeDirectoryIfEmpty) {
		return TargetTypeFile, &UnknownEnumValueError{Type: "TargetType", Value: uint64(buf[0])}
	}
	return TargetType(buf[0]), nil
}

// DeleteEntry is one [InstallDelete] or [UninstallDelete] section entry, a
// file or directory path removed either before installing or during
// uninstall. The same record shape is used for both tables; which one an
// entry belongs to is determined by which EntryCounts-sized block it was
// read from, not by any field of the record itself.
type DeleteEntry struct {
	Name       string
	Condition  Condition
	TargetType TargetType
}

func readDeleteEntry(r io.Reader, codepage encoding.Encoding, version InnoVersion) (DeleteEntry, error) {
	br := newByteReader(r)
	var d DeleteEntry
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil {
			return d, err
		}
	}

	if d.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return d, err
	}

	if d.Condition, err = readCondition(br.r, codepage, version); err != nil {
		return d, err
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return d, err
	}

	if d.TargetType, err = readTargetType(br.r); err != nil {
		return d, err
	}

	return d, nil
}
