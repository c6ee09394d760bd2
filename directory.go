// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// DirectoryFlags holds a Directory entry's single-byte flag set.
type DirectoryFlags uint8

// DirectoryFlags bits.
const (
	DirectoryFlagNeverUninstall DirectoryFlags = 1 << iota
	DirectoryFlagDeleteAfterInstall
	DirectoryFlagAlwaysUninstall
	DirectoryFlagSetNTFSCompression
	DirectoryFlagUnsetNTFSCompression
)

// Has reports whether flag is set.
func (f DirectoryFlags) Has(flag DirectoryFlags) bool { return f&flag != 0 }

// Directory is one [Dirs] section entry: a directory Setup creates, and
// the access control and lifecycle rules that apply to it.
type Directory struct {
	Name        string
	Condition   Condition
	Permissions string
	Attributes  uint32
	// Permission indexes into the installer's Permission table, or -1 for
	// none.
	Permission int16
	Flags      DirectoryFlags
}

func readDirectory(r io.Reader, codepage encoding.Encoding, version InnoVersion) (Directory, error) {
	br := newByteReader(r)
	d := Directory{Permission: -1}
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

	if version.AtLeastRev(4, 0, 11, 0) && version.BeforeRev(4, 1, 0, 0) {
		if d.Permissions, err = br.ReadDecodedPascalString(codepage); err != nil {
			return d, err
		}
	}

	if version.AtLeast(2, 0, 11) {
		if d.Attributes, err = br.ReadUint32(); err != nil {
			return d, err
		}
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return d, err
	}

	if version.AtLeast(4, 1, 0) {
		v, err := br.ReadUint16()
		if err != nil {
			return d, err
		}
		d.Permission = int16(v)
	}

	flagByte, err := br.ReadUint8()
	if err != nil {
		return d, err
	}
	d.Flags = DirectoryFlags(flagByte)

	return d, nil
}
