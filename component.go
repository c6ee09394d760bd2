// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// ComponentFlags holds a Component entry's single-byte flag set.
type ComponentFlags uint8

// ComponentFlags bits.
const (
	ComponentFlagFixed ComponentFlags = 1 << iota
	ComponentFlagRestart
	ComponentFlagDisableNoUninstallWarning
	ComponentFlagExclusive
	ComponentFlagDontInheritCheck
)

// Has reports whether flag is set.
func (f ComponentFlags) Has(flag ComponentFlags) bool { return f&flag != 0 }

// Component is one [Components] section entry.
type Component struct {
	Name                    string
	Description             string
	Types                   string
	Languages               string
	CheckOnce               string
	ExtraDiskSpaceRequired  uint64
	Level                   uint32
	Used                    bool
	Flags                   ComponentFlags
	Size                    uint64
}

func readComponent(r io.Reader, codepage encoding.Encoding, version InnoVersion) (Component, error) {
	br := newByteReader(r)
	c := Component{Used: true}
	var err error

	if c.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return c, err
	}
	if c.Description, err = br.ReadDecodedPascalString(codepage); err != nil {
		return c, err
	}
	if c.Types, err = br.ReadDecodedPascalString(codepage); err != nil {
		return c, err
	}

	if version.AtLeast(4, 0, 1) {
		if c.Languages, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 24)) {
		if c.CheckOnce, err = br.ReadDecodedPascalString(codepage); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 0, 0) {
		if c.ExtraDiskSpaceRequired, err = br.ReadUint64(); err != nil {
			return c, err
		}
	} else {
		size, err := br.ReadUint32()
		if err != nil {
			return c, err
		}
		c.ExtraDiskSpaceRequired = uint64(size)
	}

	if version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(3, 0, 3)) {
		if c.Level, err = br.ReadUint32(); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(3, 0, 4)) {
		if c.Used, err = br.ReadBool(); err != nil {
			return c, err
		}
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return c, err
	}

	flagByte, err := br.ReadUint8()
	if err != nil {
		return c, err
	}
	c.Flags = ComponentFlags(flagByte)

	switch {
	case version.AtLeast(4, 0, 0):
		if c.Size, err = br.ReadUint64(); err != nil {
			return c, err
		}
	case version.AtLeast(2, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 24)):
		size, err := br.ReadUint32()
		if err != nil {
			return c, err
		}
		c.Size = uint64(size)
	}

	return c, nil
}
