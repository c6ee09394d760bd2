// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// TaskFlags holds a Task entry's version-gated flag set.
type TaskFlags uint64

// TaskFlags bits.
const (
	TaskFlagExclusive TaskFlags = 1 << iota
	TaskFlagUnchecked
	TaskFlagRestart
	TaskFlagCheckedOnce
	TaskFlagDontInheritCheck
)

// Has reports whether flag is set.
func (f TaskFlags) Has(flag TaskFlags) bool { return f&flag != 0 }

// Task is one [Tasks] section entry: an optional checkbox or radio item
// the user can opt into at install time.
type Task struct {
	Name              string
	Description       string
	GroupDescription  string
	Components        string
	Languages         string
	Check             string
	Level             uint32
	Used              bool
	Flags             TaskFlags
}

func readTask(r io.Reader, codepage encoding.Encoding, version InnoVersion) (Task, error) {
	br := newByteReader(r)
	t := Task{Used: true}
	var err error

	if t.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return t, err
	}
	if t.Description, err = br.ReadDecodedPascalString(codepage); err != nil {
		return t, err
	}
	if t.GroupDescription, err = br.ReadDecodedPascalString(codepage); err != nil {
		return t, err
	}
	if t.Components, err = br.ReadDecodedPascalString(codepage); err != nil {
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

	switch {
	case version.AtLeast(6, 7, 0):
		level, err := br.ReadUint8()
		if err != nil {
			return t, err
		}
		t.Level = uint32(level)
	case version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(3, 0, 3)):
		if t.Level, err = br.ReadUint32(); err != nil {
			return t, err
		}
	}

	if version.AtLeast(4, 0, 0) || (version.Variant.IsISX() && version.AtLeast(3, 0, 4)) {
		if t.Used, err = br.ReadBool(); err != nil {
			return t, err
		}
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return t, err
	}

	fr := NewFlagReader(br)
	fr.Add(uint64(TaskFlagExclusive))
	fr.Add(uint64(TaskFlagUnchecked))
	fr.AddIf(version.AtLeast(2, 0, 5), uint64(TaskFlagRestart))
	fr.AddIf(version.AtLeast(2, 0, 6), uint64(TaskFlagCheckedOnce))
	fr.AddIf(version.AtLeast(4, 2, 3), uint64(TaskFlagDontInheritCheck))
	flags, err := fr.Finalize()
	if err != nil {
		return t, err
	}
	t.Flags = TaskFlags(flags)

	return t, nil
}
