// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// WaitCondition controls how Setup waits for a RunEntry's process.
type WaitCondition uint8

// WaitCondition values.
const (
	WaitConditionWaitUntilTerminated WaitCondition = iota
	WaitConditionNoWait
	WaitConditionWaitUntilIdle
)

func (w WaitCondition) String() string {
	switch w {
	case WaitConditionWaitUntilTerminated:
		return "WaitUntilTerminated"
	case WaitConditionNoWait:
		return "NoWait"
	case WaitConditionWaitUntilIdle:
		return "WaitUntilIdle"
	default:
		return "Unknown"
	}
}

func readWaitCondition(r io.Reader) (WaitCondition, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return WaitConditionWaitUntilTerminated, err
	}
	if buf[0] > uint8(WaitConditionWaitUntilIdle) {
		return WaitConditionWaitUntilTerminated, &UnknownEnumValueError{Type: "WaitCondition", Value: uint64(buf[0])}
	}
	return WaitCondition(buf[0]), nil
}

// RunFlags holds a RunEntry's version-gated flag set.
type RunFlags uint16

// RunFlags bits.
const (
	RunFlagShellExecute RunFlags = 1 << iota
	RunFlagSkipIfDoesntExist
	RunFlagPostInstall
	RunFlagUnchecked
	RunFlagSkipIfSilent
	RunFlagSkipIfNotSilent
	RunFlagHideWizard
	RunFlagBits32
	RunFlagBits64
	RunFlagRunAsOriginalUser
	RunFlagDontLogParameters
	RunFlagLogOutput
)

// Has reports whether flag is set.
func (f RunFlags) Has(flag RunFlags) bool { return f&flag != 0 }

// RunEntry is one [Run] or [UninstallRun] section entry: a program Setup
// executes either after installing or during uninstall. The same record
// shape is used for both tables.
type RunEntry struct {
	Name             string
	Parameters       string
	WorkingDirectory string
	RunOnceID        string
	StatusMessage    string
	Verb             string
	Description      string
	Condition        Condition
	ShowCommand      int32
	WaitCondition    WaitCondition
	Flags            RunFlags
}

func readRunEntry(r io.Reader, codepage encoding.Encoding, version InnoVersion) (RunEntry, error) {
	br := newByteReader(r)
	e := RunEntry{}
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil {
			return e, err
		}
	}

	if e.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return e, err
	}
	if e.Parameters, err = br.ReadDecodedPascalString(codepage); err != nil {
		return e, err
	}
	if e.WorkingDirectory, err = br.ReadDecodedPascalString(codepage); err != nil {
		return e, err
	}

	if version.AtLeast(1, 3, 9) {
		if e.RunOnceID, err = br.ReadDecodedPascalString(codepage); err != nil {
			return e, err
		}
	}

	if version.AtLeast(2, 0, 2) {
		if e.StatusMessage, err = br.ReadDecodedPascalString(codepage); err != nil {
			return e, err
		}
	}

	if version.AtLeast(5, 1, 13) {
		if e.Verb, err = br.ReadDecodedPascalString(codepage); err != nil {
			return e, err
		}
	}

	if version.AtLeast(2, 0, 0) || version.Variant.IsISX() {
		if e.Description, err = br.ReadDecodedPascalString(codepage); err != nil {
			return e, err
		}
	}

	if e.Condition, err = readCondition(br.r, codepage, version); err != nil {
		return e, err
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return e, err
	}

	if version.AtLeast(1, 3, 24) {
		if e.ShowCommand, err = br.ReadInt32(); err != nil {
			return e, err
		}
	}

	if e.WaitCondition, err = readWaitCondition(br.r); err != nil {
		return e, err
	}

	fr := NewFlagReader(br)
	fr.AddIf(version.AtLeast(1, 2, 3), uint64(RunFlagShellExecute))
	fr.AddIf(version.AtLeast(1, 3, 9) || (version.Variant.IsISX() && version.AtLeast(1, 3, 8)), uint64(RunFlagSkipIfDoesntExist))
	if version.AtLeast(2, 0, 0) {
		fr.Add(uint64(RunFlagPostInstall))
		fr.Add(uint64(RunFlagUnchecked))
		fr.Add(uint64(RunFlagSkipIfSilent))
		fr.Add(uint64(RunFlagSkipIfNotSilent))
	}
	fr.AddIf(version.AtLeast(2, 0, 8), uint64(RunFlagHideWizard))
	if version.AtLeast(5, 1, 10) {
		fr.Add(uint64(RunFlagBits32))
		fr.Add(uint64(RunFlagBits64))
	}
	fr.AddIf(version.AtLeast(5, 2, 0), uint64(RunFlagRunAsOriginalUser))
	fr.AddIf(version.AtLeast(6, 1, 0), uint64(RunFlagDontLogParameters))
	fr.AddIf(version.AtLeast(6, 3, 0), uint64(RunFlagLogOutput))
	flags, err := fr.Finalize()
	if err != nil {
		return e, err
	}
	e.Flags = RunFlags(flags)

	return e, nil
}
