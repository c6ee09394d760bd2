// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "io"

// windowsVersionNumber is a Windows major.minor.build version triple, as
// recorded in an installer's minimum/maximum supported Windows version
// range.
type windowsVersionNumber struct {
	Major uint8
	Minor uint8
	Build uint16
}

func readWindowsVersionNumber(r *byteReader, version InnoVersion) (windowsVersionNumber, error) {
	var v windowsVersionNumber
	var err error
	if version.AtLeast(1, 3, 19) {
		if v.Build, err = r.ReadUint16(); err != nil {
			return v, err
		}
	}
	if v.Minor, err = r.ReadUint8(); err != nil {
		return v, err
	}
	if v.Major, err = r.ReadUint8(); err != nil {
		return v, err
	}
	return v, nil
}

type windowsServicePack struct {
	Major uint8
	Minor uint8
}

// WindowsVersion is a single Windows OS version requirement: a Windows
// product version paired with its underlying NT kernel version and, for
// versions new enough to record one, an NT service pack level.
type WindowsVersion struct {
	WinVersion   windowsVersionNumber
	NtVersion    windowsVersionNumber
	NtServicePack windowsServicePack
}

func readWindowsVersion(r *byteReader, version InnoVersion) (WindowsVersion, error) {
	var wv WindowsVersion
	var err error
	if wv.WinVersion, err = readWindowsVersionNumber(r, version); err != nil {
		return wv, err
	}
	if wv.NtVersion, err = readWindowsVersionNumber(r, version); err != nil {
		return wv, err
	}
	if version.AtLeast(1, 3, 19) {
		if wv.NtServicePack.Minor, err = r.ReadUint8(); err != nil {
			return wv, err
		}
		if wv.NtServicePack.Major, err = r.ReadUint8(); err != nil {
			return wv, err
		}
	}
	return wv, nil
}

// WindowsVersionRange is the inclusive range of Windows versions an
// installer declares support for.
type WindowsVersionRange struct {
	Begin WindowsVersion
	End   WindowsVersion
}

// readWindowsVersionRange reads a WindowsVersionRange from r. Every Inno
// Setup version writes this record; it is read unconditionally wherever
// the header calls for it.
func readWindowsVersionRange(r io.Reader, version InnoVersion) (WindowsVersionRange, error) {
	br := newByteReader(r)
	var wvr WindowsVersionRange
	var err error
	if wvr.Begin, err = readWindowsVersion(br, version); err != nil {
		return wvr, err
	}
	if wvr.End, err = readWindowsVersion(br, version); err != nil {
		return wvr, err
	}
	return wvr, nil
}
