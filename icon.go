// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// CloseSetting controls whether Setup asks to close a running target
// application before replacing its shortcut icon.
type CloseSetting uint8

// CloseSetting values.
const (
	CloseSettingNoSetting CloseSetting = iota
	CloseSettingCloseOnExit
	CloseSettingDontCloseOnExit
)

func (c CloseSetting) String() string {
	switch c {
	case CloseSettingNoSetting:
		return "No setting"
	case CloseSettingCloseOnExit:
		return "Close on exit"
	case CloseSettingDontCloseOnExit:
		return "Dont close on exit"
	default:
		return "Unknown"
	}
}

func readCloseSetting(r io.Reader) (CloseSetting, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return CloseSettingNoSetting, err
	}
	if buf[0] > uint8(CloseSettingDontCloseOnExit) {
		return CloseSettingNoSetting, &UnknownEnumValueError{Type: "CloseSetting", Value: uint64(buf[0])}
	}
	return CloseSetting(buf[0]), nil
}

// IconFlags holds an Icon entry's flag set.
type IconFlags uint8

// IconFlags bits.
const (
	IconFlagNeverUninstall IconFlags = 1 << iota
	IconFlagCreateOnlyIfFileExists
	IconFlagUseAppPaths
	IconFlagFolderShortcut
	IconFlagExcludeFromShowInNewInstall
	IconFlagPreventPinning
	IconFlagHasAppUserModelToastActivatorClsid
	IconFlagRunMinimized
)

// Has reports whether flag is set.
func (f IconFlags) Has(flag IconFlags) bool { return f&flag != 0 }

// Icon is one [Icons] section entry: a shortcut Setup creates, typically
// in the Start Menu.
type Icon struct {
	Name                             string
	Filename                         string
	Parameters                       string
	WorkingDirectory                 string
	File                             string
	Comment                          string
	Condition                        Condition
	AppUserModelID                   string
	AppUserModelToastActivatorClsid string
	Index                            int32
	ShowCommand                      int32
	CloseOnExit                      CloseSetting
	Hotkey                           uint16
	Flags                            IconFlags
}

func readIcon(r io.Reader, codepage encoding.Encoding, version InnoVersion) (Icon, error) {
	br := newByteReader(r)
	icon := Icon{ShowCommand: 1}
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil {
			return icon, err
		}
	}

	if icon.Name, err = br.ReadDecodedPascalString(codepage); err != nil {
		return icon, err
	}
	if icon.Filename, err = br.ReadDecodedPascalString(codepage); err != nil {
		return icon, err
	}
	if icon.Parameters, err = br.ReadDecodedPascalString(codepage); err != nil {
		return icon, err
	}
	if icon.WorkingDirectory, err = br.ReadDecodedPascalString(codepage); err != nil {
		return icon, err
	}
	if icon.File, err = br.ReadDecodedPascalString(codepage); err != nil {
		return icon, err
	}
	if icon.Comment, err = br.ReadDecodedPascalString(codepage); err != nil {
		return icon, err
	}

	if icon.Condition, err = readCondition(br.r, codepage, version); err != nil {
		return icon, err
	}

	if version.AtLeast(5, 3, 5) {
		if icon.AppUserModelID, err = br.ReadDecodedPascalString(codepage); err != nil {
			return icon, err
		}
	}

	if version.AtLeast(6, 1, 0) {
		buf, err := br.ReadBytes(16)
		if err != nil {
			return icon, err
		}
		if icon.AppUserModelToastActivatorClsid, err = decodeString(buf, codepage); err != nil {
			return icon, err
		}
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return icon, err
	}

	if icon.Index, err = br.ReadInt32(); err != nil {
		return icon, err
	}

	if version.AtLeast(1, 3, 24) {
		if icon.ShowCommand, err = br.ReadInt32(); err != nil {
			return icon, err
		}
	}

	if version.AtLeast(1, 3, 15) {
		if icon.CloseOnExit, err = readCloseSetting(br.r); err != nil {
			return icon, err
		}
	}

	if version.AtLeast(2, 0, 7) {
		if icon.Hotkey, err = br.ReadUint16(); err != nil {
			return icon, err
		}
	}

	fr := NewFlagReader(br)
	fr.Add(uint64(IconFlagNeverUninstall))
	fr.AddIf(version.Before(1, 3, 26), uint64(IconFlagRunMinimized))
	fr.Add(uint64(IconFlagCreateOnlyIfFileExists))
	fr.Add(uint64(IconFlagUseAppPaths))
	fr.AddIf(version.AtLeastRev(5, 0, 3, 0) && version.BeforeRev(6, 3, 0, 0), uint64(IconFlagFolderShortcut))
	fr.AddIf(version.AtLeast(5, 4, 2), uint64(IconFlagExcludeFromShowInNewInstall))
	fr.AddIf(version.AtLeast(5, 5, 0), uint64(IconFlagPreventPinning))
	fr.AddIf(version.AtLeast(6, 1, 0), uint64(IconFlagHasAppUserModelToastActivatorClsid))
	flags, err := fr.Finalize()
	if err != nil {
		return icon, err
	}
	icon.Flags = IconFlags(flags)

	return icon, nil
}
