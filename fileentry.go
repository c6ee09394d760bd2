// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// FileFlags holds a FileEntry's version-gated flag set. It spans more than
// 32 bits (DOWNLOAD and EXTRACT_ARCHIVE, added in 6.5.0, are bits 32-33;
// IS_README_FILE, obsolete since 2.0, is bit 63), so it is backed by a
// uint64 like the generic FlagReader it is read with.
type FileFlags uint64

// FileFlags bits.
const (
	FileFlagConfirmOverwrite FileFlags = 1 << iota
	FileFlagNeverUninstall
	FileFlagRestartReplace
	FileFlagDeleteAfterInstall
	FileFlagRegisterServer
	FileFlagRegisterTypeLib
	FileFlagSharedFile
	FileFlagCompareTimeStamp
	FileFlagFontIsNotTrueType
	FileFlagSkipIfSourceDoesntExist
	FileFlagOverwriteReadOnly
	FileFlagOverwriteSameVersion
	FileFlagCustomDestName
	FileFlagOnlyIfDestFileExists
	FileFlagNoRegError
	FileFlagUninsRestartDelete
	FileFlagOnlyIfDoesntExist
	FileFlagIgnoreVersion
	FileFlagPromptIfOlder
	FileFlagDontCopy
	FileFlagUninsRemoveReadOnly
	FileFlagRecurseSubDirsExternal
	FileFlagReplaceSameVersionIfContentsDiffer
	FileFlagDontVerifyChecksum
	FileFlagUninsNoSharedFilePrompt
	FileFlagCreateAllSubDirs
	FileFlagBits32
	FileFlagBits64
	FileFlagExternalSizePreset
	FileFlagSetNTFSCompression
	FileFlagUnsetNTFSCompression
	FileFlagGacInstall
	FileFlagDownload
	FileFlagExtractArchive
)

// FileFlagIsReadmeFile is obsolete since Inno Setup 2.0 and occupies the
// bit position the compiler originally gave it rather than the next free
// one in the sequence above.
const FileFlagIsReadmeFile FileFlags = 1 << 63

// Has reports whether flag is set.
func (f FileFlags) Has(flag FileFlags) bool { return f&flag != 0 }

// FileType distinguishes a FileEntry's role in the install, beyond being
// an ordinary user file.
type FileType uint8

// FileType values.
const (
	FileTypeUserFile FileType = iota
	FileTypeUninstallExe
	FileTypeRegSvrExe
)

func (t FileType) String() string {
	switch t {
	case FileTypeUserFile:
		return "User file"
	case FileTypeUninstallExe:
		return "Uninstall exe"
	case FileTypeRegSvrExe:
		return "Reg-svr exe"
	default:
		return "Unknown"
	}
}

func readFileType(r io.Reader) (FileType, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileTypeUserFile, err
	}
	if buf[0] > uint8(FileTypeRegSvrExe) {
		return FileTypeUserFile, &UnknownEnumValueError{Type: "FileType", Value: uint64(buf[0])}
	}
	return FileType(buf[0]), nil
}

// FileCopyMode is the pre-3.0.5 encoding of a file's overwrite behavior,
// superseded by the more granular FileFlags bits it maps onto.
type FileCopyMode uint8

// FileCopyMode values.
const (
	FileCopyModeNormal FileCopyMode = iota
	FileCopyModeIfDoesntExist
	FileCopyModeAlwaysOverwrite
	FileCopyModeAlwaysSkipIfSameOrOlder
)

func readFileCopyMode(r io.Reader) (FileCopyMode, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileCopyModeNormal, err
	}
	if buf[0] > uint8(FileCopyModeAlwaysSkipIfSameOrOlder) {
		return FileCopyModeNormal, &UnknownEnumValueError{Type: "FileCopyMode", Value: uint64(buf[0])}
	}
	return FileCopyMode(buf[0]), nil
}

// Flags converts a legacy FileCopyMode into the FileFlags bits it was
// replaced by.
func (m FileCopyMode) Flags() FileFlags {
	switch m {
	case FileCopyModeIfDoesntExist:
		return FileFlagOnlyIfDoesntExist | FileFlagPromptIfOlder
	case FileCopyModeAlwaysOverwrite:
		return FileFlagIgnoreVersion | FileFlagPromptIfOlder
	case FileCopyModeAlwaysSkipIfSameOrOlder:
		return 0
	default:
		return FileFlagPromptIfOlder
	}
}

// FileVerificationType identifies how a downloaded file's integrity is
// checked, for the remote-file-download feature added in 6.5.0.
type FileVerificationType uint8

// FileVerificationType values.
const (
	FileVerificationNone FileVerificationType = iota
	FileVerificationHash
	FileVerificationISSig
)

func (t FileVerificationType) String() string {
	switch t {
	case FileVerificationNone:
		return "None"
	case FileVerificationHash:
		return "Hash"
	case FileVerificationISSig:
		return "IS Signature"
	default:
		return "Unknown"
	}
}

func readFileVerificationType(r io.Reader) (FileVerificationType, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileVerificationNone, err
	}
	if buf[0] > uint8(FileVerificationISSig) {
		return FileVerificationNone, &UnknownEnumValueError{Type: "FileVerificationType", Value: uint64(buf[0])}
	}
	return FileVerificationType(buf[0]), nil
}

// FileVerification carries the data needed to validate a downloaded file
// (6.5.0+ DOWNLOAD flag) before it is used.
type FileVerification struct {
	ISSigAllowedKeys string
	SHA256           [32]byte
	Type             FileVerificationType
}

func readFileVerification(r io.Reader, codepage encoding.Encoding) (FileVerification, error) {
	br := newByteReader(r)
	var v FileVerification
	var err error

	if v.ISSigAllowedKeys, err = br.ReadDecodedPascalString(codepage); err != nil {
		return v, err
	}

	digest, err := br.ReadBytes(32)
	if err != nil {
		return v, err
	}
	copy(v.SHA256[:], digest)

	if v.Type, err = readFileVerificationType(br.r); err != nil {
		return v, err
	}

	return v, nil
}

// FileEntry is one [Files] section entry: a single source file or wildcard
// copied, extracted, or downloaded during install.
type FileEntry struct {
	Source                 string
	Destination            string
	InstallFontName        string
	StrongAssemblyName     string
	Condition              Condition
	Excludes               string
	DownloadISSigSource    string
	DownloadUserName       string
	DownloadPassword       string
	ExtractArchivePassword string
	Verification           *FileVerification
	// Location indexes into the FileLocation table.
	Location     uint32
	Attributes   uint32
	ExternalSize uint64
	// Permission indexes into the Permission table, or -1 for none.
	Permission int16
	Flags      FileFlags
	Type       FileType
}

func readFileEntry(r io.Reader, codepage encoding.Encoding, version InnoVersion) (FileEntry, error) {
	br := newByteReader(r)
	f := FileEntry{Permission: -1}
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil {
			return f, err
		}
	}

	if f.Source, err = br.ReadDecodedPascalString(codepage); err != nil {
		return f, err
	}
	if f.Destination, err = br.ReadDecodedPascalString(codepage); err != nil {
		return f, err
	}
	if f.InstallFontName, err = br.ReadDecodedPascalString(codepage); err != nil {
		return f, err
	}

	if version.AtLeast(5, 2, 5) {
		if f.StrongAssemblyName, err = br.ReadDecodedPascalString(codepage); err != nil {
			return f, err
		}
	}

	if f.Condition, err = readCondition(br.r, codepage, version); err != nil {
		return f, err
	}

	if version.AtLeast(6, 5, 0) {
		if f.Excludes, err = br.ReadDecodedPascalString(codepage); err != nil {
			return f, err
		}
		if f.DownloadISSigSource, err = br.ReadDecodedPascalString(codepage); err != nil {
			return f, err
		}
		if f.DownloadUserName, err = br.ReadDecodedPascalString(codepage); err != nil {
			return f, err
		}
		if f.DownloadPassword, err = br.ReadDecodedPascalString(codepage); err != nil {
			return f, err
		}
		if f.ExtractArchivePassword, err = br.ReadDecodedPascalString(codepage); err != nil {
			return f, err
		}
		verification, err := readFileVerification(br.r, codepage)
		if err != nil {
			return f, err
		}
		f.Verification = &verification
	}

	if _, err = readWindowsVersionRange(br.r, version); err != nil {
		return f, err
	}

	if f.Location, err = br.ReadUint32(); err != nil {
		return f, err
	}
	if f.Attributes, err = br.ReadUint32(); err != nil {
		return f, err
	}

	if version.AtLeast(4, 0, 0) {
		if f.ExternalSize, err = br.ReadUint64(); err != nil {
			return f, err
		}
	} else {
		size, err := br.ReadUint32()
		if err != nil {
			return f, err
		}
		f.ExternalSize = uint64(size)
	}

	if version.Before(3, 0, 5) {
		mode, err := readFileCopyMode(br.r)
		if err != nil {
			return f, err
		}
		f.Flags |= mode.Flags()
	}

	if version.AtLeast(4, 1, 0) {
		v, err := br.ReadUint16()
		if err != nil {
			return f, err
		}
		f.Permission = int16(v)
	}

	isx := version.Variant.IsISX()
	fr := NewFlagReader(br)
	fr.Add(uint64(FileFlagConfirmOverwrite))
	fr.Add(uint64(FileFlagNeverUninstall))
	fr.Add(uint64(FileFlagRestartReplace))
	fr.Add(uint64(FileFlagDeleteAfterInstall))
	fr.Add(uint64(FileFlagRegisterServer))
	fr.Add(uint64(FileFlagRegisterTypeLib))
	fr.Add(uint64(FileFlagSharedFile))
	fr.AddIf(version.Before(2, 0, 0) && !isx, uint64(FileFlagIsReadmeFile))
	fr.Add(uint64(FileFlagCompareTimeStamp))
	fr.Add(uint64(FileFlagFontIsNotTrueType))
	fr.AddIf(version.AtLeast(1, 2, 5), uint64(FileFlagSkipIfSourceDoesntExist))
	fr.AddIf(version.AtLeast(1, 2, 6), uint64(FileFlagOverwriteReadOnly))
	fr.AddIf(version.AtLeast(1, 3, 21), uint64(FileFlagOverwriteSameVersion))
	fr.AddIf(version.AtLeast(1, 3, 21), uint64(FileFlagCustomDestName))
	fr.AddIf(version.AtLeast(1, 3, 25), uint64(FileFlagOnlyIfDestFileExists))
	fr.AddIf(version.AtLeast(2, 0, 5), uint64(FileFlagNoRegError))
	fr.AddIf(version.AtLeast(3, 0, 1), uint64(FileFlagUninsRestartDelete))
	fr.AddIf(version.AtLeast(3, 0, 5), uint64(FileFlagOnlyIfDoesntExist))
	fr.AddIf(version.AtLeast(3, 0, 5), uint64(FileFlagIgnoreVersion))
	fr.AddIf(version.AtLeast(3, 0, 5), uint64(FileFlagPromptIfOlder))
	fr.AddIf(version.AtLeast(4, 0, 0) || (isx && version.AtLeast(3, 0, 6)), uint64(FileFlagDontCopy))
	fr.AddIf(version.AtLeast(4, 0, 5), uint64(FileFlagUninsRemoveReadOnly))
	fr.AddIf(version.AtLeast(4, 1, 8), uint64(FileFlagRecurseSubDirsExternal))
	fr.AddIf(version.AtLeast(4, 2, 1), uint64(FileFlagReplaceSameVersionIfContentsDiffer))
	fr.AddIf(version.AtLeast(4, 2, 5), uint64(FileFlagDontVerifyChecksum))
	fr.AddIf(version.AtLeast(5, 0, 3), uint64(FileFlagUninsNoSharedFilePrompt))
	fr.AddIf(version.AtLeast(5, 1, 0), uint64(FileFlagCreateAllSubDirs))
	fr.AddIf(version.AtLeast(5, 1, 2), uint64(FileFlagBits32))
	fr.AddIf(version.AtLeast(5, 1, 2), uint64(FileFlagBits64))
	fr.AddIf(version.AtLeast(5, 2, 0), uint64(FileFlagExternalSizePreset))
	fr.AddIf(version.AtLeast(5, 2, 0), uint64(FileFlagSetNTFSCompression))
	fr.AddIf(version.AtLeast(5, 2, 0), uint64(FileFlagUnsetNTFSCompression))
	fr.AddIf(version.AtLeast(5, 2, 5), uint64(FileFlagGacInstall))
	fr.AddIf(version.AtLeast(6, 5, 0), uint64(FileFlagDownload))
	fr.AddIf(version.AtLeast(6, 5, 0), uint64(FileFlagExtractArchive))

	var flags uint64
	if version.AtLeast(6, 7, 0) {
		flags, err = fr.FinalizeMinBytes(8)
	} else {
		flags, err = fr.Finalize()
	}
	if err != nil {
		return f, err
	}
	f.Flags |= FileFlags(flags)

	if f.Type, err = readFileType(br.r); err != nil {
		return f, err
	}

	return f, nil
}
