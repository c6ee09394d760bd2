// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"
	"time"
)

// Encryption is the cipher, if any, applied to a Chunk's bytes before
// compression.
type Encryption uint8

// Encryption values.
const (
	EncryptionPlaintext Encryption = iota
	EncryptionArc4MD5
	EncryptionArc4Sha1
	EncryptionXChaCha20
)

func (e Encryption) String() string {
	switch e {
	case EncryptionPlaintext:
		return "Plaintext"
	case EncryptionArc4MD5:
		return "Arc4Md5"
	case EncryptionArc4Sha1:
		return "Arc4Sha1"
	case EncryptionXChaCha20:
		return "XChaCha20"
	default:
		return "Unknown"
	}
}

// Chunk describes the compressed, and possibly encrypted, span of the
// installer's payload data that a FileLocation's bytes live in. Multiple
// FileLocation entries commonly share one Chunk, each at its own
// sub-offset, since Inno Setup solid-compresses files together.
type Chunk struct {
	FirstSlice   uint32
	LastSlice    uint32
	StartOffset  uint64
	SubOffset    uint64
	OriginalSize uint64
	Compression  Compression
	Encryption   Encryption
}

// CompressionFilter is an extra reversible transform Inno Setup applies
// to a file's bytes before compression to improve its compression ratio.
type CompressionFilter uint8

// CompressionFilter values.
const (
	CompressionFilterNone CompressionFilter = iota
	CompressionFilterInstructionFilter4108
	CompressionFilterInstructionFilter5200
	CompressionFilterInstructionFilter5309
	CompressionFilterZlib
)

func (f CompressionFilter) String() string {
	switch f {
	case CompressionFilterNone:
		return "NoFilter"
	case CompressionFilterInstructionFilter4108:
		return "InstructionFilter4108"
	case CompressionFilterInstructionFilter5200:
		return "InstructionFilter5200"
	case CompressionFilterInstructionFilter5309:
		return "InstructionFilter5309"
	case CompressionFilterZlib:
		return "ZlibFilter"
	default:
		return "Unknown"
	}
}

// SignMode controls whether Inno Setup digitally signs the extracted
// file with Authenticode after installing it.
type SignMode uint8

// SignMode values.
const (
	SignModeNoSetting SignMode = iota
	SignModeYes
	SignModeOnce
	SignModeCheck
)

func (s SignMode) String() string {
	switch s {
	case SignModeNoSetting:
		return "No setting"
	case SignModeYes:
		return "Yes"
	case SignModeOnce:
		return "Once"
	case SignModeCheck:
		return "Check"
	default:
		return "Unknown"
	}
}

func readSignMode(r io.Reader) (SignMode, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return SignModeNoSetting, err
	}
	if buf[0] > uint8(SignModeCheck) {
		return SignModeNoSetting, &UnknownEnumValueError{Type: "SignMode", Value: uint64(buf[0])}
	}
	return SignMode(buf[0]), nil
}

// signModeFromFlags derives a SignMode from the legacy Sign/SignOnce
// flag pair, for versions before the dedicated SignMode field existed.
func signModeFromFlags(flags FileLocationFlags) SignMode {
	switch {
	case flags.Has(FileLocationFlagSignOnce):
		return SignModeOnce
	case flags.Has(FileLocationFlagSign):
		return SignModeYes
	default:
		return SignModeNoSetting
	}
}

// FileLocationFlags holds a FileLocation's version-gated flag set.
type FileLocationFlags uint16

// FileLocationFlags bits.
const (
	FileLocationFlagVersionInfoValid FileLocationFlags = 1 << iota
	FileLocationFlagVersionInfoNotValid
	FileLocationFlagTimestampInUTC
	FileLocationFlagIsUninstallerExe
	FileLocationFlagCallInstructionOptimized
	FileLocationFlagTouch
	FileLocationFlagChunkEncrypted
	FileLocationFlagChunkCompressed
	FileLocationFlagSolidBreak
	FileLocationFlagSign
	FileLocationFlagSignOnce
	// FileLocationFlagBZipped is obsolete, kept only to mirror the bit
	// position Inno Setup historically wrote.
	FileLocationFlagBZipped FileLocationFlags = 1 << 15
)

// Has reports whether flag is set.
func (f FileLocationFlags) Has(flag FileLocationFlags) bool { return f&flag != 0 }

// FileLocation is one entry of the secondary compressed stream's
// file-location table: the physical placement, checksum and transform
// chain needed to extract a single embedded file from its Chunk.
type FileLocation struct {
	Chunk             Chunk
	Offset            uint64
	Size              uint64
	UncompressedSize  uint64
	Checksum          Checksum
	CompressionFilter CompressionFilter
	FileTime          uint64
	FileVersion       uint64
	Flags             FileLocationFlags
	SignMode          SignMode
}

func readFileLocation(r io.Reader, header Header, version InnoVersion) (FileLocation, error) {
	br := newByteReader(r)
	var loc FileLocation
	var err error

	if loc.Chunk.FirstSlice, err = br.ReadUint32(); err != nil {
		return loc, err
	}
	if loc.Chunk.LastSlice, err = br.ReadUint32(); err != nil {
		return loc, err
	}

	if version.Before(4, 0, 0) && loc.Chunk.FirstSlice >= 1 && loc.Chunk.LastSlice >= 1 {
		loc.Chunk.FirstSlice--
		loc.Chunk.LastSlice--
	}

	if version.AtLeastRev(6, 5, 2, 0) {
		if loc.Chunk.SubOffset, err = br.ReadUint64(); err != nil {
			return loc, err
		}
	} else {
		v, err := br.ReadUint32()
		if err != nil {
			return loc, err
		}
		loc.Chunk.SubOffset = uint64(v)
	}
	loc.Chunk.StartOffset = loc.Chunk.SubOffset

	if version.AtLeast(4, 0, 1) {
		if loc.Offset, err = br.ReadUint64(); err != nil {
			return loc, err
		}
	}

	if version.AtLeast(4, 0, 0) {
		if loc.Size, err = br.ReadUint64(); err != nil {
			return loc, err
		}
		if loc.Chunk.OriginalSize, err = br.ReadUint64(); err != nil {
			return loc, err
		}
	} else {
		sz, err := br.ReadUint32()
		if err != nil {
			return loc, err
		}
		loc.Size = uint64(sz)
		osz, err := br.ReadUint32()
		if err != nil {
			return loc, err
		}
		loc.Chunk.OriginalSize = uint64(osz)
	}
	loc.UncompressedSize = loc.Size

	switch {
	case version.AtLeast(6, 4, 0):
		loc.Checksum, err = readSha256Checksum(br)
	case version.AtLeastRev(5, 3, 9, 0):
		loc.Checksum, err = readSha1Checksum(br)
	case version.AtLeast(4, 2, 0):
		loc.Checksum, err = readMD5Checksum(br)
	case version.AtLeastRev(4, 0, 1, 0):
		loc.Checksum, err = readCRC32Checksum(br)
	default:
		loc.Checksum, err = readAdler32Checksum(br)
	}
	if err != nil {
		return loc, err
	}

	if version.Variant.Is16Bit() {
		fatTime, err := br.ReadUint16()
		if err != nil {
			return loc, err
		}
		fatDate, err := br.ReadUint16()
		if err != nil {
			return loc, err
		}
		loc.FileTime = dosDateTimeToFileTime(fatDate, fatTime)
	} else {
		if loc.FileTime, err = br.ReadUint64(); err != nil {
			return loc, err
		}
	}

	versionMS, err := br.ReadUint32()
	if err != nil {
		return loc, err
	}
	versionLS, err := br.ReadUint32()
	if err != nil {
		return loc, err
	}
	loc.FileVersion = uint64(versionMS)<<32 | uint64(versionLS)

	fr := NewFlagReader(br)
	fr.Add(uint64(FileLocationFlagVersionInfoValid))
	fr.AddIf(version.Before(6, 4, 3), uint64(FileLocationFlagVersionInfoNotValid))
	fr.AddIf(version.AtLeastRev(2, 0, 17, 0) && version.BeforeRev(4, 0, 1, 0), uint64(FileLocationFlagBZipped))
	fr.AddIf(version.AtLeast(4, 0, 10), uint64(FileLocationFlagTimestampInUTC))
	fr.AddIf(version.AtLeastRev(4, 2, 0, 0) && version.BeforeRev(6, 4, 3, 0), uint64(FileLocationFlagIsUninstallerExe))
	fr.AddIf(version.AtLeast(4, 1, 8), uint64(FileLocationFlagCallInstructionOptimized))
	fr.AddIf(version.AtLeastRev(4, 2, 0, 0) && version.BeforeRev(6, 4, 3, 0), uint64(FileLocationFlagTouch))
	fr.AddIf(version.AtLeast(4, 2, 2), uint64(FileLocationFlagChunkEncrypted))
	fr.AddIf(version.AtLeast(4, 2, 5), uint64(FileLocationFlagChunkCompressed))
	fr.AddIf(version.AtLeastRev(5, 1, 13, 0) && version.BeforeRev(6, 4, 3, 0), uint64(FileLocationFlagSolidBreak))
	if version.AtLeast(5, 5, 7) && version.Before(6, 3, 0) {
		fr.Add(uint64(FileLocationFlagSign))
		fr.Add(uint64(FileLocationFlagSignOnce))
	}
	flags, err := fr.Finalize()
	if err != nil {
		return loc, err
	}
	loc.Flags = FileLocationFlags(flags)

	if version.Before(4, 2, 5) {
		loc.Flags |= FileLocationFlagChunkCompressed
	}

	if version.AtLeastRev(6, 3, 0, 0) && version.BeforeRev(6, 4, 3, 0) {
		if loc.SignMode, err = readSignMode(br.r); err != nil {
			return loc, err
		}
	} else {
		loc.SignMode = signModeFromFlags(loc.Flags)
	}

	if loc.Flags.Has(FileLocationFlagChunkCompressed) {
		loc.Chunk.Compression = header.Compression
	} else {
		loc.Chunk.Compression = CompressionStored
	}

	if loc.Flags.Has(FileLocationFlagBZipped) {
		loc.Flags |= FileLocationFlagChunkCompressed
		loc.Chunk.Compression = CompressionBZip2
	}

	if loc.Flags.Has(FileLocationFlagChunkEncrypted) {
		switch {
		case version.AtLeast(6, 4, 0):
			loc.Chunk.Encryption = EncryptionXChaCha20
		case version.AtLeastRev(5, 3, 9, 0):
			loc.Chunk.Encryption = EncryptionArc4Sha1
		default:
			loc.Chunk.Encryption = EncryptionArc4MD5
		}
	} else {
		loc.Chunk.Encryption = EncryptionPlaintext
	}

	if loc.Flags.Has(FileLocationFlagCallInstructionOptimized) {
		switch {
		case version.Before(5, 2, 0):
			loc.CompressionFilter = CompressionFilterInstructionFilter4108
		case version.BeforeRev(5, 3, 9, 0):
			loc.CompressionFilter = CompressionFilterInstructionFilter5200
		default:
			loc.CompressionFilter = CompressionFilterInstructionFilter5309
		}
	} else {
		loc.CompressionFilter = CompressionFilterNone
	}

	return loc, nil
}

// fileTimeEpochDelta is the number of 100ns ticks between the Win32
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const fileTimeEpochDelta = 116444736000000000

// dosDateTimeToFileTime converts an MS-DOS date/time pair, as used by
// 16-bit installers, into a Win32 FILETIME value (100ns ticks since
// 1601-01-01), so FileLocation.FileTime has one consistent unit
// regardless of installer bitness.
func dosDateTimeToFileTime(date, fatTime uint16) uint64 {
	sec := int((fatTime & 0x1F) * 2)
	min := int((fatTime >> 5) & 0x3F)
	hour := int((fatTime >> 11) & 0x1F)
	day := int(date & 0x1F)
	month := int((date >> 5) & 0x0F)
	year := int((date>>9)&0x7F) + 1980

	if day == 0 || month == 0 {
		return 0
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	return uint64(t.UnixNano()/100) + fileTimeEpochDelta
}
