// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"bytes"

	"github.com/saferwall/inno/internal/pe"
)

// setupLoaderSignatureLen is the length, in bytes, of a setup-loader
// signature.
const setupLoaderSignatureLen = 12

// SetupLoaderSignature is the magic byte sequence at the start of the
// setup-loader table that identifies which Inno Setup loader revision
// wrote it.
type SetupLoaderSignature [setupLoaderSignatureLen]byte

type knownSignature struct {
	sig     SetupLoaderSignature
	version InnoVersion
}

// knownSetupLoaderSignatures are the modern (PE-resource-based) loader
// signatures, oldest first.
var knownSetupLoaderSignatures = []knownSignature{
	{sig(sigBytes("rDlPtS02\x87eVx")), NewInnoVersion(1, 2, 10, 0)},
	{sig(sigBytes("rDlPtS04\x87eVx")), NewInnoVersion(4, 0, 0, 0)},
	{sig(sigBytes("rDlPtS05\x87eVx")), NewInnoVersion(4, 0, 3, 0)},
	{sig(sigBytes("rDlPtS06\x87eVx")), NewInnoVersion(4, 0, 10, 0)},
	{sig(sigBytes("rDlPtS07\x87eVx")), NewInnoVersion(4, 1, 6, 0)},
	{sig(sigBytes("rDlPtS\xCD\xE6\xD7{\x0B*")), NewInnoVersion(5, 1, 5, 0)},
	{sig(sigBytes("nS5W7dT\x83\xAA\x1B\x0Fj")), NewInnoVersion(5, 1, 5, 0)},
}

// knownLegacySetupLoaderSignatures are the pre-2.0 signatures read
// directly from the legacy offset table rather than a PE resource.
var knownLegacySetupLoaderSignatures = []knownSignature{
	{sig(sigBytes("i1.2.10--16\x1A")), NewInnoVersionWithVariant(1, 2, 10, 0, VariantBits16)},
	{sig(sigBytes("i1.2.10--32\x1A")), NewInnoVersion(1, 2, 10, 0)},
}

func sigBytes(s string) []byte { return []byte(s) }

func sig(b []byte) SetupLoaderSignature {
	var s SetupLoaderSignature
	copy(s[:], b)
	return s
}

// IsKnown reports whether s matches one of the recognized modern
// signatures.
func (s SetupLoaderSignature) IsKnown() bool {
	_, ok := s.Version()
	return ok
}

// Version returns the Inno Setup version associated with s, if known.
func (s SetupLoaderSignature) Version() (InnoVersion, bool) {
	for _, k := range knownSetupLoaderSignatures {
		if k.sig == s {
			return k.version, true
		}
	}
	for _, k := range knownLegacySetupLoaderSignatures {
		if k.sig == s {
			return k.version, true
		}
	}
	return InnoVersion{}, false
}

// setupLoaderOffsetMagic is the 4-byte "Inno" magic preceding the legacy
// offset table.
var setupLoaderOffsetMagic = [4]byte{'I', 'n', 'n', 'o'}

// setupLoaderOffset is the legacy (pre-5.1.5) pointer to the setup loader
// table, stored at a fixed file offset.
type setupLoaderOffset struct {
	Magic          [4]byte
	TableOffset    uint32
	NotTableOffset uint32
}

// exeModeOffset is the fixed file offset of the legacy setup loader
// offset header.
const exeModeOffset = 0x30

// tableResourceID is the PE resource name ID under which modern Inno
// Setup installers store the setup-loader table, as an RT_RCDATA
// resource.
const tableResourceID = 11111

func readSetupLoaderOffset(data []byte) (setupLoaderOffset, error) {
	var off setupLoaderOffset
	if len(data) < exeModeOffset+12 {
		return off, ErrTruncatedStream
	}
	r := newByteReader(bytes.NewReader(data[exeModeOffset:]))
	magic, err := r.ReadBytes(4)
	if err != nil {
		return off, err
	}
	copy(off.Magic[:], magic)
	if off.TableOffset, err = r.ReadUint32(); err != nil {
		return off, err
	}
	if off.NotTableOffset, err = r.ReadUint32(); err != nil {
		return off, err
	}
	if off.Magic != setupLoaderOffsetMagic || off.TableOffset != ^off.NotTableOffset {
		return off, ErrNotInnoFile
	}
	return off, nil
}

// SetupLoader is the setup-loader table embedded in every Inno Setup
// installer executable: a small, CRC32-checked record giving the
// installer's Inno Setup version and the file offsets of its other
// embedded data blocks (setup-0.bin, setup-1.bin, and the compressed
// setup.e32 stub for old, non-PE-resource installers).
type SetupLoader struct {
	Signature SetupLoaderSignature
	Version   InnoVersion
	Revision  uint32

	MinimumSetupExeSize int64
	ExeOffset           int64
	ExeCompressedSize   uint32
	ExeUncompressedSize uint32
	ExeChecksum         Checksum

	MessageOffset uint32
	HeaderOffset  int64
	DataOffset    int64

	ReservedPadding uint32
}

// ReadSetupLoader locates and parses the setup-loader table embedded in
// an Inno Setup installer's PE image. It first tries the legacy fixed
// offset used before Inno Setup 5.1.5, then falls back to the modern
// RT_RCDATA resource lookup.
func ReadSetupLoader(data []byte) (*SetupLoader, error) {
	if off, err := readSetupLoaderOffset(data); err == nil {
		if int(off.TableOffset) < len(data) {
			if loader, err := parseSetupLoaderTable(data[off.TableOffset:]); err == nil {
				return loader, nil
			}
		}
	}
	return readSetupLoaderFromResource(data)
}

func readSetupLoaderFromResource(data []byte) (*SetupLoader, error) {
	f, err := pe.New(data, nil)
	if err != nil {
		return nil, ErrNotInnoFile
	}
	offset, size, err := f.FindResource(pe.RTRCData, tableResourceID)
	if err != nil {
		return nil, ErrNotInnoFile
	}
	end := offset + size
	if end > uint32(len(data)) {
		return nil, ErrTruncatedStream
	}
	return parseSetupLoaderTable(data[offset:end])
}

func parseSetupLoaderTable(data []byte) (*SetupLoader, error) {
	inner := bytes.NewReader(data)
	crc := newCrc32Reader(inner)
	r := newByteReader(crc)
	// raw reads the underlying stream directly, bypassing CRC32
	// accumulation, for the two fields that predate the checksum.
	raw := newByteReader(inner)

	sigBuf, err := r.ReadBytes(setupLoaderSignatureLen)
	if err != nil {
		return nil, err
	}
	var signature SetupLoaderSignature
	copy(signature[:], sigBuf)

	version, ok := signature.Version()
	if !ok {
		return nil, ErrUnknownLoaderSignature
	}

	loader := &SetupLoader{Signature: signature, Version: version}

	if version.AtLeast(5, 1, 5) {
		if loader.Revision, err = r.ReadUint32(); err != nil {
			return nil, err
		}
	}

	readSizeField := func() (int64, error) {
		if loader.Revision >= 2 {
			v, err := r.ReadUint64()
			return int64(v), err
		}
		v, err := r.ReadUint32()
		return int64(v), err
	}

	if loader.MinimumSetupExeSize, err = readSizeField(); err != nil {
		return nil, err
	}
	if loader.ExeOffset, err = readSizeField(); err != nil {
		return nil, err
	}

	if !version.AtLeast(4, 1, 6) {
		if loader.ExeCompressedSize, err = r.ReadUint32(); err != nil {
			return nil, err
		}
	}
	if loader.ExeUncompressedSize, err = r.ReadUint32(); err != nil {
		return nil, err
	}

	if version.AtLeast(4, 0, 3) {
		if loader.ExeChecksum, err = readCRC32Checksum(r); err != nil {
			return nil, err
		}
	} else {
		if loader.ExeChecksum, err = readAdler32Checksum(r); err != nil {
			return nil, err
		}
	}

	if version.Major < 4 {
		// Pre-4.0, the message resource offset was read straight from the
		// underlying reader, bypassing the CRC32 accumulation: the field
		// was dropped from the checksum before version 4 existed.
		if loader.MessageOffset, err = raw.ReadUint32(); err != nil {
			return nil, err
		}
	}

	if loader.HeaderOffset, err = readSizeField(); err != nil {
		return nil, err
	}
	if loader.DataOffset, err = readSizeField(); err != nil {
		return nil, err
	}

	if loader.Revision >= 2 {
		if loader.ReservedPadding, err = r.ReadUint32(); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(4, 0, 10) {
		expected, err := raw.ReadUint32()
		if err != nil {
			return nil, err
		}
		actual := crc.Sum32()
		if actual != expected {
			return nil, &CrcChecksumMismatchError{
				Location: "Setup Loader",
				Actual:   actual,
				Expected: expected,
			}
		}
	}

	return loader, nil
}
