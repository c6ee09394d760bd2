// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"encoding/binary"
	"io"
)

// EncryptionUse records how much of an installer's embedded data is
// encrypted.
type EncryptionUse uint8

// EncryptionUse values.
const (
	EncryptionUseNone EncryptionUse = iota
	EncryptionUseFiles
	EncryptionUseFull
)

func (u EncryptionUse) String() string {
	switch u {
	case EncryptionUseNone:
		return "None"
	case EncryptionUseFiles:
		return "Files"
	case EncryptionUseFull:
		return "Full"
	default:
		return "Unknown"
	}
}

// KDFSalt is the 16-byte salt fed to the key derivation function used to
// turn a user-supplied password into the installer's decryption key.
type KDFSalt [16]byte

// EncryptionNonce seeds the per-installer XOR keystream used alongside
// the derived key.
type EncryptionNonce struct {
	RandomXorStartOffset uint64
	RandomXorFirstSlice  uint32
	RemainingRandom      [3]uint32
}

// EncryptionHeader is the record, present in every installer from Inno
// Setup 6.4 onward whether or not it encrypts anything, carrying
// everything needed to derive the decryption key from a user-supplied
// password. This package never attempts decryption itself: the header is
// surfaced purely as metadata.
//
// Its wire layout changed between Inno Setup 6.4 and 6.5: 6.5 starts the
// record with an EncryptionUse byte, reads PasswordTest last, and wraps
// the whole record in a CRC32, while 6.4 has no EncryptionUse byte
// (EncryptionUse is reported as EncryptionUseNone), reads PasswordTest
// first, and carries no checksum at all. Both layouts are preserved here
// rather than unified, since a 6.4 installer's bytes genuinely are not
// CRC-protected.
type EncryptionHeader struct {
	EncryptionUse EncryptionUse
	KDFSalt       KDFSalt
	KDFIterations uint32
	BaseNonce     EncryptionNonce
	PasswordTest  uint32
}

// ReadEncryptionHeader reads an EncryptionHeader from r, using the field
// order and checksum handling appropriate for version.
func ReadEncryptionHeader(r io.Reader, version InnoVersion) (EncryptionHeader, error) {
	var hdr EncryptionHeader

	newer := version.AtLeast(6, 5, 0)

	var expectedCRC uint32
	var crc *crc32Reader
	var br *byteReader

	if newer {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return hdr, err
		}
		expectedCRC = binary.LittleEndian.Uint32(buf[:])
		crc = newCrc32Reader(r)
		br = newByteReader(crc)
	} else {
		br = newByteReader(r)
	}

	var err error
	if newer {
		use, err2 := br.ReadUint8()
		if err2 != nil {
			return hdr, err2
		}
		hdr.EncryptionUse = EncryptionUse(use)
	} else {
		hdr.EncryptionUse = EncryptionUseNone
		if hdr.PasswordTest, err = br.ReadUint32(); err != nil {
			return hdr, err
		}
	}

	saltBytes, err := br.ReadBytes(16)
	if err != nil {
		return hdr, err
	}
	copy(hdr.KDFSalt[:], saltBytes)

	if hdr.KDFIterations, err = br.ReadUint32(); err != nil {
		return hdr, err
	}

	nonceBytes, err := br.ReadBytes(24)
	if err != nil {
		return hdr, err
	}
	hdr.BaseNonce.RandomXorStartOffset = binary.LittleEndian.Uint64(nonceBytes[0:8])
	hdr.BaseNonce.RandomXorFirstSlice = binary.LittleEndian.Uint32(nonceBytes[8:12])
	hdr.BaseNonce.RemainingRandom[0] = binary.LittleEndian.Uint32(nonceBytes[12:16])
	hdr.BaseNonce.RemainingRandom[1] = binary.LittleEndian.Uint32(nonceBytes[16:20])
	hdr.BaseNonce.RemainingRandom[2] = binary.LittleEndian.Uint32(nonceBytes[20:24])

	if newer {
		if hdr.PasswordTest, err = br.ReadUint32(); err != nil {
			return hdr, err
		}
		actualCRC := crc.Sum32()
		if actualCRC != expectedCRC {
			return hdr, &CrcChecksumMismatchError{
				Location: "Encryption header",
				Actual:   actualCRC,
				Expected: expectedCRC,
			}
		}
	}

	return hdr, nil
}
