// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "fmt"

// ChecksumKind identifies which algorithm produced a Checksum's declared
// value. Inno Setup never recomputes these values itself; they are
// on-disk claims the installer trusts at install time.
type ChecksumKind uint8

// ChecksumKind values.
const (
	ChecksumAdler32 ChecksumKind = iota
	ChecksumCRC32
	ChecksumMD5
	ChecksumSHA1
	ChecksumSHA256
)

func (k ChecksumKind) String() string {
	switch k {
	case ChecksumAdler32:
		return "Adler32"
	case ChecksumCRC32:
		return "CRC32"
	case ChecksumMD5:
		return "MD5"
	case ChecksumSHA1:
		return "SHA1"
	case ChecksumSHA256:
		return "SHA256"
	default:
		return "Unknown"
	}
}

// Checksum is the declared checksum of a file or compressed blob, as
// recorded in an installer's header. Adler32/CRC32 values are stored
// inline; MD5/SHA1/SHA256 digests are stored raw.
type Checksum struct {
	Kind   ChecksumKind
	Value  uint32
	Digest []byte
}

// NewAdler32Checksum builds an Adler32 Checksum.
func NewAdler32Checksum(v uint32) Checksum { return Checksum{Kind: ChecksumAdler32, Value: v} }

// NewCRC32Checksum builds a CRC32 Checksum.
func NewCRC32Checksum(v uint32) Checksum { return Checksum{Kind: ChecksumCRC32, Value: v} }

// NewMD5Checksum builds an MD5 Checksum from its 16-byte digest.
func NewMD5Checksum(digest []byte) Checksum { return Checksum{Kind: ChecksumMD5, Digest: digest} }

// NewSha1Checksum builds a SHA-1 Checksum from its 20-byte digest.
func NewSha1Checksum(digest []byte) Checksum { return Checksum{Kind: ChecksumSHA1, Digest: digest} }

// NewSha256Checksum builds a SHA-256 Checksum from its 32-byte digest.
func NewSha256Checksum(digest []byte) Checksum {
	return Checksum{Kind: ChecksumSHA256, Digest: digest}
}

func (c Checksum) String() string {
	switch c.Kind {
	case ChecksumAdler32, ChecksumCRC32:
		return fmt.Sprintf("%d", c.Value)
	default:
		return fmt.Sprintf("%x", c.Digest)
	}
}

// readAdler32Checksum reads a little-endian Adler32 value.
func readAdler32Checksum(r *byteReader) (Checksum, error) {
	v, err := r.ReadUint32()
	return NewAdler32Checksum(v), err
}

// readCRC32Checksum reads a little-endian CRC32 value.
func readCRC32Checksum(r *byteReader) (Checksum, error) {
	v, err := r.ReadUint32()
	return NewCRC32Checksum(v), err
}

// readMD5Checksum reads a raw 16-byte MD5 digest.
func readMD5Checksum(r *byteReader) (Checksum, error) {
	b, err := r.ReadBytes(16)
	return NewMD5Checksum(b), err
}

// readSha1Checksum reads a raw 20-byte SHA-1 digest.
func readSha1Checksum(r *byteReader) (Checksum, error) {
	b, err := r.ReadBytes(20)
	return NewSha1Checksum(b), err
}

// readSha256Checksum reads a raw 32-byte SHA-256 digest.
func readSha256Checksum(r *byteReader) (Checksum, error) {
	b, err := r.ReadBytes(32)
	return NewSha256Checksum(b), err
}
