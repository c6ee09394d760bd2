// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "io"

// Compression is the default compression algorithm an installer declares
// for its embedded files, as recorded in the setup header. It is
// distinct from CompressionMethod, which describes how a single stream
// was actually framed.
type Compression uint8

// Compression values.
const (
	CompressionStored Compression = iota
	CompressionZlib
	CompressionBZip2
	CompressionLZMA1
	CompressionLZMA2
	CompressionUnknown Compression = 0xFF
)

func (c Compression) String() string {
	switch c {
	case CompressionStored:
		return "Stored"
	case CompressionZlib:
		return "Zlib"
	case CompressionBZip2:
		return "BZip2"
	case CompressionLZMA1:
		return "LZMA1"
	case CompressionLZMA2:
		return "LZMA2"
	default:
		return "Unknown"
	}
}

// FromHeaderFlagsCompression derives the default Compression from the
// header flags, for versions old enough (<4.1.5) to record only whether
// BZip2 was used rather than an explicit compression field.
func FromHeaderFlagsCompression(flags HeaderFlags) Compression {
	if flags.Has(HeaderFlagBZipUsed) {
		return CompressionBZip2
	}
	return CompressionZlib
}

func readCompression(r io.Reader) (Compression, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return CompressionUnknown, err
	}
	c := Compression(buf[0])
	switch c {
	case CompressionStored, CompressionZlib, CompressionBZip2, CompressionLZMA1, CompressionLZMA2:
		return c, nil
	default:
		return CompressionUnknown, nil
	}
}
