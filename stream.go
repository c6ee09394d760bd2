// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// CompressionMethod identifies how the payload of an Inno stream was
// compressed.
type CompressionMethod uint8

// CompressionMethod values.
const (
	methodStored CompressionMethod = iota
	methodZlib
	methodLZMA1
)

func (m CompressionMethod) String() string {
	switch m {
	case methodStored:
		return "Stored"
	case methodZlib:
		return "Zlib"
	case methodLZMA1:
		return "LZMA1"
	default:
		return "Unknown"
	}
}

// compression pairs a method with the declared size, in bytes, of the
// compressed payload that follows the stream header.
type compression struct {
	Method CompressionMethod
	Size   uint32
}

// lzma1HeaderSize is the size of the raw LZMA1 filter properties Inno
// Setup writes ahead of an LZMA1-compressed stream: one byte packing
// (lc, lp, pb) followed by a 4-byte little-endian dictionary size. Unlike
// the classic .lzma container, there is no uncompressed-size field.
const lzma1HeaderSize = 5

// readLZMA1Properties reads and decodes the raw LZMA1 filter properties
// that precede an LZMA1-compressed Inno stream.
func readLZMA1Properties(r io.Reader) (lzma.Properties, uint32, error) {
	var buf [lzma1HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return lzma.Properties{}, 0, err
	}
	props, err := lzma.NewProperties(buf[0])
	if err != nil {
		return lzma.Properties{}, 0, err
	}
	dictSize := binary.LittleEndian.Uint32(buf[1:5])
	return props, dictSize, nil
}

// newLZMA1Reader builds a raw LZMA1 decompressor (no .lzma container, no
// size trailer) from the properties read via readLZMA1Properties.
func newLZMA1Reader(r io.Reader, props lzma.Properties, dictSize uint32) (io.Reader, error) {
	cfg := lzma.ReaderConfig{
		Properties:  &props,
		DictCap:     int(dictSize),
		SizeInBytes: -1,
	}
	return cfg.NewReader(r)
}

// innoStreamReader decodes one Inno stream: a short CRC32-protected header
// declaring the compression method and payload size, followed by the
// payload itself framed into CRC32-checked 4 KiB blocks (innoBlockReader)
// and finally decompressed according to the declared method.
type innoStreamReader struct {
	blocks      *innoBlockReader
	decompress  io.Reader
	compression compression
}

// newInnoStreamReader reads an Inno stream header from r and returns a
// reader over its decompressed payload. version gates both the header
// layout (pre- vs post-4.0.9) and the compression method chosen for a
// "compressed" stream (Zlib before 4.1.6, LZMA1 from 4.1.6 onward).
func newInnoStreamReader(r io.Reader, version InnoVersion) (*innoStreamReader, error) {
	c, err := readStreamHeader(r, version)
	if err != nil {
		return nil, err
	}

	blocks := newInnoBlockReader(io.LimitReader(r, int64(c.Size)))

	var decompress io.Reader
	switch c.Method {
	case methodLZMA1:
		props, dictSize, err := readLZMA1Properties(blocks)
		if err != nil {
			return nil, err
		}
		decompress, err = newLZMA1Reader(blocks, props, dictSize)
		if err != nil {
			return nil, err
		}
	case methodZlib:
		zr, err := zlib.NewReader(blocks)
		if err != nil {
			return nil, err
		}
		decompress = zr
	default:
		decompress = blocks
	}

	return &innoStreamReader{blocks: blocks, decompress: decompress, compression: c}, nil
}

func readStreamHeader(r io.Reader, version InnoVersion) (compression, error) {
	var expectedCRCBuf [4]byte
	if _, err := io.ReadFull(r, expectedCRCBuf[:]); err != nil {
		return compression{}, err
	}
	expectedCRC := binary.LittleEndian.Uint32(expectedCRCBuf[:])

	crc := newCrc32Reader(r)
	br := newByteReader(crc)

	var c compression
	if version.AtLeast(4, 0, 9) {
		size, err := br.ReadUint32()
		if err != nil {
			return compression{}, err
		}
		compressedFlag, err := br.ReadUint8()
		if err != nil {
			return compression{}, err
		}
		switch {
		case compressedFlag == 0:
			c = compression{Method: methodStored, Size: size}
		case version.AtLeast(4, 1, 6):
			c = compression{Method: methodLZMA1, Size: size}
		default:
			c = compression{Method: methodZlib, Size: size}
		}
	} else {
		compressedSize, err := br.ReadUint32()
		if err != nil {
			return compression{}, err
		}
		uncompressedSize, err := br.ReadUint32()
		if err != nil {
			return compression{}, err
		}
		if int32(compressedSize) == -1 {
			c = compression{Method: methodStored, Size: uncompressedSize}
		} else {
			c = compression{Method: methodZlib, Size: compressedSize}
		}
		// Old-format sizes exclude the CRC32 prefix written ahead of each
		// 4 KiB sub-block; add it back so the downstream limit reader sees
		// the true number of bytes on the wire.
		blocks := (uint64(c.Size) + innoBlockSize - 1) / innoBlockSize
		c.Size += uint32(blocks * 4)
	}

	actualCRC := crc.Sum32()
	if actualCRC != expectedCRC {
		return compression{}, &CrcChecksumMismatchError{
			Location: "Inno stream header",
			Actual:   actualCRC,
			Expected: expectedCRC,
		}
	}

	return c, nil
}

// Read implements io.Reader, returning decompressed stream payload.
func (s *innoStreamReader) Read(p []byte) (int, error) {
	return s.decompress.Read(p)
}

// IsEndOfStream reports whether every compressed byte declared in the
// stream header has been consumed from the underlying reader.
func (s *innoStreamReader) IsEndOfStream() bool {
	return s.blocks.TotalIn() == int64(s.compression.Size)
}
