// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"encoding/binary"
	"io"

	"golang.org/x/text/encoding"
)

// byteReader is the minimal set of primitive and Pascal-string reads that
// every Inno Setup record decoder is built on. It is backed by an
// io.Reader over either the 4 KiB-framed primary stream or, once
// decompressed, a plain byte buffer.
type byteReader struct {
	r io.Reader
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{r: r}
}

func (b *byteReader) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadUint8 reads a single byte.
func (b *byteReader) ReadUint8() (uint8, error) {
	buf, err := b.readFull(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBool reads a one-byte boolean, nonzero meaning true.
func (b *byteReader) ReadBool() (bool, error) {
	v, err := b.ReadUint8()
	return v != 0, err
}

// ReadUint16 reads a little-endian uint16.
func (b *byteReader) ReadUint16() (uint16, error) {
	buf, err := b.readFull(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadUint32 reads a little-endian uint32.
func (b *byteReader) ReadUint32() (uint32, error) {
	buf, err := b.readFull(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadUint64 reads a little-endian uint64.
func (b *byteReader) ReadUint64() (uint64, error) {
	buf, err := b.readFull(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadInt32 reads a little-endian int32.
func (b *byteReader) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

// ReadBytes reads n raw bytes.
func (b *byteReader) ReadBytes(n int) ([]byte, error) {
	return b.readFull(n)
}

// ReadRawPascalString reads a UCSD Pascal-style string: a little-endian
// uint32 length prefix followed by that many raw, as-yet-undecoded bytes.
// Inno Setup stores strings this way whenever the codepage needed to
// decode them is not yet known at read time (e.g. before the language
// table has been parsed).
func (b *byteReader) ReadRawPascalString() ([]byte, error) {
	length, err := b.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	return b.readFull(int(length))
}

// ReadSizedRawPascalString reads size raw bytes with no length prefix,
// the shape used for strings whose size was already determined by the
// caller (for example a string with an externally fixed width).
func (b *byteReader) ReadSizedRawPascalString(size uint32) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	return b.readFull(int(size))
}

// ReadDecodedPascalString reads a length-prefixed Pascal string and
// decodes it immediately using codepage.
func (b *byteReader) ReadDecodedPascalString(codepage encoding.Encoding) (string, error) {
	raw, err := b.ReadRawPascalString()
	if err != nil {
		return "", err
	}
	return decodeString(raw, codepage)
}

// ReadSizedDecodedPascalString reads size raw bytes and decodes them using
// codepage.
func (b *byteReader) ReadSizedDecodedPascalString(size uint32, codepage encoding.Encoding) (string, error) {
	raw, err := b.ReadSizedRawPascalString(size)
	if err != nil {
		return "", err
	}
	return decodeString(raw, codepage)
}

// DiscardPascalString reads and discards a length-prefixed Pascal string
// without allocating a buffer for its contents.
func (b *byteReader) DiscardPascalString() error {
	length, err := b.ReadUint32()
	if err != nil {
		return err
	}
	_, err = io.CopyN(io.Discard, b.r, int64(length))
	return err
}

// decodeString decodes raw bytes using codepage, falling back to an empty
// string (rather than failing the whole record) when the bytes are not
// valid in that codepage. Most Inno Setup strings are Windows-1252 or
// UTF-16LE; malformed individual strings should not abort an otherwise
// readable installer.
func decodeString(raw []byte, codepage encoding.Encoding) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if codepage == nil {
		return string(raw), nil
	}
	decoded, err := codepage.NewDecoder().Bytes(raw)
	if err != nil {
		return "", nil
	}
	return string(decoded), nil
}
