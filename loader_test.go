// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"
)

// buildLegacyLoaderImage assembles a minimal file with the legacy
// setup-loader offset header at exeModeOffset, followed immediately by a
// CRC-checked setup-loader table at the offset it points to.
func buildLegacyLoaderImage(t *testing.T, table []byte) []byte {
	t.Helper()
	const tableOffset = 0x100

	buf := make([]byte, tableOffset+len(table))
	copy(buf[exeModeOffset:], setupLoaderOffsetMagic[:])
	binary.LittleEndian.PutUint32(buf[exeModeOffset+4:], tableOffset)
	binary.LittleEndian.PutUint32(buf[exeModeOffset+8:], ^uint32(tableOffset))
	copy(buf[tableOffset:], table)
	return buf
}

// buildSetupLoaderTable assembles a CRC32-checked setup-loader table for
// the given signature, matching the pre-5.1.5 field layout (no revision,
// 32-bit size fields, explicit compressed size, Adler32 or CRC32
// checksum depending on version).
func buildSetupLoaderTable(t *testing.T, signature []byte, version InnoVersion) []byte {
	t.Helper()

	var body bytes.Buffer
	body.Write(signature)

	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		body.Write(b[:])
	}

	u32(0x1000) // minimum setup exe size
	u32(0x20)   // exe offset
	if !version.AtLeast(4, 1, 6) {
		u32(0x30) // exe compressed size
	}
	u32(0x40) // exe uncompressed size
	u32(0xDEADBEEF)
	if version.Major < 4 {
		u32(0) // message offset, unchecksummed field, doesn't matter here
	}
	u32(0x50) // header offset
	u32(0x60) // data offset

	if version.AtLeast(4, 0, 10) {
		crc := crc32.ChecksumIEEE(body.Bytes())
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], crc)
		body.Write(b[:])
	}

	return body.Bytes()
}

func TestReadSetupLoaderLegacy(t *testing.T) {
	sig := []byte("rDlPtS06\x87eVx")
	version, ok := SetupLoaderSignature(mustSig(t, sig)).Version()
	if !ok {
		t.Fatal("test signature should be known")
	}
	table := buildSetupLoaderTable(t, sig, version)
	data := buildLegacyLoaderImage(t, table)

	loader, err := ReadSetupLoader(data)
	if err != nil {
		t.Fatalf("ReadSetupLoader() error: %v", err)
	}
	if !loader.Version.Equal(version) {
		t.Fatalf("Version = %v, want %v", loader.Version, version)
	}
	if loader.ExeOffset != 0x20 {
		t.Fatalf("ExeOffset = %#x, want 0x20", loader.ExeOffset)
	}
	if loader.HeaderOffset != 0x50 || loader.DataOffset != 0x60 {
		t.Fatalf("HeaderOffset/DataOffset = %#x/%#x, want 0x50/0x60", loader.HeaderOffset, loader.DataOffset)
	}
}

func TestReadSetupLoaderUnknownSignature(t *testing.T) {
	table := append([]byte("xxxxxxxxxxxx"), make([]byte, 20)...)
	data := buildLegacyLoaderImage(t, table)
	if _, err := ReadSetupLoader(data); err == nil {
		t.Fatal("expected an error for an unrecognized setup loader signature")
	}
}

func mustSig(t *testing.T, b []byte) [setupLoaderSignatureLen]byte {
	t.Helper()
	if len(b) != setupLoaderSignatureLen {
		t.Fatalf("signature %q has length %d, want %d", b, len(b), setupLoaderSignatureLen)
	}
	var s [setupLoaderSignatureLen]byte
	copy(s[:], b)
	return s
}
