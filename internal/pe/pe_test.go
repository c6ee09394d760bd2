// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalPE assembles a tiny, well-formed 32-bit PE image with a
// single section containing a resource directory tree of the shape
// RTRCData -> nameID -> one language entry -> raw bytes.
func buildMinimalPE(t *testing.T, nameID uint32, payload []byte) []byte {
	t.Helper()

	const (
		sectionRVA  = 0x1000
		sectionFile = 0x200
	)

	// Resource tree, built bottom-up so offsets are known ahead of time.
	// Layout inside the section, relative to sectionRVA:
	//   0x00  root directory header + 1 entry (type)
	//   0x18  type directory header + 1 entry (name)
	//   0x30  name directory header + 1 entry (lang, leaf)
	//   0x48  IMAGE_RESOURCE_DATA_ENTRY
	//   0x58  payload bytes
	var buf bytes.Buffer
	writeDir := func(numIDEntries uint16) {
		binary.Write(&buf, binary.LittleEndian, ImageResourceDirectory{
			NumberOfIDEntries: numIDEntries,
		})
	}
	writeEntry := func(id, offsetToData uint32) {
		binary.Write(&buf, binary.LittleEndian, ImageResourceDirectoryEntry{
			Name: id, OffsetToData: offsetToData,
		})
	}

	writeDir(1)
	writeEntry(RTRCData, 0x80000000|0x18) // -> type dir at +0x18, is-directory bit set
	buf.Write(make([]byte, 0x18-buf.Len()))

	writeDir(1)
	writeEntry(nameID, 0x80000000|0x30)
	buf.Write(make([]byte, 0x30-buf.Len()))

	writeDir(1)
	writeEntry(0, 0x48) // language-neutral leaf: data entry at +0x48
	buf.Write(make([]byte, 0x48-buf.Len()))

	binary.Write(&buf, binary.LittleEndian, ImageResourceDataEntry{
		OffsetToData: sectionRVA + 0x58,
		Size:         uint32(len(payload)),
	})
	buf.Write(make([]byte, 0x58-buf.Len()))
	buf.Write(payload)

	sectionData := buf.Bytes()
	sectionSize := uint32(0x200)
	if uint32(len(sectionData)) > sectionSize {
		sectionSize = uint32(len(sectionData))
	}

	var img bytes.Buffer
	img.Write(make([]byte, 0x200)) // headers, padded generously

	dos := ImageDOSHeader{Magic: ImageDOSSignature, AddressOfNewEXEHeader: 0x80}
	dosBytes := new(bytes.Buffer)
	binary.Write(dosBytes, binary.LittleEndian, dos)
	copy(img.Bytes(), dosBytes.Bytes())

	ntOffset := uint32(0x80)
	nt := make([]byte, 0)
	ntBuf := bytes.NewBuffer(nt)
	binary.Write(ntBuf, binary.LittleEndian, uint32(ImageNTSignature))
	fh := ImageFileHeader{NumberOfSections: 1, SizeOfOptionalHeader: uint16(binary.Size(ImageOptionalHeader32{}))}
	binary.Write(ntBuf, binary.LittleEndian, fh)
	oh := ImageOptionalHeader32{Magic: ImageNtOptionalHeader32Magic, FileAlignment: 0x200, SectionAlignment: 0x1000}
	oh.DataDirectory[ImageDirectoryEntryResource] = DataDirectory{VirtualAddress: sectionRVA, Size: sectionSize}
	binary.Write(ntBuf, binary.LittleEndian, oh)
	copy(img.Bytes()[ntOffset:], ntBuf.Bytes())

	secHeaderOffset := ntOffset + 4 + uint32(binary.Size(fh)) + uint32(fh.SizeOfOptionalHeader)
	var sec ImageSectionHeader
	copy(sec.Name[:], ".rsrc")
	sec.VirtualAddress = sectionRVA
	sec.VirtualSize = sectionSize
	sec.PointerToRawData = sectionFile
	sec.SizeOfRawData = sectionSize
	secBytes := new(bytes.Buffer)
	binary.Write(secBytes, binary.LittleEndian, sec)
	secHeaderEnd := secHeaderOffset + uint32(secBytes.Len())
	grown := img.Bytes()
	if uint32(len(grown)) < secHeaderEnd {
		img.Write(make([]byte, secHeaderEnd-uint32(len(grown))))
	}
	copy(img.Bytes()[secHeaderOffset:], secBytes.Bytes())

	full := img.Bytes()
	end := sectionFile + sectionSize
	if uint32(len(full)) < end {
		full = append(full, make([]byte, end-uint32(len(full)))...)
	}
	copy(full[sectionFile:], sectionData)

	return full
}

func TestNewAndFindResource(t *testing.T) {
	payload := []byte("setup-loader-table")
	data := buildMinimalPE(t, 11111, payload)

	f, err := New(data, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !f.Is32 {
		t.Fatal("expected a PE32 image")
	}

	offset, size, err := f.FindResource(RTRCData, 11111)
	if err != nil {
		t.Fatalf("FindResource() failed: %v", err)
	}
	if size != uint32(len(payload)) {
		t.Fatalf("FindResource() size = %d, want %d", size, len(payload))
	}
	got := data[offset : offset+size]
	if !bytes.Equal(got, payload) {
		t.Fatalf("FindResource() data = %q, want %q", got, payload)
	}
}

func TestFindResourceMissing(t *testing.T) {
	data := buildMinimalPE(t, 42, []byte("irrelevant"))
	f, err := New(data, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, _, err := f.FindResource(RTRCData, 11111); err != ErrResourceNotFound {
		t.Fatalf("FindResource() err = %v, want ErrResourceNotFound", err)
	}
}

func TestParseDOSHeaderRejectsBadMagic(t *testing.T) {
	data := make([]byte, 0x200)
	if _, err := New(data, nil); err != ErrDOSMagicNotFound {
		t.Fatalf("New() err = %v, want ErrDOSMagicNotFound", err)
	}
}
