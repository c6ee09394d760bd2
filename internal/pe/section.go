// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"
	"sort"
	"strings"
)

// Section wraps a single PE section header.
type Section struct {
	Header ImageSectionHeader
}

// Name returns the section name with trailing NUL bytes trimmed.
func (s *Section) Name() string {
	return strings.TrimRight(string(s.Header.Name[:]), "\x00")
}

// Contains reports whether the section covers the given RVA.
func (s *Section) Contains(rva uint32, pe *File) bool {
	size := s.Header.SizeOfRawData
	if size < s.Header.VirtualSize {
		size = s.Header.VirtualSize
	}
	va := pe.adjustSectionAlignment(s.Header.VirtualAddress)
	return va <= rva && rva < va+size
}

// Data returns the raw bytes of the section, starting at RVA start (0
// means the beginning of the section) for length bytes (0 means the
// whole raw section).
func (s *Section) Data(start, length uint32, pe *File) []byte {
	pointerAdj := pe.adjustFileAlignment(s.Header.PointerToRawData)
	vaAdj := pe.adjustSectionAlignment(s.Header.VirtualAddress)

	var offset uint32
	if start == 0 {
		offset = pointerAdj
	} else {
		offset = (start - vaAdj) + pointerAdj
	}
	if offset > pe.size {
		return nil
	}

	end := offset + length
	if length == 0 {
		end = offset + s.Header.SizeOfRawData
	}
	if end > pe.size {
		end = pe.size
	}
	return pe.data[offset:end]
}

func (pe *File) parseSectionHeaders() error {
	fileHeaderSize := uint32(binary.Size(pe.NtHeader.FileHeader))
	optHeaderOffset := pe.DOSHeader.AddressOfNewEXEHeader + 4 + fileHeaderSize
	offset := optHeaderOffset + uint32(pe.NtHeader.FileHeader.SizeOfOptionalHeader)

	numberOfSections := pe.NtHeader.FileHeader.NumberOfSections
	var hdr ImageSectionHeader
	hdrSize := uint32(binary.Size(hdr))

	for i := uint16(0); i < numberOfSections; i++ {
		if err := pe.structUnpack(&hdr, offset, hdrSize); err != nil {
			return err
		}
		pe.Sections = append(pe.Sections, Section{Header: hdr})
		offset += hdrSize
	}

	sort.Slice(pe.Sections, func(i, j int) bool {
		return pe.Sections[i].Header.VirtualAddress < pe.Sections[j].Header.VirtualAddress
	})
	return nil
}

func (pe *File) sectionByRVA(rva uint32) *Section {
	for i := range pe.Sections {
		if pe.Sections[i].Contains(rva, pe) {
			return &pe.Sections[i]
		}
	}
	return nil
}

// offsetFromRVA translates an RVA to a raw file offset using the section
// table, falling back to treating the RVA as an offset when it falls
// within the headers (no section covers it).
func (pe *File) offsetFromRVA(rva uint32) uint32 {
	sec := pe.sectionByRVA(rva)
	if sec == nil {
		if rva < pe.size {
			return rva
		}
		return ^uint32(0)
	}
	sectionAlignment := pe.adjustSectionAlignment(sec.Header.VirtualAddress)
	fileAlignment := pe.adjustFileAlignment(sec.Header.PointerToRawData)
	return rva - sectionAlignment + fileAlignment
}
