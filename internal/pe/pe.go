// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package pe implements the narrow slice of the PE/COFF format that the
// inno package needs to locate an Inno Setup installer's embedded
// resources: the DOS/NT headers, the section table, the resource
// directory tree, and (optionally) the Authenticode security directory.
// It is not a general-purpose PE parser: imports, exports, relocations,
// TLS, debug directories, .NET metadata and the other PE substructures
// that saferwall/pe exposes are intentionally left out because nothing
// in an Inno Setup installer needs them.
package pe

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/go-kratos/kratos/v2/log"
)

// Image signatures.
const (
	ImageDOSSignature = 0x5A4D // MZ
	ImageNTSignature  = 0x00004550
)

// Optional header magic.
const (
	ImageNtOptionalHeader32Magic = 0x10b
	ImageNtOptionalHeader64Magic = 0x20b
)

// Data directory indices relevant to Inno Setup discovery.
const (
	ImageDirectoryEntryResource    = 2
	ImageDirectoryEntryCertificate = 4
)

// RTRCData is the RT_RCDATA predefined resource type: raw, application
// defined binary data. Inno Setup stores its setup-loader table under
// this type.
const RTRCData = 10

const fileAlignmentHardcodedValue = 0x200

var (
	// ErrDOSMagicNotFound is returned when the MZ signature is missing.
	ErrDOSMagicNotFound = errors.New("pe: DOS header magic not found")

	// ErrInvalidElfanewValue is returned when e_lfanew points outside the file.
	ErrInvalidElfanewValue = errors.New("pe: invalid e_lfanew value")

	// ErrImageNtSignatureNotFound is returned when the PE00 signature is missing.
	ErrImageNtSignatureNotFound = errors.New("pe: PE signature not found")

	// ErrImageNtOptionalHeaderMagicNotFound is returned when the optional
	// header magic is neither PE32 nor PE32+.
	ErrImageNtOptionalHeaderMagicNotFound = errors.New("pe: optional header magic not found")

	// ErrOutsideBoundary is returned when a read would fall outside the
	// mapped file data.
	ErrOutsideBoundary = errors.New("pe: read outside file boundary")

	// ErrResourceNotFound is returned when the requested resource type/id
	// could not be located in the resource directory tree.
	ErrResourceNotFound = errors.New("pe: resource not found")
)

// ImageDOSHeader is the MS-DOS stub header every PE file begins with.
type ImageDOSHeader struct {
	Magic                 uint16
	BytesOnLastPageOfFile uint16
	PagesInFile           uint16
	Relocations           uint16
	SizeOfHeader          uint16
	MinExtraParagraphs    uint16
	MaxExtraParagraphs    uint16
	InitialSS             uint16
	InitialSP             uint16
	Checksum              uint16
	InitialIP             uint16
	InitialCS             uint16
	AddrOfRelocationTable uint16
	OverlayNumber         uint16
	ReservedWords1        [4]uint16
	OEMIdentifier         uint16
	OEMInformation        uint16
	ReservedWords2        [10]uint16
	AddressOfNewEXEHeader uint32
}

// ImageFileHeader is the COFF file header (IMAGE_FILE_HEADER).
type ImageFileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

// DataDirectory is one entry of the optional header's data directory array.
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// ImageOptionalHeader32 is the PE32 optional header.
type ImageOptionalHeader32 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32
	ImageBase                   uint32
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders                uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint32
	SizeOfStackCommit           uint32
	SizeOfHeapReserve           uint32
	SizeOfHeapCommit            uint32
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [16]DataDirectory
}

// ImageOptionalHeader64 is the PE32+ optional header.
type ImageOptionalHeader64 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	ImageBase                   uint64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders                uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [16]DataDirectory
}

// ImageNtHeader groups the COFF file header with its optional header.
type ImageNtHeader struct {
	Signature      uint32
	FileHeader     ImageFileHeader
	OptionalHeader interface{} // ImageOptionalHeader32 or ImageOptionalHeader64
}

// ImageSectionHeader is one row of the section table.
type ImageSectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

// File is a minimal, read-only view over a PE image: enough structure to
// translate RVAs to file offsets and walk the resource directory tree.
type File struct {
	data               []byte
	size               uint32
	logger             *log.Helper
	maxResourceEntries int
	Anomalies          []string

	DOSHeader ImageDOSHeader
	NtHeader  ImageNtHeader
	Is32      bool
	Is64      bool
	Sections  []Section
	Resources ResourceDirectory
}

// New parses the DOS header, NT header, section table and resource
// directory of the PE image held in data. It does not parse the
// certificate directory; callers that need signer metadata should call
// ParseSigner explicitly.
func New(data []byte, logger log.Logger) (*File, error) {
	return NewWithResourceLimit(data, logger, maxAllowedEntries)
}

// NewWithResourceLimit is like New but lets the caller override the
// sanity limit on resource-directory entries per level, a guard against
// zip-bomb-style malformed PE images.
func NewWithResourceLimit(data []byte, logger log.Logger, maxResourceEntries int) (*File, error) {
	if logger == nil {
		logger = log.NewStdLogger(ioDiscard{})
	}
	if maxResourceEntries <= 0 {
		maxResourceEntries = maxAllowedEntries
	}
	f := &File{
		data:               data,
		size:               uint32(len(data)),
		logger:             log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError))),
		maxResourceEntries: maxResourceEntries,
	}

	if err := f.parseDOSHeader(); err != nil {
		return nil, err
	}
	if err := f.parseNTHeader(); err != nil {
		return nil, err
	}
	if err := f.parseSectionHeaders(); err != nil {
		return nil, err
	}
	if err := f.parseResourceDirectory(); err != nil && err != ErrResourceNotFound {
		return nil, err
	}
	return f, nil
}

// ioDiscard is a tiny io.Writer sink so New can hand log.NewStdLogger a
// valid writer when the caller supplies no logger.
type ioDiscard struct{}

func (ioDiscard) Write(p []byte) (int, error) { return len(p), nil }

func (pe *File) parseDOSHeader() error {
	size := uint32(binary.Size(pe.DOSHeader))
	if err := pe.structUnpack(&pe.DOSHeader, 0, size); err != nil {
		return err
	}
	if pe.DOSHeader.Magic != ImageDOSSignature {
		return ErrDOSMagicNotFound
	}
	if pe.DOSHeader.AddressOfNewEXEHeader < 4 || pe.DOSHeader.AddressOfNewEXEHeader > pe.size {
		return ErrInvalidElfanewValue
	}
	return nil
}

func (pe *File) parseNTHeader() error {
	ntOffset := pe.DOSHeader.AddressOfNewEXEHeader
	signature, err := pe.ReadUint32(ntOffset)
	if err != nil {
		return err
	}
	if signature != ImageNTSignature {
		return ErrImageNtSignatureNotFound
	}
	pe.NtHeader.Signature = signature

	fileHeaderSize := uint32(binary.Size(pe.NtHeader.FileHeader))
	fileHeaderOffset := ntOffset + 4
	if err := pe.structUnpack(&pe.NtHeader.FileHeader, fileHeaderOffset, fileHeaderSize); err != nil {
		return err
	}

	optHeaderOffset := ntOffset + 4 + fileHeaderSize
	magic, err := pe.ReadUint16(optHeaderOffset)
	if err != nil {
		return err
	}
	switch magic {
	case ImageNtOptionalHeader64Magic:
		oh64 := ImageOptionalHeader64{}
		size := uint32(binary.Size(oh64))
		if err := pe.structUnpack(&oh64, optHeaderOffset, size); err != nil {
			return err
		}
		pe.Is64 = true
		pe.NtHeader.OptionalHeader = oh64
	case ImageNtOptionalHeader32Magic:
		oh32 := ImageOptionalHeader32{}
		size := uint32(binary.Size(oh32))
		if err := pe.structUnpack(&oh32, optHeaderOffset, size); err != nil {
			return err
		}
		pe.Is32 = true
		pe.NtHeader.OptionalHeader = oh32
	default:
		return ErrImageNtOptionalHeaderMagicNotFound
	}
	return nil
}

// DataDirectoryEntry returns the data directory entry at index idx.
func (pe *File) DataDirectoryEntry(idx int) DataDirectory {
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).DataDirectory[idx]
	}
	return pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).DataDirectory[idx]
}

func (pe *File) fileAlignment() uint32 {
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).FileAlignment
	}
	return pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).FileAlignment
}

func (pe *File) sectionAlignment() uint32 {
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).SectionAlignment
	}
	return pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).SectionAlignment
}

func (pe *File) adjustFileAlignment(va uint32) uint32 {
	fa := pe.fileAlignment()
	if fa < fileAlignmentHardcodedValue {
		return va
	}
	return (va / 0x200) * 0x200
}

func (pe *File) adjustSectionAlignment(va uint32) uint32 {
	fa := pe.fileAlignment()
	sa := pe.sectionAlignment()
	if sa < 0x1000 {
		sa = fa
	}
	if sa != 0 && va%sa != 0 {
		return sa * (va / sa)
	}
	return va
}

func (pe *File) structUnpack(iface interface{}, offset, size uint32) error {
	total := offset + size
	if (total > offset) != (size > 0) {
		return ErrOutsideBoundary
	}
	if offset >= pe.size || total > pe.size {
		return ErrOutsideBoundary
	}
	buf := bytes.NewReader(pe.data[offset : offset+size])
	return binary.Read(buf, binary.LittleEndian, iface)
}

// ReadUint16 reads a little-endian uint16 at offset.
func (pe *File) ReadUint16(offset uint32) (uint16, error) {
	if offset > pe.size-2 {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(pe.data[offset:]), nil
}

// ReadUint32 reads a little-endian uint32 at offset.
func (pe *File) ReadUint32(offset uint32) (uint32, error) {
	if pe.size < 4 || offset > pe.size-4 {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(pe.data[offset:]), nil
}

// Bytes returns size bytes at offset.
func (pe *File) Bytes(offset, size uint32) ([]byte, error) {
	total := offset + size
	if (total > offset) != (size > 0) {
		return nil, ErrOutsideBoundary
	}
	if offset >= pe.size || total > pe.size {
		return nil, ErrOutsideBoundary
	}
	return pe.data[offset:total], nil
}

// Size returns the total size of the mapped file.
func (pe *File) Size() uint32 { return pe.size }
