// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

const maxAllowedEntries = 0x1000

// ImageResourceDirectory is the IMAGE_RESOURCE_DIRECTORY header that
// precedes each level of the resource directory tree.
type ImageResourceDirectory struct {
	Characteristics      uint32
	TimeDateStamp        uint32
	MajorVersion         uint16
	MinorVersion         uint16
	NumberOfNamedEntries uint16
	NumberOfIDEntries    uint16
}

// ImageResourceDirectoryEntry is one entry in a resource directory level.
type ImageResourceDirectoryEntry struct {
	Name         uint32
	OffsetToData uint32
}

// ImageResourceDataEntry describes a leaf resource's raw bytes.
type ImageResourceDataEntry struct {
	OffsetToData uint32
	Size         uint32
	CodePage     uint32
	Reserved     uint32
}

// ResourceDirectoryEntry is a walked entry: either a nested directory, or
// a leaf pointing at raw resource data.
type ResourceDirectoryEntry struct {
	ID            uint32
	Name          string
	IsResourceDir bool
	Directory     ResourceDirectory
	Data          ImageResourceDataEntry
}

// ResourceDirectory is one level of the resource directory tree.
type ResourceDirectory struct {
	Struct  ImageResourceDirectory
	Entries []ResourceDirectoryEntry
}

func (pe *File) parseResourceDataEntry(rva uint32) (ImageResourceDataEntry, error) {
	var entry ImageResourceDataEntry
	size := uint32(binary.Size(entry))
	offset := pe.offsetFromRVA(rva)
	err := pe.structUnpack(&entry, offset, size)
	return entry, err
}

func (pe *File) parseResourceDirectoryEntry(rva uint32) (*ImageResourceDirectoryEntry, error) {
	var entry ImageResourceDirectoryEntry
	size := uint32(binary.Size(entry))
	offset := pe.offsetFromRVA(rva)
	if err := pe.structUnpack(&entry, offset, size); err != nil {
		return nil, err
	}
	return &entry, nil
}

// readResourceName reads the length-prefixed UTF-16LE resource name
// string stored at baseRVA+nameOffset.
func (pe *File) readResourceName(baseRVA, nameOffset uint32) string {
	offset := pe.offsetFromRVA(baseRVA + nameOffset)
	length, err := pe.ReadUint16(offset)
	if err != nil {
		return ""
	}
	raw, err := pe.Bytes(offset+2, uint32(length)*2)
	if err != nil {
		return ""
	}
	out := make([]rune, 0, length)
	for i := 0; i+1 < len(raw); i += 2 {
		out = append(out, rune(binary.LittleEndian.Uint16(raw[i:])))
	}
	return string(out)
}

func (pe *File) doParseResourceDirectory(rva, baseRVA uint32, dirs []uint32) (ResourceDirectory, error) {
	var dirHeader ImageResourceDirectory
	dirHeaderSize := uint32(binary.Size(dirHeader))
	offset := pe.offsetFromRVA(rva)
	if err := pe.structUnpack(&dirHeader, offset, dirHeaderSize); err != nil {
		return ResourceDirectory{}, err
	}

	if baseRVA == 0 {
		baseRVA = rva
	}
	if len(dirs) == 0 {
		dirs = append(dirs, rva)
	}

	entryRVA := rva + dirHeaderSize
	numberOfEntries := int(dirHeader.NumberOfNamedEntries) + int(dirHeader.NumberOfIDEntries)
	if numberOfEntries > pe.maxResourceEntries {
		pe.logger.Warnf("resource directory has %d entries, exceeding the sanity limit", numberOfEntries)
		return ResourceDirectory{Struct: dirHeader}, nil
	}

	dir := ResourceDirectory{Struct: dirHeader}
	for i := 0; i < numberOfEntries; i++ {
		raw, err := pe.parseResourceDirectoryEntry(entryRVA)
		if err != nil {
			break
		}

		var name string
		var id uint32
		if raw.Name&0x80000000 != 0 {
			name = pe.readResourceName(baseRVA, raw.Name&0x7FFFFFFF)
		} else {
			id = raw.Name
		}

		isDir := raw.OffsetToData&0x80000000 != 0
		childOffset := raw.OffsetToData & 0x7FFFFFFF

		if isDir {
			childRVA := baseRVA + childOffset
			if containsRVA(dirs, childRVA) {
				// Resource directories that point back at an ancestor are
				// malformed; stop walking rather than loop forever.
				break
			}
			child, err := pe.doParseResourceDirectory(childRVA, baseRVA, append(dirs, childRVA))
			if err != nil {
				break
			}
			dir.Entries = append(dir.Entries, ResourceDirectoryEntry{
				ID: id, Name: name, IsResourceDir: true, Directory: child,
			})
		} else {
			data, err := pe.parseResourceDataEntry(baseRVA + childOffset)
			if err != nil {
				break
			}
			dir.Entries = append(dir.Entries, ResourceDirectoryEntry{
				ID: id, Name: name, IsResourceDir: false, Data: data,
			})
		}

		entryRVA += uint32(binary.Size(ImageResourceDirectoryEntry{}))
	}

	return dir, nil
}

func containsRVA(dirs []uint32, rva uint32) bool {
	for _, d := range dirs {
		if d == rva {
			return true
		}
	}
	return false
}

func (pe *File) parseResourceDirectory() error {
	entry := pe.DataDirectoryEntry(ImageDirectoryEntryResource)
	if entry.VirtualAddress == 0 || entry.Size == 0 {
		return ErrResourceNotFound
	}
	root, err := pe.doParseResourceDirectory(entry.VirtualAddress, 0, nil)
	if err != nil {
		return err
	}
	pe.Resources = root
	return nil
}

// FindResource walks the resource directory tree looking for a resource
// of the given type ID (e.g. RTRCData) and name ID (e.g. 11111 for
// Inno Setup's setup-loader table), under any language subdirectory, and
// returns the file offset and size of its raw data.
func (pe *File) FindResource(typeID, nameID uint32) (offset, size uint32, err error) {
	for _, t := range pe.Resources.Entries {
		if !t.IsResourceDir || t.ID != typeID {
			continue
		}
		for _, n := range t.Directory.Entries {
			if !n.IsResourceDir || n.ID != nameID {
				continue
			}
			for _, lang := range n.Directory.Entries {
				if lang.IsResourceDir {
					continue
				}
				off := pe.offsetFromRVA(lang.Data.OffsetToData)
				return off, lang.Data.Size, nil
			}
		}
	}
	return 0, 0, ErrResourceNotFound
}
