// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"bytes"
	"fmt"
	"strconv"
)

// VersionVariant flags a build of Inno Setup that diverges from the
// mainline ANSI release: a Unicode build, the My Inno Setup Extensions
// (ISX) fork, or the legacy 16-bit toolchain.
type VersionVariant uint8

// VersionVariant bits.
const (
	VariantUnicode VersionVariant = 1 << iota
	VariantISX
	VariantBits16
)

// IsUnicode reports whether v has the Unicode flag set.
func (v VersionVariant) IsUnicode() bool { return v&VariantUnicode != 0 }

// IsISX reports whether v has the ISX flag set.
func (v VersionVariant) IsISX() bool { return v&VariantISX != 0 }

// Is16Bit reports whether v has the 16-bit flag set.
func (v VersionVariant) Is16Bit() bool { return v&VariantBits16 != 0 }

// InnoVersion is the version of Inno Setup that produced an installer,
// as recorded in its setup header. Comparisons and equality ignore the
// variant: a Unicode and an ANSI build released under the same version
// number compare equal.
type InnoVersion struct {
	Major, Minor, Patch, Revision uint8
	Variant                       VersionVariant
}

// rawVersionLen is the fixed size of the version string embedded at the
// start of the setup header.
const rawVersionLen = 64

// NewInnoVersion builds a version, automatically setting the Unicode
// variant flag for Inno Setup 6.3.0 and newer, which dropped the ANSI
// build entirely.
func NewInnoVersion(major, minor, patch, revision uint8) InnoVersion {
	return NewInnoVersionWithVariant(major, minor, patch, revision, 0)
}

// NewInnoVersionWithVariant is like NewInnoVersion but lets the caller
// supply additional variant flags (ISX, 16-bit).
func NewInnoVersionWithVariant(major, minor, patch, revision uint8, variant VersionVariant) InnoVersion {
	if major > 6 || (major == 6 && minor >= 3) {
		variant |= VariantUnicode
	}
	return InnoVersion{major, minor, patch, revision, variant}
}

// Compare orders two versions by (major, minor, patch, revision),
// ignoring variant flags. It returns -1, 0, or 1.
func (v InnoVersion) Compare(o InnoVersion) int {
	for _, pair := range [][2]uint8{
		{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}, {v.Revision, o.Revision},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports whether v and o denote the same release, ignoring variant
// flags.
func (v InnoVersion) Equal(o InnoVersion) bool { return v.Compare(o) == 0 }

// Less reports whether v sorts before o.
func (v InnoVersion) Less(o InnoVersion) bool { return v.Compare(o) < 0 }

// AtLeast reports whether v is greater than or equal to the given
// (major, minor, patch) triple, the common shape of a version gate.
func (v InnoVersion) AtLeast(major, minor, patch uint8) bool {
	return v.Compare(InnoVersion{major, minor, patch, 0, 0}) >= 0
}

// Before reports whether v is strictly less than the given
// (major, minor, patch) triple.
func (v InnoVersion) Before(major, minor, patch uint8) bool {
	return v.Compare(InnoVersion{major, minor, patch, 0, 0}) < 0
}

// AtLeastRev reports whether v is greater than or equal to the given
// (major, minor, patch, revision) quadruple, for the handful of version
// gates that distinguish on revision.
func (v InnoVersion) AtLeastRev(major, minor, patch, revision uint8) bool {
	return v.Compare(InnoVersion{major, minor, patch, revision, 0}) >= 0
}

// BeforeRev reports whether v is strictly less than the given
// (major, minor, patch, revision) quadruple.
func (v InnoVersion) BeforeRev(major, minor, patch, revision uint8) bool {
	return v.Compare(InnoVersion{major, minor, patch, revision, 0}) < 0
}

// String renders the version the way Inno Setup's own installers do,
// e.g. "5.5.7", "6.4.0.1", "1.2.10 16-bit", "3.0.4 with ISX".
func (v InnoVersion) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d.%d", v.Major, v.Minor)
	if v.Patch != 0xFF {
		fmt.Fprintf(&b, ".%d", v.Patch)
		if v.Revision != 0 && v.Revision != 0xFF {
			fmt.Fprintf(&b, ".%d", v.Revision)
		}
	}
	if v.Variant.Is16Bit() {
		b.WriteString(" 16-bit")
	}
	if v.Variant.IsISX() {
		b.WriteString(" with ISX")
	}
	if v.Variant.IsUnicode() && v.Before(6, 3, 0) {
		b.WriteString(" (u)")
	}
	return b.String()
}

// ParseInnoVersion extracts an InnoVersion from the raw 64-byte,
// NUL-padded version string stored at the start of the setup header
// (e.g. "Inno Setup Setup Data (6.4.0.1)", "My Inno Setup Extensions
// Setup Data (3.0.4)"). It returns false when raw does not contain a
// recognizable version in parentheses.
func ParseInnoVersion(raw []byte) (InnoVersion, bool) {
	raw = bytes.TrimRight(raw, "\x00")

	start := bytes.IndexByte(raw, '(')
	if start < 0 {
		return InnoVersion{}, false
	}
	end := bytes.IndexByte(raw[start:], ')')
	if end < 0 {
		return InnoVersion{}, false
	}
	version := raw[start+1 : start+end]
	remaining := raw[start+end+1:]

	parts := bytes.Split(version, []byte{'.'})
	nums := make([]uint8, 0, 4)
	for _, p := range parts {
		n, err := strconv.ParseUint(string(p), 10, 8)
		if err != nil {
			break
		}
		nums = append(nums, uint8(n))
	}
	if len(nums) < 3 {
		return InnoVersion{}, false
	}
	var revision uint8
	if len(nums) >= 4 {
		revision = nums[3]
	}

	v := NewInnoVersion(nums[0], nums[1], nums[2], revision)
	if v.AtLeast(6, 3, 0) {
		return v, true
	}

	var variant VersionVariant
	if uStart := bytes.IndexByte(remaining, '('); uStart >= 0 {
		if uEnd := bytes.IndexByte(remaining[uStart:], ')'); uEnd >= 0 {
			inner := remaining[uStart+1 : uStart+uEnd]
			if bytes.EqualFold(inner, []byte("u")) {
				variant |= VariantUnicode
			}
		}
	}
	if bytes.Contains(raw, []byte("ISX")) ||
		bytes.Contains(raw, []byte("Inno Setup Extensions")) {
		variant |= VariantISX
	}

	return InnoVersion{nums[0], nums[1], nums[2], revision, variant}, true
}

// ambiguousVersions lists versions that were not incremented between two
// distinct Inno Setup releases, so the version string alone does not
// pin down which release actually produced the installer.
var ambiguousVersions = []InnoVersion{
	NewInnoVersion(1, 3, 21, 0), // 1.3.21 or 1.3.24
	NewInnoVersion(2, 0, 1, 0),  // 2.0.1 or 2.0.2
	NewInnoVersion(3, 0, 3, 0),  // 3.0.3 or 3.0.4
	NewInnoVersion(4, 2, 3, 0),  // 4.2.3 or 4.2.4
	NewInnoVersion(5, 3, 10, 0), // 5.3.10 or 5.3.10.1
	NewInnoVersion(5, 4, 2, 0),  // 5.4.2 or 5.4.2.1
	NewInnoVersion(5, 5, 0, 0),  // 5.5.0 or 5.5.0.1
	NewInnoVersion(5, 5, 7, 0),  // 5.5.7 or 5.6.0
	NewInnoVersion(5, 5, 7, 1),  // 5.5.7 or unknown modification
}

// blackBoxVersions lists the Unicode BlackBox V2 builds, a third-party
// repack of Inno Setup that reused an existing ANSI/Unicode version
// number.
var blackBoxVersions = []InnoVersion{
	NewInnoVersion(5, 3, 10, 0),
	NewInnoVersion(5, 4, 2, 0),
	NewInnoVersion(5, 5, 0, 0),
}

// IsAmbiguous reports whether v is one of the versions that Inno Setup
// reused across two releases.
func (v InnoVersion) IsAmbiguous() bool {
	for _, a := range ambiguousVersions {
		if v.Equal(a) {
			return true
		}
	}
	return false
}

// IsBlackBox reports whether v is a Unicode BlackBox V2 build.
func (v InnoVersion) IsBlackBox() bool {
	if !v.Variant.IsUnicode() {
		return false
	}
	for _, b := range blackBoxVersions {
		if v.Equal(b) {
			return true
		}
	}
	return false
}

// AmbiguousCandidates returns the other releases that share v's version
// string, or nil if v is not ambiguous.
func (v InnoVersion) AmbiguousCandidates() []InnoVersion {
	switch {
	case v.Equal(NewInnoVersion(1, 3, 21, 0)):
		return []InnoVersion{NewInnoVersion(1, 3, 22, 0), NewInnoVersion(1, 3, 23, 0), NewInnoVersion(1, 3, 24, 0)}
	case v.Equal(NewInnoVersion(2, 0, 1, 0)):
		return []InnoVersion{NewInnoVersion(2, 0, 2, 0)}
	case v.Equal(NewInnoVersion(3, 0, 3, 0)):
		return []InnoVersion{NewInnoVersion(3, 0, 4, 0)}
	case v.Equal(NewInnoVersion(4, 2, 3, 0)):
		return []InnoVersion{NewInnoVersion(4, 2, 4, 0)}
	case v.Equal(NewInnoVersion(5, 3, 10, 0)):
		return []InnoVersion{NewInnoVersion(5, 3, 10, 1)}
	case v.Equal(NewInnoVersion(5, 4, 2, 0)):
		return []InnoVersion{NewInnoVersion(5, 4, 2, 1)}
	case v.Equal(NewInnoVersion(5, 5, 0, 0)):
		return []InnoVersion{NewInnoVersion(5, 5, 0, 1)}
	case v.Major == 5 && v.Minor == 5 && v.Patch == 7 && (v.Revision == 0 || v.Revision == 1):
		return []InnoVersion{NewInnoVersion(5, 5, 8, 0), NewInnoVersion(5, 5, 9, 0), NewInnoVersion(5, 6, 0, 0)}
	default:
		return nil
	}
}

// MaxSupportedVersion is the newest Inno Setup release this package
// knows how to decode.
var MaxSupportedVersion = NewInnoVersion(6, 6, 0xFF, 0xFF)
