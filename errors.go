// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Document construction and the lower-level
// decoders it drives.
var (
	// ErrNotInnoFile is returned when the input PE carries no recognizable
	// Inno Setup setup-loader table or legacy offset table.
	ErrNotInnoFile = errors.New("inno: not an Inno Setup installer")

	// ErrUnknownLoaderSignature is returned when a setup-loader signature
	// was found but does not match any known Inno Setup release.
	ErrUnknownLoaderSignature = errors.New("inno: unrecognized setup loader signature")

	// ErrUnsupportedVersion matches, under errors.Is, the
	// *UnsupportedVersionError returned when the embedded version exceeds
	// MaxSupportedVersion.
	ErrUnsupportedVersion = errors.New("inno: installer version is newer than supported")

	// ErrHeaderCrcMismatch is not returned by this package: a CRC32
	// failure in the stream header is reported as a
	// *CrcChecksumMismatchError with Location "Inno stream header".
	ErrHeaderCrcMismatch = errors.New("inno: header block CRC mismatch")

	// ErrTruncatedStream is returned when the input is too short to hold
	// the legacy setup-loader offset table, or when a located setup-loader
	// table or header offset lies outside the input.
	ErrTruncatedStream = errors.New("inno: stream ended before expected data")
)

// UnexpectedExtraDataError is returned when a stream still has bytes left
// after every expected record has been consumed from it.
type UnexpectedExtraDataError struct {
	Stream string
}

func (e *UnexpectedExtraDataError) Error() string {
	return fmt.Sprintf("inno: unexpected extra data left in %s stream", e.Stream)
}

// UnsupportedVersionError is returned when the installer's embedded
// version is newer than MaxSupportedVersion.
type UnsupportedVersionError struct {
	Version InnoVersion
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("inno: unsupported version %s", e.Version)
}

// Is reports whether target is ErrUnsupportedVersion.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// UnknownVersionError is returned when the 64-byte version string embedded
// in the setup header does not match any known format.
type UnknownVersionError struct {
	Raw string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("inno: unknown version string %q", e.Raw)
}

// CrcChecksumMismatchError is returned when a CRC32-protected region fails
// its check. Location names the region: "Setup Loader", "Encryption
// header", "Inno stream header", or "Inno block" (a 4 KiB sub-block).
type CrcChecksumMismatchError struct {
	Location string
	Actual   uint32
	Expected uint32
}

func (e *CrcChecksumMismatchError) Error() string {
	return fmt.Sprintf("inno: CRC32 mismatch in %s: got %#08x, want %#08x",
		e.Location, e.Actual, e.Expected)
}

// UnknownEnumValueError is returned when a single-byte enum field carries
// a value outside the range Inno Setup is known to have ever written.
type UnknownEnumValueError struct {
	Type  string
	Value uint64
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("inno: unknown %s value %d", e.Type, e.Value)
}
