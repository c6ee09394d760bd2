// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package inno parses Inno Setup installer executables and exposes their
// embedded structural metadata: application identity, languages, messages,
// permissions, setup types, components, tasks, directories, files, icons,
// ini/registry/delete/run directives, and file-location records.
//
// The package is read-only: it never executes installer logic, never
// decompresses or decrypts payload chunks, and never writes to the input.
// Callers supply a random-access byte stream (an io.ReaderAt, or a path via
// Open) and receive an immutable Document.
//
// Supported Inno Setup versions range from roughly 1.2 through 6.6,
// including the ISX fork, the 16-bit legacy variant, and the BlackBox
// Unicode variant. Installers newer than MaxSupportedVersion are rejected
// with an *UnsupportedVersionError, which matches ErrUnsupportedVersion
// under errors.Is.
package inno
