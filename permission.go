// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "io"

// Permission is a raw Windows security descriptor, in self-relative
// binary form, referenced by index from Directory, FileEntry, and
// Registry entries. It is not text and is never decoded with a codepage.
type Permission struct {
	Raw []byte
}

func readPermission(r io.Reader) (Permission, error) {
	raw, err := newByteReader(r).ReadRawPascalString()
	return Permission{Raw: raw}, err
}
