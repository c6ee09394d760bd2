// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding"
)

// ISSigKey is one public key entry, given by its X and Y coordinates,
// from an ISSig-signed installer's ISSIG_KEY table, used to verify the detached .issig
// signature of a downloaded auxiliary file.
type ISSigKey struct {
	PublicX   string
	PublicY   string
	RuntimeID string
}

func readISSigKey(r io.Reader, codepage encoding.Encoding) (ISSigKey, error) {
	br := newByteReader(r)
	var k ISSigKey
	var err error

	if k.PublicX, err = br.ReadDecodedPascalString(codepage); err != nil {
		return k, err
	}
	if k.PublicY, err = br.ReadDecodedPascalString(codepage); err != nil {
		return k, err
	}
	if k.RuntimeID, err = br.ReadDecodedPascalString(codepage); err != nil {
		return k, err
	}

	return k, nil
}
