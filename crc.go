// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"hash"
	"hash/crc32"
	"io"
)

// crc32Reader wraps an io.Reader and accumulates an IEEE CRC32 over every
// byte read through it, mirroring how Inno Setup protects each 4 KiB
// sub-block of its primary stream and the setup-loader table.
type crc32Reader struct {
	inner io.Reader
	hash  hash.Hash32
}

func newCrc32Reader(inner io.Reader) *crc32Reader {
	return &crc32Reader{inner: inner, hash: crc32.NewIEEE()}
}

func (c *crc32Reader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	if n > 0 {
		c.hash.Write(p[:n])
	}
	return n, err
}

// Sum32 finalizes and returns the accumulated CRC32.
func (c *crc32Reader) Sum32() uint32 { return c.hash.Sum32() }
