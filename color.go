// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"encoding/binary"
	"fmt"
)

// Color is an RGBA color stored in little-endian byte order, as used by
// the wizard's background and image colors.
type Color uint32

// NewColor builds a Color from a packed little-endian rgba value.
func NewColor(rgba uint32) Color { return Color(rgba) }

// NewColorRGBA builds a Color from its individual channels.
func NewColorRGBA(red, green, blue, alpha uint8) Color {
	return Color(binary.LittleEndian.Uint32([]byte{alpha, blue, green, red}))
}

// RGBA returns the red, green, blue, and alpha channels.
func (c Color) RGBA() (red, green, blue, alpha uint8) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(c))
	return buf[0], buf[1], buf[2], buf[3]
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

func readColor(r *byteReader) (Color, error) {
	v, err := r.ReadUint32()
	return Color(v), err
}
