// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"fmt"
	"io"
)

// WizardStyle is the visual style of the wizard window Setup presents.
// Inno Setup redefined this byte's meaning in 6.6: older versions wrote
// Classic/Modern, 6.6 onward writes Light/Dark/Dynamic.
type WizardStyle uint8

// WizardStyle values.
const (
	WizardStyleLight WizardStyle = iota
	WizardStyleDark
	WizardStyleDynamic
	WizardStyleClassic
	WizardStyleModern
)

func (s WizardStyle) String() string {
	switch s {
	case WizardStyleLight:
		return "Light"
	case WizardStyleDark:
		return "Dark"
	case WizardStyleDynamic:
		return "Dynamic"
	case WizardStyleClassic:
		return "Classic"
	case WizardStyleModern:
		return "Modern"
	default:
		return "Unknown"
	}
}

func readWizardStyle(r io.Reader, version InnoVersion) (WizardStyle, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return WizardStyleClassic, err
	}
	if version.AtLeast(6, 6, 0) {
		switch buf[0] {
		case 0:
			return WizardStyleLight, nil
		case 1:
			return WizardStyleDark, nil
		case 2:
			return WizardStyleDynamic, nil
		}
	} else {
		switch buf[0] {
		case 0:
			return WizardStyleClassic, nil
		case 1:
			return WizardStyleModern, nil
		}
	}
	return WizardStyleClassic, &UnknownEnumValueError{Type: "WizardStyle", Value: uint64(buf[0])}
}

// WizardSizePercent is the wizard window's horizontal and vertical size,
// expressed as percentages of its base size, each between 100 and 150.
type WizardSizePercent struct {
	Horizontal uint32
	Vertical   uint32
}

// DefaultWizardSizePercentFor returns the default WizardSizePercent for
// style: 100,100 for Classic and 120,120 for Modern.
func DefaultWizardSizePercentFor(style WizardStyle) WizardSizePercent {
	if style == WizardStyleModern {
		return WizardSizePercent{Horizontal: 120, Vertical: 120}
	}
	return WizardSizePercent{Horizontal: 100, Vertical: 100}
}

func (p WizardSizePercent) String() string {
	return fmt.Sprintf("%d,%d", p.Horizontal, p.Vertical)
}

func readWizardSizePercent(r *byteReader) (WizardSizePercent, error) {
	var p WizardSizePercent
	var err error
	if p.Horizontal, err = r.ReadUint32(); err != nil {
		return p, err
	}
	if p.Vertical, err = r.ReadUint32(); err != nil {
		return p, err
	}
	return p, nil
}

// ImageAlphaFormat describes how the wizard's banner image uses its
// alpha channel.
type ImageAlphaFormat uint8

// ImageAlphaFormat values.
const (
	ImageAlphaFormatIgnored ImageAlphaFormat = iota
	ImageAlphaFormatDefined
	ImageAlphaFormatPremultiplied
)

func (f ImageAlphaFormat) String() string {
	switch f {
	case ImageAlphaFormatIgnored:
		return "Ignored"
	case ImageAlphaFormatDefined:
		return "Defined"
	case ImageAlphaFormatPremultiplied:
		return "Premultiplied"
	default:
		return "Unknown"
	}
}

func readImageAlphaFormat(r io.Reader) (ImageAlphaFormat, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ImageAlphaFormatIgnored, err
	}
	if buf[0] > uint8(ImageAlphaFormatPremultiplied) {
		return ImageAlphaFormatIgnored, &UnknownEnumValueError{Type: "ImageAlphaFormat", Value: uint64(buf[0])}
	}
	return ImageAlphaFormat(buf[0]), nil
}

// WizardSettings are the wizard window's cosmetic settings: background
// colors, scaling, and visual style. Field-read order and version gating
// mirror the setup header's own wizard sub-record, which is read before
// the header's later standalone dark-mode color overrides.
type WizardSettings struct {
	ImageAlphaFormat                ImageAlphaFormat
	ImageBackColor                  Color
	SmallImageBackColor             Color
	ImageBackColorDynamicDark       Color
	SmallImageBackColorDynamicDark  Color
	SizePercent                     WizardSizePercent
	Style                           WizardStyle
}

// readWizardSettings reads the wizard sub-record embedded in the setup
// header. It does not read the 6.5.2+/6.6+ dark-mode color fields, which
// the header reads separately afterward.
func readWizardSettings(r io.Reader, version InnoVersion) (WizardSettings, error) {
	br := newByteReader(r)
	var w WizardSettings
	var err error

	if !version.AtLeast(5, 5, 7) {
		if w.ImageBackColor, err = readColor(br); err != nil {
			return w, err
		}
	}
	if (version.AtLeast(2, 0, 0) && version.Before(5, 0, 4)) || version.Variant.IsISX() {
		if w.SmallImageBackColor, err = readColor(br); err != nil {
			return w, err
		}
	}

	if version.AtLeast(6, 0, 0) && version.Before(6, 6, 0) {
		if w.Style, err = readWizardStyle(br, version); err != nil {
			return w, err
		}
	}

	if version.AtLeast(6, 0, 0) {
		if w.SizePercent, err = readWizardSizePercent(br); err != nil {
			return w, err
		}
	}

	if version.AtLeast(6, 6, 0) {
		if w.Style, err = readWizardStyle(br, version); err != nil {
			return w, err
		}
	}

	if version.AtLeast(5, 5, 7) {
		if w.ImageAlphaFormat, err = readImageAlphaFormat(br); err != nil {
			return w, err
		}
	}

	return w, nil
}
