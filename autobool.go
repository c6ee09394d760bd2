// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "io"

// AutoBool is a tri-state boolean used by several header settings that
// can either follow Inno Setup's own default behavior or be forced on
// or off.
type AutoBool uint8

// AutoBool values.
const (
	AutoBoolAuto AutoBool = iota
	AutoBoolNo
	AutoBoolYes
)

func (b AutoBool) String() string {
	switch b {
	case AutoBoolAuto:
		return "Auto"
	case AutoBoolNo:
		return "No"
	case AutoBoolYes:
		return "Yes"
	default:
		return "Unknown"
	}
}

// FromHeaderFlagsAutoBool derives an AutoBool from whether flag is set
// in flags, for header versions old enough to fold the setting into the
// general flag bitset instead of giving it its own field.
func FromHeaderFlagsAutoBool(flags HeaderFlags, flag HeaderFlags) AutoBool {
	if flags.Has(flag) {
		return AutoBoolYes
	}
	return AutoBoolNo
}

func readAutoBool(r io.Reader) (AutoBool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return AutoBoolAuto, err
	}
	if buf[0] > uint8(AutoBoolYes) {
		return AutoBoolAuto, &UnknownEnumValueError{Type: "AutoBool", Value: uint64(buf[0])}
	}
	return AutoBool(buf[0]), nil
}
