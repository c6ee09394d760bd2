// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "io"

// InstallVerbosity controls how much progress information Setup shows
// during installation.
type InstallVerbosity uint8

// InstallVerbosity values.
const (
	InstallVerbosityNormal InstallVerbosity = iota
	InstallVerbositySilent
	InstallVerbosityVerySilent
)

func (v InstallVerbosity) String() string {
	switch v {
	case InstallVerbosityNormal:
		return "Normal"
	case InstallVerbositySilent:
		return "Silent"
	case InstallVerbosityVerySilent:
		return "Very Silent"
	default:
		return "Unknown"
	}
}

func readInstallVerbosity(r io.Reader) (InstallVerbosity, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return InstallVerbosityNormal, err
	}
	if buf[0] > uint8(InstallVerbosityVerySilent) {
		return InstallVerbosityNormal, &UnknownEnumValueError{Type: "InstallVerbosity", Value: uint64(buf[0])}
	}
	return InstallVerbosity(buf[0]), nil
}

// LogMode controls how Setup writes its installation log file when
// logging is enabled.
type LogMode uint8

// LogMode values.
const (
	LogModeAppend LogMode = iota
	LogModeNew
	LogModeOverwrite
)

func (m LogMode) String() string {
	switch m {
	case LogModeAppend:
		return "Append"
	case LogModeNew:
		return "New"
	case LogModeOverwrite:
		return "Overwrite"
	default:
		return "Unknown"
	}
}

func readLogMode(r io.Reader) (LogMode, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return LogModeNew, err
	}
	if buf[0] > uint8(LogModeOverwrite) {
		return LogModeNew, &UnknownEnumValueError{Type: "LogMode", Value: uint64(buf[0])}
	}
	return LogMode(buf[0]), nil
}

// PrivilegeLevel is the level of Windows privilege an installer requires
// to run.
type PrivilegeLevel uint8

// PrivilegeLevel values.
const (
	PrivilegeLevelNone PrivilegeLevel = iota
	PrivilegeLevelPowerUser
	PrivilegeLevelAdmin
	PrivilegeLevelLowest
)

func (p PrivilegeLevel) String() string {
	switch p {
	case PrivilegeLevelNone:
		return "None"
	case PrivilegeLevelPowerUser:
		return "Power User"
	case PrivilegeLevelAdmin:
		return "Admin"
	case PrivilegeLevelLowest:
		return "Lowest"
	default:
		return "Unknown"
	}
}

// FromHeaderFlagsPrivilegeLevel derives the required privilege level from
// the header flags, for versions older than 3.0.4 that recorded only a
// single admin-required bit.
func FromHeaderFlagsPrivilegeLevel(flags HeaderFlags) PrivilegeLevel {
	if flags.Has(HeaderFlagAdminPrivilegesRequired) {
		return PrivilegeLevelAdmin
	}
	return PrivilegeLevelNone
}

func readPrivilegeLevel(r io.Reader) (PrivilegeLevel, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return PrivilegeLevelNone, err
	}
	if buf[0] > uint8(PrivilegeLevelLowest) {
		return PrivilegeLevelNone, &UnknownEnumValueError{Type: "PrivilegeLevel", Value: uint64(buf[0])}
	}
	return PrivilegeLevel(buf[0]), nil
}

// PrivilegesRequiredOverrides is the set of command-line/dialog overrides
// an end user is allowed to use to override PrivilegesRequired.
type PrivilegesRequiredOverrides uint8

// PrivilegesRequiredOverrides bits.
const (
	PrivilegesRequiredOverrideCommandLine PrivilegesRequiredOverrides = 1 << 0
	PrivilegesRequiredOverrideDialog      PrivilegesRequiredOverrides = 1 << 1
)

// Has reports whether every bit in flag is set in p.
func (p PrivilegesRequiredOverrides) Has(flag PrivilegesRequiredOverrides) bool {
	return p&flag == flag
}

// LanguageDetection controls how Setup chooses its UI language.
type LanguageDetection uint8

// LanguageDetection values.
const (
	LanguageDetectionUILanguage LanguageDetection = iota
	LanguageDetectionLocaleLanguage
	LanguageDetectionNone
)

func (d LanguageDetection) String() string {
	switch d {
	case LanguageDetectionUILanguage:
		return "UILanguage"
	case LanguageDetectionLocaleLanguage:
		return "LocaleLanguage"
	case LanguageDetectionNone:
		return "None"
	default:
		return "Unknown"
	}
}

// FromHeaderFlagsLanguageDetection derives the language-detection mode
// from the header flags, for versions older than 4.0.10.
func FromHeaderFlagsLanguageDetection(flags HeaderFlags) LanguageDetection {
	if flags.Has(HeaderFlagDetectLanguageUsingLocale) {
		return LanguageDetectionLocaleLanguage
	}
	return LanguageDetectionUILanguage
}

func readLanguageDetection(r io.Reader) (LanguageDetection, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return LanguageDetectionUILanguage, err
	}
	if buf[0] > uint8(LanguageDetectionNone) {
		return LanguageDetectionUILanguage, &UnknownEnumValueError{Type: "LanguageDetection", Value: uint64(buf[0])}
	}
	return LanguageDetection(buf[0]), nil
}
