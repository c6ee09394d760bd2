// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"io"

	"golang.org/x/text/encoding/charmap"
)

// defaultCodepage is the codepage Inno Setup strings are decoded with
// unless a language entry declares a different one. Inno Setup's own
// Delphi runtime defaults to Windows-1252 for ANSI installers.
var defaultCodepage = charmap.Windows1252

// Header is the setup header record: the single largest record in an
// Inno Setup installer, carrying application identity, every UI and
// install-behavior setting, and the per-entry-type counts that size the
// records read afterward. Most Pascal-string fields are kept as their raw,
// undecoded bytes, since the codepage needed to decode an ANSI
// installer's strings is not known until its language entries have been
// read; call Decode once that codepage is available. UninstallIconName,
// LicenseText, InfoBefore, InfoAfter, UninstallerSignature and
// CompiledCode are the exception: they are decoded with Windows-1252 as
// they are read.
type Header struct {
	Flags HeaderFlags

	AppName                             []byte
	AppVersionedName                    []byte
	AppID                               []byte
	AppCopyright                        []byte
	AppPublisher                        []byte
	AppPublisherURL                     []byte
	AppSupportPhone                     []byte
	AppSupportURL                       []byte
	AppUpdatesURL                       []byte
	AppVersion                          []byte
	DefaultDirName                      []byte
	DefaultGroupName                    []byte
	UninstallIconName                   string
	BaseFilename                        []byte
	UninstallFilesDir                   []byte
	UninstallName                       []byte
	UninstallIcon                       []byte
	AppMutex                            []byte
	DefaultUserName                     []byte
	DefaultUserOrganisation             []byte
	DefaultSerial                       []byte
	AppReadmeFile                       []byte
	AppContact                          []byte
	AppComments                         []byte
	AppModifyPath                       []byte
	CreateUninstallRegistryKey          []byte
	Uninstallable                       []byte
	CloseApplicationsFilter             []byte
	SetupMutex                          []byte
	ChangesEnvironment                  []byte
	ChangesAssociations                 []byte
	ArchitecturesAllowedExpr            []byte
	ArchitecturesInstallIn64BitModeExpr []byte
	CloseApplicationsFilterExcludes     []byte
	SevenZipLibraryName                 []byte

	LicenseText          string
	InfoBefore           string
	InfoAfter            string
	UninstallerSignature string
	CompiledCode         string

	// LeadBytes marks, for non-Unicode installers from 2.0.6 onward, which
	// byte values begin a DBCS lead byte under the installer's codepage.
	LeadBytes [256 / 8]byte

	EntryCounts EntryCounts

	WindowsVersionRange WindowsVersionRange

	BackgroundColor  Color
	BackgroundColor2 Color
	Wizard           WizardSettings
	EncryptionHeader *EncryptionHeader

	ExtraDiskSpaceRequired uint64
	SlicesPerDisk          uint32

	InstallVerbosity                   InstallVerbosity
	UninstallLogMode                   LogMode
	UninstallStyle                     WizardStyle
	DirExistsWarning                   AutoBool
	PrivilegesRequired                 PrivilegeLevel
	PrivilegesRequiredOverridesAllowed PrivilegesRequiredOverrides
	ShowLanguageDialog                 AutoBool
	LanguageDetection                  LanguageDetection
	Compression                        Compression

	SignedUninstallerOriginalSize   uint32
	SignedUninstallerHeaderChecksum uint32

	DisableDirPage          AutoBool
	DisableProgramGroupPage AutoBool
	UninstallDisplaySize    uint64

	ArchitecturesAllowed            Architecture
	ArchitecturesDisallowed         Architecture
	ArchitecturesInstallIn64BitMode Architecture
}

// ReadHeader reads the setup header from r using the field layout and
// version gates appropriate for version.
func ReadHeader(r io.Reader, version InnoVersion) (*Header, error) {
	h := &Header{}
	br := newByteReader(r)
	var err error

	if version.Before(1, 3, 0) {
		if _, err = br.ReadUint32(); err != nil { // uncompressed size of old-format header, unused
			return nil, err
		}
	}

	if h.AppName, err = br.ReadRawPascalString(); err != nil {
		return nil, err
	}
	if h.AppVersionedName, err = br.ReadRawPascalString(); err != nil {
		return nil, err
	}
	if version.AtLeast(1, 3, 0) {
		if h.AppID, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if h.AppCopyright, err = br.ReadRawPascalString(); err != nil {
		return nil, err
	}
	if version.AtLeast(1, 3, 0) {
		if h.AppPublisher, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.AppPublisherURL, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 1, 13) {
		if h.AppSupportPhone, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(1, 3, 0) {
		if h.AppSupportURL, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.AppUpdatesURL, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.AppVersion, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if h.DefaultDirName, err = br.ReadRawPascalString(); err != nil {
		return nil, err
	}
	if h.DefaultGroupName, err = br.ReadRawPascalString(); err != nil {
		return nil, err
	}
	if version.Before(3, 0, 0) {
		if h.UninstallIconName, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
	}
	if h.BaseFilename, err = br.ReadRawPascalString(); err != nil {
		return nil, err
	}

	oldLicenseRange := version.AtLeast(1, 3, 0) && version.Before(5, 2, 5)
	if oldLicenseRange {
		if h.LicenseText, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
		if h.InfoBefore, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
		if h.InfoAfter, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(1, 3, 3) {
		if h.UninstallFilesDir, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(1, 3, 6) {
		if h.UninstallName, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.UninstallIcon, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(1, 3, 14) {
		if h.AppMutex, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(3, 0, 0) {
		if h.DefaultUserName, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.DefaultUserOrganisation, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(4, 0, 0) {
		if h.DefaultSerial, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}

	oldCompiledCodeRange := version.AtLeast(4, 0, 0) && version.Before(5, 2, 5)
	if oldCompiledCodeRange || (version.Variant.IsISX() && version.AtLeast(1, 3, 24)) {
		if h.CompiledCode, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(4, 2, 4) {
		if h.AppReadmeFile, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.AppContact, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.AppComments, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.AppModifyPath, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 3, 8) {
		if h.CreateUninstallRegistryKey, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 3, 10) {
		if h.Uninstallable, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 5, 0) {
		if h.CloseApplicationsFilter, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 5, 6) {
		if h.SetupMutex, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 6, 1) {
		if h.ChangesEnvironment, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.ChangesAssociations, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(6, 3, 0) {
		if h.ArchitecturesAllowedExpr, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
		if h.ArchitecturesInstallIn64BitModeExpr, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(6, 4, 2) {
		if h.CloseApplicationsFilterExcludes, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(6, 5, 0) {
		if h.SevenZipLibraryName, err = br.ReadRawPascalString(); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(5, 2, 5) {
		if h.LicenseText, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
		if h.InfoBefore, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
		if h.InfoAfter, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 2, 1) && version.Before(5, 3, 10) {
		if h.UninstallerSignature, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 2, 5) {
		if h.CompiledCode, err = br.ReadDecodedPascalString(defaultCodepage); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(2, 0, 6) && !version.Variant.IsUnicode() {
		buf, err := br.ReadBytes(len(h.LeadBytes))
		if err != nil {
			return nil, err
		}
		copy(h.LeadBytes[:], buf)
	}

	if h.EntryCounts, err = readEntryCounts(br, version); err != nil {
		return nil, err
	}

	var licenseSize, infoBeforeSize, infoAfterSize uint32
	if version.Before(1, 3, 0) {
		if licenseSize, err = br.ReadUint32(); err != nil {
			return nil, err
		}
		if infoBeforeSize, err = br.ReadUint32(); err != nil {
			return nil, err
		}
		if infoAfterSize, err = br.ReadUint32(); err != nil {
			return nil, err
		}
	}

	if h.WindowsVersionRange, err = readWindowsVersionRange(br.r, version); err != nil {
		return nil, err
	}

	if version.BeforeRev(6, 4, 0, 1) {
		if h.BackgroundColor, err = readColor(br); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(1, 3, 3) && version.BeforeRev(6, 4, 0, 1) {
		if h.BackgroundColor2, err = readColor(br); err != nil {
			return nil, err
		}
	}

	if h.Wizard, err = readWizardSettings(br.r, version); err != nil {
		return nil, err
	}

	switch {
	case version.AtLeast(6, 4, 0) && version.Before(6, 5, 0):
		eh, err := ReadEncryptionHeader(br.r, version)
		if err != nil {
			return nil, err
		}
		h.EncryptionHeader = &eh
	case version.Before(6, 4, 0):
		var err error
		if version.AtLeast(5, 3, 9) {
			_, err = readSha1Checksum(br)
		} else if version.AtLeast(4, 2, 0) {
			_, err = readMD5Checksum(br)
		} else {
			_, err = readCRC32Checksum(br)
		}
		if err != nil {
			return nil, err
		}
		if version.AtLeast(4, 2, 2) {
			if _, err = br.ReadBytes(8); err != nil {
				return nil, err
			}
		}
	}

	if version.AtLeast(6, 5, 2) {
		if h.Wizard.ImageBackColor, err = readColor(br); err != nil {
			return nil, err
		}
		if h.Wizard.SmallImageBackColor, err = readColor(br); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(6, 6, 0) {
		if h.Wizard.ImageBackColorDynamicDark, err = readColor(br); err != nil {
			return nil, err
		}
		if h.Wizard.SmallImageBackColorDynamicDark, err = readColor(br); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(4, 0, 0) {
		if h.ExtraDiskSpaceRequired, err = br.ReadUint64(); err != nil {
			return nil, err
		}
		if h.SlicesPerDisk, err = br.ReadUint32(); err != nil {
			return nil, err
		}
	} else {
		size, err := br.ReadUint32()
		if err != nil {
			return nil, err
		}
		h.ExtraDiskSpaceRequired = uint64(size)
		h.SlicesPerDisk = 1
	}

	if (version.AtLeast(2, 0, 0) && version.Before(5, 0, 0)) ||
		(version.Variant.IsISX() && version.AtLeast(1, 3, 4)) {
		if h.InstallVerbosity, err = readInstallVerbosity(br.r); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(1, 3, 0) {
		if h.UninstallLogMode, err = readLogMode(br.r); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 0, 0) {
		h.UninstallStyle = WizardStyleModern
	} else if version.AtLeast(2, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 13)) {
		if h.UninstallStyle, err = readWizardStyle(br.r, version); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(1, 3, 6) {
		if h.DirExistsWarning, err = readAutoBool(br.r); err != nil {
			return nil, err
		}
	}
	if version.Variant.IsISX() && version.AtLeast(2, 0, 10) && version.Before(3, 0, 0) {
		if _, err = br.ReadUint32(); err != nil { // legacy ISX code-line offset, unused
			return nil, err
		}
	}
	if version.AtLeast(3, 0, 0) && version.Before(3, 0, 3) {
		v, err := readAutoBool(br.r)
		if err != nil {
			return nil, err
		}
		switch v {
		case AutoBoolYes:
			h.Flags.Set(HeaderFlagAlwaysRestart)
		case AutoBoolAuto:
			h.Flags.Set(HeaderFlagRestartIfNeededByRun)
		}
	}
	if version.AtLeast(3, 0, 4) || (version.Variant.IsISX() && version.AtLeast(3, 0, 3)) {
		if h.PrivilegesRequired, err = readPrivilegeLevel(br.r); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 7, 0) {
		v, err := br.ReadUint8()
		if err != nil {
			return nil, err
		}
		h.PrivilegesRequiredOverridesAllowed = PrivilegesRequiredOverrides(v)
	}
	if version.AtLeast(4, 0, 10) {
		if h.ShowLanguageDialog, err = readAutoBool(br.r); err != nil {
			return nil, err
		}
		if h.LanguageDetection, err = readLanguageDetection(br.r); err != nil {
			return nil, err
		}
	}
	if version.AtLeast(5, 3, 9) {
		if h.Compression, err = readCompression(br.r); err != nil {
			return nil, err
		}
	}

	switch {
	case version.AtLeast(5, 1, 0) && version.Before(6, 3, 0):
		allowed, err := br.ReadUint8()
		if err != nil {
			return nil, err
		}
		install64, err := br.ReadUint8()
		if err != nil {
			return nil, err
		}
		h.ArchitecturesAllowed = StoredArchitecture(allowed).Architecture()
		h.ArchitecturesInstallIn64BitMode = StoredArchitecture(install64).Architecture()
	case version.Before(5, 1, 0):
		h.ArchitecturesAllowed = StoredArchitectureAll.Architecture()
		h.ArchitecturesInstallIn64BitMode = StoredArchitectureAll.Architecture()
	}

	if version.AtLeast(5, 2, 1) && version.Before(5, 3, 10) {
		if h.SignedUninstallerOriginalSize, err = br.ReadUint32(); err != nil {
			return nil, err
		}
		if h.SignedUninstallerHeaderChecksum, err = br.ReadUint32(); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(5, 3, 3) {
		if h.DisableDirPage, err = readAutoBool(br.r); err != nil {
			return nil, err
		}
		if h.DisableProgramGroupPage, err = readAutoBool(br.r); err != nil {
			return nil, err
		}
	}

	if version.AtLeast(5, 5, 0) {
		if h.UninstallDisplaySize, err = br.ReadUint64(); err != nil {
			return nil, err
		}
	} else if version.AtLeast(5, 3, 6) {
		size, err := br.ReadUint32()
		if err != nil {
			return nil, err
		}
		h.UninstallDisplaySize = uint64(size)
	}

	if version.IsBlackBox() {
		if _, err = br.ReadUint8(); err != nil {
			return nil, err
		}
	}

	flags, err := readHeaderFlags(br, version)
	if err != nil {
		return nil, err
	}
	h.Flags.Set(flags)

	if version.Before(3, 0, 4) {
		h.PrivilegesRequired = FromHeaderFlagsPrivilegeLevel(h.Flags)
	}
	if version.Before(4, 0, 10) {
		h.ShowLanguageDialog = FromHeaderFlagsAutoBool(h.Flags, HeaderFlagShowLanguageDialog)
		h.LanguageDetection = FromHeaderFlagsLanguageDetection(h.Flags)
	}
	if version.Before(4, 1, 5) {
		h.Compression = FromHeaderFlagsCompression(h.Flags)
	}
	if version.Before(5, 3, 3) {
		h.DisableDirPage = FromHeaderFlagsAutoBool(h.Flags, HeaderFlagDisableDirPage)
		h.DisableProgramGroupPage = FromHeaderFlagsAutoBool(h.Flags, HeaderFlagDisableProgramGroupPage)
	}

	if version.Before(1, 3, 0) {
		if h.LicenseText, err = br.ReadSizedDecodedPascalString(licenseSize, defaultCodepage); err != nil {
			return nil, err
		}
		if h.InfoBefore, err = br.ReadSizedDecodedPascalString(infoBeforeSize, defaultCodepage); err != nil {
			return nil, err
		}
		if h.InfoAfter, err = br.ReadSizedDecodedPascalString(infoAfterSize, defaultCodepage); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Decode decodes every Pascal-string field still held as raw bytes using
// codepage: the codepage the installer's primary language entry
// declares, once known.
func (h *Header) Decode(codepage func([]byte) (string, error)) (map[string]string, error) {
	fields := map[string][]byte{
		"AppName":                             h.AppName,
		"AppVersionedName":                    h.AppVersionedName,
		"AppID":                               h.AppID,
		"AppCopyright":                        h.AppCopyright,
		"AppPublisher":                        h.AppPublisher,
		"AppPublisherURL":                     h.AppPublisherURL,
		"AppSupportPhone":                     h.AppSupportPhone,
		"AppSupportURL":                       h.AppSupportURL,
		"AppUpdatesURL":                       h.AppUpdatesURL,
		"AppVersion":                          h.AppVersion,
		"DefaultDirName":                      h.DefaultDirName,
		"DefaultGroupName":                    h.DefaultGroupName,
		"BaseFilename":                        h.BaseFilename,
		"UninstallFilesDir":                   h.UninstallFilesDir,
		"UninstallName":                       h.UninstallName,
		"UninstallIcon":                       h.UninstallIcon,
		"AppMutex":                            h.AppMutex,
		"DefaultUserName":                     h.DefaultUserName,
		"DefaultUserOrganisation":             h.DefaultUserOrganisation,
		"DefaultSerial":                       h.DefaultSerial,
		"AppReadmeFile":                       h.AppReadmeFile,
		"AppContact":                          h.AppContact,
		"AppComments":                         h.AppComments,
		"AppModifyPath":                       h.AppModifyPath,
		"CreateUninstallRegistryKey":          h.CreateUninstallRegistryKey,
		"Uninstallable":                       h.Uninstallable,
		"CloseApplicationsFilter":             h.CloseApplicationsFilter,
		"SetupMutex":                          h.SetupMutex,
		"ChangesEnvironment":                  h.ChangesEnvironment,
		"ChangesAssociations":                 h.ChangesAssociations,
		"ArchitecturesAllowedExpr":            h.ArchitecturesAllowedExpr,
		"ArchitecturesInstallIn64BitModeExpr": h.ArchitecturesInstallIn64BitModeExpr,
		"CloseApplicationsFilterExcludes":     h.CloseApplicationsFilterExcludes,
		"SevenZipLibraryName":                 h.SevenZipLibraryName,
	}
	out := make(map[string]string, len(fields))
	for name, raw := range fields {
		if raw == nil {
			continue
		}
		s, err := codepage(raw)
		if err != nil {
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

// ProductCode returns the Product Code this installer would register
// under in the Windows registry: the App ID with Inno's "_is1" suffix
// appended. An App ID starting with "{{" loses its first '{'.
func (h *Header) ProductCode(appID string) string {
	const is1Suffix = "_is1"
	if len(appID) >= 2 && appID[0] == '{' && appID[1] == '{' {
		appID = appID[1:]
	}
	return appID + is1Suffix
}
