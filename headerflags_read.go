// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

// headerFlagBitReader accumulates a HeaderFlags value bit by bit. It
// exists because HeaderFlags spans 128 bits, wider than the 64-bit
// FlagReader used by entry records, but follows the exact same
// read-only-when-the-version-gate-holds discipline.
type headerFlagBitReader struct {
	bit *flagBitReader
	acc HeaderFlags
	err error
}

func newHeaderFlagBitReader(r *byteReader) *headerFlagBitReader {
	return &headerFlagBitReader{bit: newFlagBitReader(r)}
}

func (h *headerFlagBitReader) add(flag HeaderFlags) *headerFlagBitReader {
	return h.addIf(true, flag)
}

func (h *headerFlagBitReader) addIf(cond bool, flag HeaderFlags) *headerFlagBitReader {
	if h.err != nil || !cond {
		return h
	}
	set, err := h.bit.nextBit()
	if err != nil {
		h.err = err
		return h
	}
	if set {
		h.acc.Set(flag)
	}
	return h
}

func (h *headerFlagBitReader) finalize() (HeaderFlags, error) {
	if h.err != nil {
		return HeaderFlags{}, h.err
	}
	if err := h.bit.finalize(0); err != nil {
		return HeaderFlags{}, err
	}
	return h.acc, nil
}

// readHeaderFlags reads the setup header's packed boolean flag field, a
// sequence of version-gated single bits whose exact set and order has
// shifted across every Inno Setup release since 1.2.
func readHeaderFlags(r *byteReader, version InnoVersion) (HeaderFlags, error) {
	isx := version.Variant.IsISX()
	h := newHeaderFlagBitReader(r)

	h.add(HeaderFlagDisableStartupPrompt)
	h.addIf(version.Before(5, 3, 10), HeaderFlagUninstallable)
	h.add(HeaderFlagCreateAppDir)
	h.addIf(version.Before(5, 3, 3), HeaderFlagDisableDirPage)
	h.addIf(version.Before(1, 3, 6), HeaderFlagDisableDirExistsWarning)
	h.addIf(version.Before(5, 3, 3), HeaderFlagDisableProgramGroupPage)
	h.add(HeaderFlagAllowNoIcons)
	h.addIf(!(version.AtLeast(3, 0, 0) && version.Before(3, 0, 3)), HeaderFlagAlwaysRestart)
	h.addIf(version.Before(1, 3, 3), HeaderFlagBackSolid)
	h.add(HeaderFlagAlwaysUsePersonalGroup)
	classicWindow := version.BeforeRev(6, 4, 0, 1)
	h.addIf(classicWindow, HeaderFlagWindowVisible)
	h.addIf(classicWindow, HeaderFlagWindowShowCaption)
	h.addIf(classicWindow, HeaderFlagWindowResizable)
	h.addIf(classicWindow, HeaderFlagWindowStartMaximised)
	h.add(HeaderFlagEnabledDirDoesntExistWarning)
	h.addIf(version.Before(4, 1, 2), HeaderFlagDisableAppendDir)
	h.add(HeaderFlagPassword)
	h.addIf(version.AtLeast(1, 2, 6), HeaderFlagAllowRootDirectory)
	h.addIf(version.AtLeast(1, 2, 14), HeaderFlagDisableFinishedPage)
	h.addIf(version.Before(3, 0, 4), HeaderFlagAdminPrivilegesRequired)
	h.addIf(version.Before(3, 0, 0), HeaderFlagAlwaysCreateUninstallIcon)
	h.addIf(version.Before(1, 3, 6), HeaderFlagOverwriteUninstallRegEntries)
	h.addIf(version.Before(5, 6, 1), HeaderFlagChangesAssociations)
	h.addIf(version.AtLeast(1, 3, 0) && version.Before(5, 3, 8), HeaderFlagCreateUninstallRegKey)
	h.addIf(version.AtLeast(1, 3, 1), HeaderFlagUsePreviousAppDir)
	h.addIf(version.AtLeast(1, 3, 3) && version.BeforeRev(6, 4, 0, 1), HeaderFlagBackColorHorizontal)
	h.addIf(version.AtLeast(1, 3, 10), HeaderFlagUsePreviousGroup)
	h.addIf(version.AtLeast(1, 3, 20), HeaderFlagUpdateUninstallLogAppName)
	h.addIf(version.AtLeast(2, 0, 0) || (isx && version.AtLeast(1, 3, 10)), HeaderFlagUsePreviousSetupType)
	v2Group := version.AtLeast(2, 0, 0)
	h.addIf(v2Group, HeaderFlagDisableReadyMemo)
	h.addIf(v2Group, HeaderFlagAlwaysShowComponentsList)
	h.addIf(v2Group, HeaderFlagFlatComponentsList)
	h.addIf(v2Group, HeaderFlagShowComponentSizes)
	h.addIf(v2Group, HeaderFlagUsePreviousTasks)
	h.addIf(v2Group, HeaderFlagDisableReadyPage)
	v207Group := version.AtLeast(2, 0, 7)
	h.addIf(v207Group, HeaderFlagAlwaysShowDirOnReadyPage)
	h.addIf(v207Group, HeaderFlagAlwaysShowGroupOnReadyPage)
	h.addIf(version.AtLeast(2, 0, 17) && version.Before(4, 1, 5), HeaderFlagBZipUsed)
	h.addIf(version.AtLeast(2, 0, 18), HeaderFlagAllowUNCPath)
	v3Group := version.AtLeast(3, 0, 0)
	h.addIf(v3Group, HeaderFlagUserInfoPage)
	h.addIf(v3Group, HeaderFlagUsePreviousUserInfo)
	h.addIf(version.AtLeast(3, 0, 1), HeaderFlagUninstallRestartComputer)
	h.addIf(version.AtLeast(3, 0, 3), HeaderFlagRestartIfNeededByRun)
	h.addIf(version.AtLeast(4, 0, 0) || (isx && version.AtLeast(3, 0, 3)), HeaderFlagShowTasksTreeLines)
	h.addIf(version.AtLeast(4, 0, 1) && version.Before(4, 0, 10), HeaderFlagDetectLanguageUsingLocale)
	h.addIf(version.AtLeast(4, 0, 9), HeaderFlagAllowCancelDuringInstall)
	h.addIf(version.AtLeast(4, 1, 3), HeaderFlagWizardImageStretch)
	v418Group := version.AtLeast(4, 1, 8)
	h.addIf(v418Group, HeaderFlagAppendDefaultDirName)
	h.addIf(v418Group, HeaderFlagAppendDefaultGroupName)
	h.addIf(version.AtLeast(4, 2, 2) && version.Before(6, 5, 0), HeaderFlagEncryptionUsed)
	h.addIf(version.AtLeast(5, 0, 4) && version.Before(5, 6, 1), HeaderFlagChangesEnvironment)
	h.addIf(version.AtLeast(5, 1, 7) && !version.Variant.IsUnicode(), HeaderFlagShowUndisplayableLanguages)
	h.addIf(version.AtLeast(5, 1, 13), HeaderFlagSetupLogging)
	h.addIf(version.AtLeast(5, 2, 1), HeaderFlagSignedUninstaller)
	h.addIf(version.AtLeast(5, 3, 8), HeaderFlagUsePreviousLanguage)
	h.addIf(version.AtLeast(5, 3, 9), HeaderFlagDisableWelcomePage)
	v550Group := version.AtLeast(5, 5, 0)
	h.addIf(v550Group, HeaderFlagCloseApplications)
	h.addIf(v550Group, HeaderFlagRestartApplications)
	h.addIf(v550Group, HeaderFlagAllowNetworkDrive)
	h.addIf(version.AtLeast(5, 5, 7), HeaderFlagForceCloseApplications)
	v6Group := version.AtLeast(6, 0, 0)
	h.addIf(v6Group, HeaderFlagAppNameHasConsts)
	h.addIf(v6Group, HeaderFlagUsePreviousPrivileges)
	h.addIf(version.AtLeast(6, 0, 0) && version.Before(6, 6, 0), HeaderFlagWizardResizable)
	h.addIf(version.AtLeast(6, 3, 0), HeaderFlagUninstallLogging)
	v66Group := version.AtLeast(6, 6, 0)
	h.addIf(v66Group, HeaderFlagWizardModern)
	h.addIf(v66Group, HeaderFlagWizardBorderStyled)
	h.addIf(v66Group, HeaderFlagWizardKeepAspectRatio)
	h.addIf(v66Group, HeaderFlagWizardLightButtonsUnstyled)

	flags, err := h.finalize()
	if err != nil {
		return flags, err
	}

	if version.Before(4, 0, 9) {
		flags.Set(HeaderFlagAllowCancelDuringInstall)
	}
	if version.Before(5, 5, 0) {
		flags.Set(HeaderFlagAllowNetworkDrive)
	}

	return flags, nil
}
