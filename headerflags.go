// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

// HeaderFlags is the installer-wide flag set declared in the setup
// header. Inno Setup defines flag bit positions up to 127, wider than a
// native Go integer, so the set is split across two 64-bit words: bits
// 0-63 in Lo, bits 64-127 in Hi.
type HeaderFlags struct {
	Lo, Hi uint64
}

func headerFlagBit(bit uint) HeaderFlags {
	if bit < 64 {
		return HeaderFlags{Lo: 1 << bit}
	}
	return HeaderFlags{Hi: 1 << (bit - 64)}
}

// Active header flags.
var (
	HeaderFlagDisableStartupPrompt        = headerFlagBit(0)
	HeaderFlagCreateAppDir                = headerFlagBit(1)
	HeaderFlagAllowNoIcons                = headerFlagBit(2)
	HeaderFlagAlwaysRestart               = headerFlagBit(3)
	HeaderFlagAlwaysUsePersonalGroup      = headerFlagBit(4)
	HeaderFlagWindowVisible               = headerFlagBit(5)
	HeaderFlagWindowShowCaption           = headerFlagBit(6)
	HeaderFlagWindowResizable             = headerFlagBit(7)
	HeaderFlagWindowStartMaximised        = headerFlagBit(8)
	HeaderFlagEnabledDirDoesntExistWarning = headerFlagBit(9)
	HeaderFlagPassword                    = headerFlagBit(10)
	HeaderFlagAllowRootDirectory          = headerFlagBit(11)
	HeaderFlagDisableFinishedPage         = headerFlagBit(12)
	HeaderFlagChangesAssociations         = headerFlagBit(13)
	HeaderFlagBackColorHorizontal         = headerFlagBit(14)
	HeaderFlagUpdateUninstallLogAppName   = headerFlagBit(15)
	HeaderFlagDisableReadyMemo            = headerFlagBit(16)
	HeaderFlagAlwaysShowComponentsList    = headerFlagBit(17)
	HeaderFlagFlatComponentsList          = headerFlagBit(18)
	HeaderFlagShowComponentSizes          = headerFlagBit(19)
	HeaderFlagDisableReadyPage            = headerFlagBit(20)
	HeaderFlagAlwaysShowDirOnReadyPage    = headerFlagBit(21)
	HeaderFlagAlwaysShowGroupOnReadyPage  = headerFlagBit(22)
	HeaderFlagAllowUNCPath                = headerFlagBit(23)
	HeaderFlagUserInfoPage                = headerFlagBit(24)
	HeaderFlagUninstallRestartComputer    = headerFlagBit(25)
	HeaderFlagRestartIfNeededByRun        = headerFlagBit(26)
	HeaderFlagShowTasksTreeLines          = headerFlagBit(27)
	HeaderFlagAllowCancelDuringInstall    = headerFlagBit(28)
	HeaderFlagWizardImageStretch          = headerFlagBit(29)
	HeaderFlagAppendDefaultDirName        = headerFlagBit(30)
	HeaderFlagAppendDefaultGroupName      = headerFlagBit(31)
	HeaderFlagEncryptionUsed              = headerFlagBit(32)
	HeaderFlagChangesEnvironment          = headerFlagBit(33)
	HeaderFlagSetupLogging                = headerFlagBit(34)
	HeaderFlagSignedUninstaller           = headerFlagBit(45)
	HeaderFlagUsePreviousLanguage         = headerFlagBit(46)
	HeaderFlagDisableWelcomePage          = headerFlagBit(47)
	HeaderFlagCloseApplications           = headerFlagBit(48)
	HeaderFlagRestartApplications         = headerFlagBit(49)
	HeaderFlagAllowNetworkDrive           = headerFlagBit(50)
	HeaderFlagForceCloseApplications      = headerFlagBit(51)
	HeaderFlagAppNameHasConsts            = headerFlagBit(52)
	HeaderFlagUsePreviousPrivileges       = headerFlagBit(53)
	HeaderFlagWizardResizable             = headerFlagBit(54)
	HeaderFlagUninstallLogging            = headerFlagBit(55)
	HeaderFlagWizardModern                = headerFlagBit(56)
	HeaderFlagWizardBorderStyled          = headerFlagBit(57)
	HeaderFlagWizardKeepAspectRatio       = headerFlagBit(58)
	HeaderFlagRedirectionGuard            = headerFlagBit(59)
	HeaderFlagWizardBevelsHidden          = headerFlagBit(60)
	HeaderFlagPadding                     = headerFlagBit(61)

	// Obsolete flags, carried only so old installers' bit layout still
	// decodes correctly.
	HeaderFlagUninstallable              = headerFlagBit(108)
	HeaderFlagDisableDirPage             = headerFlagBit(109)
	HeaderFlagDisableProgramGroupPage    = headerFlagBit(110)
	HeaderFlagDisableAppendDir           = headerFlagBit(111)
	HeaderFlagAdminPrivilegesRequired    = headerFlagBit(112)
	HeaderFlagAlwaysCreateUninstallIcon  = headerFlagBit(113)
	HeaderFlagCreateUninstallRegKey      = headerFlagBit(114)
	HeaderFlagBZipUsed                   = headerFlagBit(115)
	HeaderFlagShowLanguageDialog         = headerFlagBit(116)
	HeaderFlagDetectLanguageUsingLocale  = headerFlagBit(117)
	HeaderFlagDisableDirExistsWarning    = headerFlagBit(118)
	HeaderFlagBackSolid                  = headerFlagBit(119)
	HeaderFlagOverwriteUninstallRegEntries = headerFlagBit(120)
	HeaderFlagShowUndisplayableLanguages = headerFlagBit(121)

	// Removed in 6.7.0; still needed to decode older installers.
	HeaderFlagUsePreviousAppDir           = headerFlagBit(122)
	HeaderFlagUsePreviousGroup            = headerFlagBit(123)
	HeaderFlagUsePreviousSetupType        = headerFlagBit(124)
	HeaderFlagUsePreviousTasks            = headerFlagBit(125)
	HeaderFlagUsePreviousUserInfo         = headerFlagBit(126)
	HeaderFlagWizardLightButtonsUnstyled  = headerFlagBit(127)
)

// Has reports whether every bit set in flag is also set in f.
func (f HeaderFlags) Has(flag HeaderFlags) bool {
	return f.Lo&flag.Lo == flag.Lo && f.Hi&flag.Hi == flag.Hi
}

// Or returns f with every bit of flag also set.
func (f HeaderFlags) Or(flag HeaderFlags) HeaderFlags {
	return HeaderFlags{Lo: f.Lo | flag.Lo, Hi: f.Hi | flag.Hi}
}

// Set ORs flag into f in place.
func (f *HeaderFlags) Set(flag HeaderFlags) {
	f.Lo |= flag.Lo
	f.Hi |= flag.Hi
}

// IsEmpty reports whether no flags are set.
func (f HeaderFlags) IsEmpty() bool { return f.Lo == 0 && f.Hi == 0 }
