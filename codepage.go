// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// codepageByID maps the Windows codepage identifiers Inno Setup's language
// table stores (the same numbers Win32's MultiByteToWideChar accepts) to a
// golang.org/x/text encoding. Unrecognized codepages fall back to
// Windows-1252, the Inno Setup compiler's own default.
var codepageByID = map[uint16]encoding.Encoding{
	874:  charmap.Windows874,
	932:  japanese.ShiftJIS,
	936:  simplifiedchinese.GBK,
	949:  korean.EUCKR,
	950:  traditionalchinese.Big5,
	1250: charmap.Windows1250,
	1251: charmap.Windows1251,
	1252: charmap.Windows1252,
	1253: charmap.Windows1253,
	1254: charmap.Windows1254,
	1255: charmap.Windows1255,
	1256: charmap.Windows1256,
	1257: charmap.Windows1257,
	1258: charmap.Windows1258,
}

// codepageFromID resolves a Windows codepage identifier to an encoding, or
// nil if id is zero or not one Inno Setup is known to have shipped with a
// language entry.
func codepageFromID(id uint16) encoding.Encoding {
	if id == 0 {
		return nil
	}
	return codepageByID[id]
}
