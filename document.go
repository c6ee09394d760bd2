// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"bytes"
	"errors"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/saferwall/inno/internal/pe"
)

// Options controls how New and Open parse an installer.
type Options struct {
	// SkipWizard leaves the wizard image/DLL blobs off the Document. The
	// blobs are still read from the stream, since the records after them
	// can only be reached by reading past them.
	SkipWizard bool

	// SkipSignature skips Authenticode signer inspection of the outer PE.
	SkipSignature bool

	// MaxResourceEntries caps the entries per level of the PE
	// resource-directory walk done for signer inspection. The walk that
	// locates the setup-loader table always uses the internal/pe default.
	MaxResourceEntries int

	// Logger receives structured diagnostic events; nil disables logging.
	Logger log.Logger
}

// Document is the fully parsed, immutable structural metadata of an Inno
// Setup installer: every entry table in setup-header order, plus the
// setup-loader table and header that describe it.
type Document struct {
	SetupLoader      *SetupLoader
	Version          InnoVersion
	EncryptionHeader *EncryptionHeader
	Header           *Header
	Strings          map[string]string

	Languages   []Language
	Messages    []CustomMessage
	Permissions []Permission
	Types       []TypeEntry
	Components  []Component
	Tasks       []Task
	Directories []Directory
	ISSigKeys   []ISSigKey
	Files       []FileEntry
	Icons       []Icon
	IniEntries  []IniEntry

	RegistryEntries        []RegistryEntry
	DeleteEntries          []DeleteEntry
	UninstallDeleteEntries []DeleteEntry
	RunEntries             []RunEntry
	UninstallRunEntries    []RunEntry

	Wizard        WizardAssets
	FileLocations []FileLocation

	// Signer is the outer PE's Authenticode signer, if present and
	// Options.SkipSignature was not set.
	Signer *pe.Signer
}

// New parses an Inno Setup installer read through r, which must expose
// size bytes starting at offset 0. The returned Document is independent
// of r once New returns.
func New(r io.ReaderAt, size int64, opts *Options) (*Document, error) {
	if opts == nil {
		opts = &Options{}
	}
	helper := newLogHelper(opts.Logger)

	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}

	return parse(data, opts, helper)
}

// Open memory-maps the file at path and parses it, mirroring
// saferwall-pe.New's mmap-based file entry point.
func Open(path string, opts *Options) (*Document, error) {
	if opts == nil {
		opts = &Options{}
	}
	helper := newLogHelper(opts.Logger)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer data.Unmap()

	return parse([]byte(data), opts, helper)
}

func newLogHelper(logger log.Logger) *log.Helper {
	if logger == nil {
		logger = log.NewStdLogger(io.Discard)
	}
	return log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
}

// parse runs the full decode sequence against an in-memory copy of the
// installer: setup-loader table, exact embedded version, optional
// pre-stream encryption header, setup header, every entry table in
// setup-header order, wizard assets, and the secondary file-location
// stream.
func parse(data []byte, opts *Options, helper *log.Helper) (*Document, error) {
	loader, err := ReadSetupLoader(data)
	if err != nil {
		return nil, err
	}
	if loader.HeaderOffset < 0 || loader.HeaderOffset >= int64(len(data)) {
		return nil, ErrTruncatedStream
	}

	fileReader := bytes.NewReader(data)
	if _, err := fileReader.Seek(loader.HeaderOffset, io.SeekStart); err != nil {
		return nil, err
	}

	var rawVersion [rawVersionLen]byte
	if _, err := io.ReadFull(fileReader, rawVersion[:]); err != nil {
		return nil, err
	}
	version, ok := ParseInnoVersion(rawVersion[:])
	if !ok {
		return nil, &UnknownVersionError{Raw: string(bytes.TrimRight(rawVersion[:], "\x00"))}
	}
	// The precise 16-bit-ness of a legacy installer isn't encoded in the
	// version string itself; carry it over from the coarser loader
	// signature lookup.
	version.Variant |= loader.Version.Variant & VariantBits16

	if version.Compare(MaxSupportedVersion) > 0 {
		return nil, &UnsupportedVersionError{Version: version}
	}

	var encHdr *EncryptionHeader
	if version.AtLeast(6, 5, 0) {
		eh, err := ReadEncryptionHeader(fileReader, version)
		if err != nil {
			return nil, err
		}
		encHdr = &eh
	}

	primary, err := newInnoStreamReader(fileReader, version)
	if err != nil {
		return nil, err
	}

	header, err := ReadHeader(primary, version)
	if err != nil {
		return nil, err
	}
	if encHdr == nil {
		encHdr = header.EncryptionHeader
	}

	doc := &Document{
		SetupLoader:      loader,
		Version:          version,
		EncryptionHeader: encHdr,
		Header:           header,
	}

	languages := make([]Language, 0, header.EntryCounts.Language)
	for i := uint32(0); i < header.EntryCounts.Language; i++ {
		lang, err := readLanguage(primary, version)
		if err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	doc.Languages = languages

	codepage := resolveCodepage(languages, version)
	decoded, err := header.Decode(func(raw []byte) (string, error) {
		return decodeString(raw, codepage)
	})
	if err != nil {
		return nil, err
	}
	doc.Strings = decoded

	if version.Before(4, 0, 0) {
		if doc.Wizard, err = readWizardAssetsIfWanted(primary, header, version, opts); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < header.EntryCounts.CustomMessage; i++ {
		m, err := readCustomMessage(primary, languages, codepage)
		if err != nil {
			return nil, err
		}
		doc.Messages = append(doc.Messages, m)
	}

	for i := uint32(0); i < header.EntryCounts.Permission; i++ {
		p, err := readPermission(primary)
		if err != nil {
			return nil, err
		}
		doc.Permissions = append(doc.Permissions, p)
	}

	for i := uint32(0); i < header.EntryCounts.Type; i++ {
		t, err := readTypeEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.Types = append(doc.Types, t)
	}

	for i := uint32(0); i < header.EntryCounts.Component; i++ {
		c, err := readComponent(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.Components = append(doc.Components, c)
	}

	for i := uint32(0); i < header.EntryCounts.Task; i++ {
		t, err := readTask(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.Tasks = append(doc.Tasks, t)
	}

	for i := uint32(0); i < header.EntryCounts.Directory; i++ {
		d, err := readDirectory(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.Directories = append(doc.Directories, d)
	}

	for i := uint32(0); i < header.EntryCounts.ISSigKey; i++ {
		k, err := readISSigKey(primary, codepage)
		if err != nil {
			return nil, err
		}
		doc.ISSigKeys = append(doc.ISSigKeys, k)
	}

	for i := uint32(0); i < header.EntryCounts.File; i++ {
		f, err := readFileEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.Files = append(doc.Files, f)
	}

	for i := uint32(0); i < header.EntryCounts.Icon; i++ {
		ic, err := readIcon(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.Icons = append(doc.Icons, ic)
	}

	for i := uint32(0); i < header.EntryCounts.Ini; i++ {
		ini, err := readIniEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.IniEntries = append(doc.IniEntries, ini)
	}

	for i := uint32(0); i < header.EntryCounts.Registry; i++ {
		reg, err := readRegistryEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.RegistryEntries = append(doc.RegistryEntries, reg)
	}

	for i := uint32(0); i < header.EntryCounts.InstallDelete; i++ {
		d, err := readDeleteEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.DeleteEntries = append(doc.DeleteEntries, d)
	}

	for i := uint32(0); i < header.EntryCounts.UninstallDelete; i++ {
		d, err := readDeleteEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.UninstallDeleteEntries = append(doc.UninstallDeleteEntries, d)
	}

	for i := uint32(0); i < header.EntryCounts.Run; i++ {
		run, err := readRunEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.RunEntries = append(doc.RunEntries, run)
	}

	for i := uint32(0); i < header.EntryCounts.UninstallRun; i++ {
		run, err := readRunEntry(primary, codepage, version)
		if err != nil {
			return nil, err
		}
		doc.UninstallRunEntries = append(doc.UninstallRunEntries, run)
	}

	if version.AtLeast(4, 0, 0) {
		if doc.Wizard, err = readWizardAssetsIfWanted(primary, header, version, opts); err != nil {
			return nil, err
		}
	}

	if !primary.IsEndOfStream() {
		return nil, &UnexpectedExtraDataError{Stream: "primary"}
	}

	secondary, err := newInnoStreamReader(fileReader, version)
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < header.EntryCounts.FileLocation; i++ {
		loc, err := readFileLocation(secondary, *header, version)
		if err != nil {
			return nil, err
		}
		doc.FileLocations = append(doc.FileLocations, loc)
	}

	if !secondary.IsEndOfStream() {
		return nil, &UnexpectedExtraDataError{Stream: "secondary"}
	}

	if !opts.SkipSignature {
		if signer, err := inspectSigner(data, opts.MaxResourceEntries); err == nil {
			doc.Signer = signer
		} else if !errors.Is(err, pe.ErrNoCertificateTable) {
			helper.Errorf("inno: signature inspection failed: %v", err)
		}
	}

	return doc, nil
}

// resolveCodepage picks the encoding every ANSI Pascal string in the
// installer (other than a language entry's own strings) is decoded with:
// UTF-16LE for Unicode builds, otherwise the first language entry's
// codepage, preferring Windows-1252 when more than one language is
// present.
func resolveCodepage(languages []Language, version InnoVersion) encoding.Encoding {
	if version.Variant.IsUnicode() {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	for _, lang := range languages {
		if lang.Codepage == charmap.Windows1252 {
			return lang.Codepage
		}
	}
	if len(languages) > 0 && languages[0].Codepage != nil {
		return languages[0].Codepage
	}
	return charmap.Windows1252
}

// readWizardAssetsIfWanted always reads the wizard blobs to keep the
// stream correctly positioned for whatever follows (entry tables, or the
// primary-stream-end check): a Pascal-string-prefixed blob can't be
// skipped without first reading its length. When SkipWizard is set, the
// decoded bytes are simply not kept on the Document.
func readWizardAssetsIfWanted(r io.Reader, header *Header, version InnoVersion, opts *Options) (WizardAssets, error) {
	assets, err := readWizardAssets(r, header, version)
	if err != nil || opts.SkipWizard {
		return WizardAssets{}, err
	}
	return assets, nil
}

func inspectSigner(data []byte, maxResourceEntries int) (*pe.Signer, error) {
	f, err := pe.NewWithResourceLimit(data, nil, maxResourceEntries)
	if err != nil {
		return nil, err
	}
	return f.ParseSigner()
}
