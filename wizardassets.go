// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "io"

// WizardAssets holds the raw image and DLL blobs Setup carries for its own
// wizard UI: the main and small wizard images, and the decompressor/decrypt
// helper DLLs Setup extracts alongside itself when the installer needs them.
//
// ImagesDynamicDark and SmallImagesDynamicDark are reserved for a future
// 6.6+ dark-mode image set; 6.6 actually re-reads Images and SmallImages a
// second time, overwriting the first read rather than populating these,
// which this mirrors rather than correcting.
type WizardAssets struct {
	Images                 [][]byte
	SmallImages            [][]byte
	ImagesDynamicDark      [][]byte
	SmallImagesDynamicDark [][]byte
	DecompressorDLL        []byte
	DecryptDLL             []byte
}

func readWizardImages(r io.Reader, version InnoVersion) ([][]byte, error) {
	br := newByteReader(r)

	count := uint32(1)
	if version.AtLeast(5, 6, 0) {
		var err error
		if count, err = br.ReadUint32(); err != nil {
			return nil, err
		}
	}

	images := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		img, err := br.ReadRawPascalString()
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	if version.Before(5, 6, 0) && len(images) > 0 && len(images[0]) == 0 {
		images = nil
	}

	return images, nil
}

// readWizardAssets reads the wizard image and DLL blobs that follow the
// entry tables in the primary stream (or, for versions before 4, the
// header itself).
func readWizardAssets(r io.Reader, header *Header, version InnoVersion) (WizardAssets, error) {
	var w WizardAssets
	var err error

	if w.Images, err = readWizardImages(r, version); err != nil {
		return w, err
	}

	if version.AtLeast(2, 0, 0) || version.Variant.IsISX() {
		if w.SmallImages, err = readWizardImages(r, version); err != nil {
			return w, err
		}
	}

	if version.AtLeast(6, 6, 0) {
		if w.Images, err = readWizardImages(r, version); err != nil {
			return w, err
		}
		if w.SmallImages, err = readWizardImages(r, version); err != nil {
			return w, err
		}
	}

	needsDecompressorDLL := header.Compression == CompressionBZip2 ||
		(header.Compression == CompressionLZMA1 && version.Equal(NewInnoVersion(4, 1, 5, 0))) ||
		(header.Compression == CompressionZlib && version.AtLeast(4, 2, 6))
	if needsDecompressorDLL {
		br := newByteReader(r)
		if w.DecompressorDLL, err = br.ReadRawPascalString(); err != nil {
			return w, err
		}
	}

	if header.Flags.Has(HeaderFlagEncryptionUsed) {
		br := newByteReader(r)
		if w.DecryptDLL, err = br.ReadRawPascalString(); err != nil {
			return w, err
		}
	}

	return w, nil
}
