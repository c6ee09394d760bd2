// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

// EntryCounts is the per-entry-type record count embedded in the setup
// header, telling the primary-stream reader how many of each entry
// record to expect.
type EntryCounts struct {
	Language         uint32
	CustomMessage    uint32
	Permission       uint32
	Type             uint32
	Component        uint32
	Task             uint32
	Directory        uint32
	ISSigKey         uint32
	File             uint32
	FileLocation     uint32
	Icon             uint32
	Ini              uint32
	Registry         uint32
	InstallDelete    uint32
	UninstallDelete  uint32
	Run              uint32
	UninstallRun     uint32
}

func readEntryCounts(r *byteReader, version InnoVersion) (EntryCounts, error) {
	var c EntryCounts
	var err error

	if version.AtLeast(4, 0, 0) {
		if c.Language, err = r.ReadUint32(); err != nil {
			return c, err
		}
	} else if version.AtLeast(2, 0, 1) {
		c.Language = 1
	}

	if version.AtLeast(4, 2, 1) {
		if c.CustomMessage, err = r.ReadUint32(); err != nil {
			return c, err
		}
	}

	if version.AtLeast(4, 1, 0) {
		if c.Permission, err = r.ReadUint32(); err != nil {
			return c, err
		}
	}

	if version.AtLeast(2, 0, 0) || version.Variant.IsISX() {
		if c.Type, err = r.ReadUint32(); err != nil {
			return c, err
		}
		if c.Component, err = r.ReadUint32(); err != nil {
			return c, err
		}
	}

	if version.AtLeast(2, 0, 0) || (version.Variant.IsISX() && version.AtLeast(1, 3, 17)) {
		if c.Task, err = r.ReadUint32(); err != nil {
			return c, err
		}
	}

	if c.Directory, err = r.ReadUint32(); err != nil {
		return c, err
	}

	if version.AtLeast(6, 5, 0) {
		if c.ISSigKey, err = r.ReadUint32(); err != nil {
			return c, err
		}
	}

	for _, dst := range []*uint32{
		&c.File, &c.FileLocation, &c.Icon, &c.Ini, &c.Registry,
		&c.InstallDelete, &c.UninstallDelete, &c.Run, &c.UninstallRun,
	} {
		if *dst, err = r.ReadUint32(); err != nil {
			return c, err
		}
	}

	return c, nil
}
