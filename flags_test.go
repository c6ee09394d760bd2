// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import (
	"bytes"
	"testing"
)

const (
	testFlagA uint64 = 1 << iota
	testFlagB
	testFlagC
	testFlagD
	testFlagE
	testFlagF
	testFlagG
	testFlagH
)

func TestFlagReaderAllFlags(t *testing.T) {
	data := []byte{0b1001_0101}
	br := newByteReader(bytes.NewReader(data))
	fr := NewFlagReader(br)

	got, err := fr.Add(testFlagA).Add(testFlagB).Add(testFlagC).Add(testFlagD).
		Add(testFlagE).Add(testFlagF).Add(testFlagG).Add(testFlagH).Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	want := testFlagA | testFlagC | testFlagE | testFlagH
	if got != want {
		t.Fatalf("Finalize() = %#b, want %#b", got, want)
	}
}

func TestFlagReaderPadsThreeByteField(t *testing.T) {
	// 3 bytes of flags should consume a 4th padding byte.
	data := []byte{0xFF, 0xFF, 0xFF, 0xAA, 0x01}
	br := newByteReader(bytes.NewReader(data))
	fr := NewFlagReader(br)
	for i := 0; i < 24; i++ {
		fr.Add(1 << uint(i%64))
	}
	if _, err := fr.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	// The padding byte (0xAA) should have been consumed, leaving 0x01 next.
	next, err := br.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8() error: %v", err)
	}
	if next != 0x01 {
		t.Fatalf("next byte = %#x, want 0x01 (padding byte not consumed)", next)
	}
}

func TestFlagReaderAddIfSkipsBit(t *testing.T) {
	data := []byte{0b0000_0011}
	br := newByteReader(bytes.NewReader(data))
	fr := NewFlagReader(br)
	got, err := fr.AddIf(false, testFlagA).Add(testFlagB).Add(testFlagC).Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	// AddIf(false, ...) consumes no bit, so the two real bits map to B and C.
	want := testFlagB | testFlagC
	if got != want {
		t.Fatalf("Finalize() = %#b, want %#b", got, want)
	}
}
