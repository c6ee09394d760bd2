// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

// flagBitReader reads a packed bitfield one bit at a time, 8 bits per
// byte, least-significant bit first. Inno Setup pads any bitfield that
// would otherwise occupy exactly 3 bytes out to 4, so the exact number of
// flags read (or a caller-supplied minimum) determines whether a trailing
// padding byte must be consumed.
type flagBitReader struct {
	r         *byteReader
	bitPos    uint8
	current   byte
	bytesRead int
}

func newFlagBitReader(r *byteReader) *flagBitReader {
	return &flagBitReader{r: r}
}

func (f *flagBitReader) nextBit() (bool, error) {
	if f.bitPos%8 == 0 {
		b, err := f.r.ReadUint8()
		if err != nil {
			return false, err
		}
		f.current = b
		f.bitPos = 0
		f.bytesRead++
	}
	bit := (f.current>>f.bitPos)&1 != 0
	f.bitPos++
	return bit, nil
}

func (f *flagBitReader) finalize(minBytes int) error {
	bytesRead := f.bytesRead
	if minBytes > 0 {
		for bytesRead < minBytes {
			if _, err := f.r.ReadUint8(); err != nil {
				return err
			}
			bytesRead++
		}
		return nil
	}
	if f.bytesRead == 3 {
		_, err := f.r.ReadUint8()
		return err
	}
	return nil
}

// FlagReader accumulates a bitmask of up to 64 flags read one bit at a
// time from the underlying stream, in the exact declared order of the
// flags passed to Add/AddIf. It is the Go analogue of the version-gated
// flag lists used throughout Inno Setup's header and entry records: a
// flag is read (and possibly set) precisely when the caller's version
// predicate holds, so the bit stream layout shifts correctly across
// versions without the caller tracking offsets by hand.
type FlagReader struct {
	bits uint64
	bit  *flagBitReader
	err  error
}

// NewFlagReader returns a FlagReader reading from r.
func NewFlagReader(r *byteReader) *FlagReader {
	return &FlagReader{bit: newFlagBitReader(r)}
}

// Add unconditionally reads the next bit and, if set, ORs flag into the
// accumulated result.
func (f *FlagReader) Add(flag uint64) *FlagReader {
	return f.AddIf(true, flag)
}

// AddIf reads the next bit, and ORs flag into the result if set, only
// when cond is true. When cond is false no bit is consumed: this is how
// a flag introduced in a later Inno Setup version is skipped entirely
// for older installers, rather than reading a bit that was never
// written.
func (f *FlagReader) AddIf(cond bool, flag uint64) *FlagReader {
	if f.err != nil || !cond {
		return f
	}
	set, err := f.bit.nextBit()
	if err != nil {
		f.err = err
		return f
	}
	if set {
		f.bits |= flag
	}
	return f
}

// Finalize consumes any required padding byte and returns the
// accumulated flags, or the first error encountered while reading.
func (f *FlagReader) Finalize() (uint64, error) {
	return f.finalizeMin(0)
}

// FinalizeMinBytes is like Finalize but guarantees at least minBytes
// bytes are consumed from the stream, padding with extra reads as
// needed. Some records declare a flags field wider than the flags
// actually enumerated for every version.
func (f *FlagReader) FinalizeMinBytes(minBytes int) (uint64, error) {
	return f.finalizeMin(minBytes)
}

func (f *FlagReader) finalizeMin(minBytes int) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if err := f.bit.finalize(minBytes); err != nil {
		return 0, err
	}
	return f.bits, nil
}
