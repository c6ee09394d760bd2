// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package inno

import "testing"

func TestParseInnoVersion(t *testing.T) {
	tests := []struct {
		raw  string
		want InnoVersion
		ok   bool
	}{
		{"Inno Setup Setup Data (1.2.10)", NewInnoVersion(1, 2, 10, 0), true},
		{"Inno Setup Setup Data (1.3.3)", NewInnoVersion(1, 3, 3, 0), true},
		{"Inno Setup Setup Data (2.0.0) (u)", NewInnoVersionWithVariant(2, 0, 0, 0, VariantUnicode), true},
		{"Inno Setup Setup Data (2.0.0) (U)", NewInnoVersionWithVariant(2, 0, 0, 0, VariantUnicode), true},
		{"Inno Setup Setup Data (3.0.0)", NewInnoVersion(3, 0, 0, 0), true},
		{"My Inno Setup Extensions Setup Data (3.0.0)", NewInnoVersionWithVariant(3, 0, 0, 0, VariantISX), true},
		{"My Inno Setup Extensions Setup Data (3.0.0) (u)", NewInnoVersionWithVariant(3, 0, 0, 0, VariantISX|VariantUnicode), true},
		{"Inno Setup Setup Data (4.0.10)", NewInnoVersion(4, 0, 10, 0), true},
		{"Inno Setup Setup Data (5.5.7)", NewInnoVersion(5, 5, 7, 0), true},
		{"Inno Setup Setup Data (5.5.7.1)", NewInnoVersion(5, 5, 7, 1), true},
		{"Inno Setup Setup Data (6.0.0)", NewInnoVersion(6, 0, 0, 0), true},
		{"Inno Setup Setup Data (6.3.0)", NewInnoVersion(6, 3, 0, 0), true},
		{"Inno Setup Setup Data (6.4.0.1)", NewInnoVersion(6, 4, 0, 1), true},
		{"garbage, no parens", InnoVersion{}, false},
	}

	for _, tc := range tests {
		got, ok := ParseInnoVersion([]byte(tc.raw))
		if ok != tc.ok {
			t.Errorf("ParseInnoVersion(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if !got.Equal(tc.want) || got.Variant != tc.want.Variant {
			t.Errorf("ParseInnoVersion(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestInnoVersionEquality(t *testing.T) {
	a := NewInnoVersion(5, 5, 7, 0)
	b := NewInnoVersionWithVariant(5, 5, 7, 0, VariantISX)
	if !a.Equal(b) {
		t.Fatal("versions differing only by variant should compare equal")
	}
}

func TestInnoVersionComparison(t *testing.T) {
	if !NewInnoVersion(5, 5, 7, 0).Less(NewInnoVersion(5, 5, 7, 1)) {
		t.Fatal("5.5.7 should be less than 5.5.7.1")
	}
	if !NewInnoVersion(5, 5, 7, 0).Less(NewInnoVersion(5, 6, 0, 0)) {
		t.Fatal("5.5.7 should be less than 5.6.0")
	}
	if !NewInnoVersion(6, 3, 0, 0).AtLeast(6, 3, 0) {
		t.Fatal("6.3.0 should be at least 6.3.0")
	}
}

func TestInnoVersionAutoUnicode(t *testing.T) {
	v := NewInnoVersion(6, 3, 0, 0)
	if !v.Variant.IsUnicode() {
		t.Fatal("6.3.0 should auto-set the Unicode variant")
	}
	v = NewInnoVersion(6, 2, 0, 0)
	if v.Variant.IsUnicode() {
		t.Fatal("6.2.0 should not auto-set the Unicode variant")
	}
}

func TestInnoVersionString(t *testing.T) {
	tests := []struct {
		v    InnoVersion
		want string
	}{
		{NewInnoVersion(5, 5, 7, 0), "5.5.7"},
		{NewInnoVersion(6, 4, 0, 1), "6.4.0.1"},
		{InnoVersion{1, 2, 0xFF, 0, 0}, "1.2"},
		{NewInnoVersionWithVariant(1, 2, 10, 0, VariantBits16), "1.2.10 16-bit"},
		{NewInnoVersionWithVariant(3, 0, 4, 0, VariantISX), "3.0.4 with ISX"},
		{NewInnoVersionWithVariant(2, 0, 0, 0, VariantUnicode), "2.0.0 (u)"},
		{NewInnoVersion(6, 3, 0, 0), "6.3.0"},
	}
	for _, tc := range tests {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestIsAmbiguous(t *testing.T) {
	if !NewInnoVersion(5, 5, 7, 0).IsAmbiguous() {
		t.Fatal("5.5.7 should be ambiguous")
	}
	if NewInnoVersion(5, 5, 8, 0).IsAmbiguous() {
		t.Fatal("5.5.8 should not be ambiguous")
	}
}

func TestIsBlackBox(t *testing.T) {
	v := NewInnoVersionWithVariant(5, 3, 10, 0, VariantUnicode)
	if !v.IsBlackBox() {
		t.Fatal("unicode 5.3.10 should be a BlackBox candidate")
	}
	nonUnicode := NewInnoVersion(5, 3, 10, 0)
	if nonUnicode.IsBlackBox() {
		t.Fatal("non-unicode 5.3.10 should not be a BlackBox candidate")
	}
}

func TestAmbiguousCandidates(t *testing.T) {
	got := NewInnoVersion(5, 5, 7, 0).AmbiguousCandidates()
	if len(got) != 3 {
		t.Fatalf("AmbiguousCandidates() = %v, want 3 entries", got)
	}
	if len(NewInnoVersion(5, 5, 8, 0).AmbiguousCandidates()) != 0 {
		t.Fatal("non-ambiguous version should have no candidates")
	}
}
