package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{" 7 ", 700, true},
		{"0.005", 1, true},
		{"12.345", 1235, true}, // half-up on the third decimal
		{"12.344", 1234, true},
		{"0", 0, false},
		{"-3.50", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseMoney(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseMoney(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseMoney(%q) expected error, got %d", tc.in, m.Cents)
		}
		if tc.ok && m.Cents != tc.cents {
			t.Fatalf("ParseMoney(%q) = %d, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1500}
	b := Money{Cents: 700}
	if got := a.Add(b).Cents; got != 2200 {
		t.Fatalf("Add = %d, want 2200", got)
	}
	if got := b.Sub(a).Cents; got != -800 {
		t.Fatalf("Sub = %d, want -800", got)
	}
	if got := a.Neg().Cents; got != -1500 {
		t.Fatalf("Neg = %d, want -1500", got)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{-5, "-0.05"},
		{0, "0.00"},
		{100, "1.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestParseSignedMoney(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"-12.34", -1234, false},
		{"0", 0, false},
		{"-0,05", -5, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseSignedMoney(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSignedMoney(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSignedMoney(%q) error: %v", tc.in, err)
		}
		if got.Cents != tc.want {
			t.Fatalf("ParseSignedMoney(%q) = %d, want %d", tc.in, got.Cents, tc.want)
		}
	}
}
