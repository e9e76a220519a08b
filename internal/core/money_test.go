package core

import "testing"

func TestParseDecimalToOre(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"dot separator", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"integer", "300", 30000, false},
		{"negative", "-500", -50000, false},
		{"negative with comma", "-12,50", -1250, false},
		{"explicit plus", "+7,25", 725, false},
		{"rounds down on third decimal", "12.344", 1234, false},
		{"rounds up on third decimal", "12.345", 1235, false},
		{"single fractional digit", "12.3", 1230, false},
		{"leading separator", ",50", 50, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"bare sign", "-", 0, true},
		{"two separators", "1.2.3", 0, true},
		{"letters", "12a", 0, true},
		{"letters in fraction", "12.3x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToOre(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToOre(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToOre(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToOre(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Ore: 100}).Validate(); err != nil {
		t.Errorf("positive amount should validate: %v", err)
	}
	if err := (Money{Ore: 0}).Validate(); err == nil {
		t.Error("zero amount should not validate")
	}
	if err := (Money{Ore: -100}).Validate(); err == nil {
		t.Error("negative amount should not validate")
	}
}

func TestFormatKronor(t *testing.T) {
	tests := []struct {
		ore  int64
		want string
	}{
		{1234, "12,34 kr"},
		{-1234, "-12,34 kr"},
		{30000, "300,00 kr"},
		{5, "0,05 kr"},
		{0, "0,00 kr"},
	}
	for _, tt := range tests {
		if got := FormatKronor(tt.ore); got != tt.want {
			t.Errorf("FormatKronor(%d) = %q, want %q", tt.ore, got, tt.want)
		}
	}
}
