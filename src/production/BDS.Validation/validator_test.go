package validation

import "testing"

func TestIsValidAcceptsInRangeValues(t *testing.T) {
	if !IsValid(22.5, 55) {
		t.Fatalf("expected 22.5C / 55%% to be valid")
	}
}

func TestIsValidBoundsInclusive(t *testing.T) {
	cases := []struct {
		temperature float64
		humidity    float64
	}{
		{10, 30},
		{30, 90},
		{10, 90},
		{30, 30},
	}
	for _, tc := range cases {
		if !IsValid(tc.temperature, tc.humidity) {
			t.Fatalf("boundary reading %.2fC / %.2f%% should be valid", tc.temperature, tc.humidity)
		}
	}
}

func TestIsValidRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name        string
		temperature float64
		humidity    float64
	}{
		{"temperature just below minimum", 9.99, 50},
		{"temperature above maximum", 30.01, 50},
		{"humidity below minimum", 20, 29.99},
		{"humidity just above maximum", 20, 90.01},
		{"both out of range", -5, 120},
	}
	for _, tc := range cases {
		if IsValid(tc.temperature, tc.humidity) {
			t.Fatalf("%s: %.2fC / %.2f%% should be rejected", tc.name, tc.temperature, tc.humidity)
		}
	}
}
