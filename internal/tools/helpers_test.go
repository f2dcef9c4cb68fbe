package tools

import (
	"testing"
)

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		input string
		want  *float64
	}{
		{"1.5", floatPtr(1.5)},
		{" 2.25 ", floatPtr(2.25)},
		{"None", nil},
		{"-", nil},
		{"", nil},
		{"garbage", nil},
	}

	for _, tc := range cases {
		got := safeFloat(tc.input)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("safeFloat(%q) nil mismatch: got %v want %v", tc.input, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("safeFloat(%q) = %v, want %v", tc.input, *got, *tc.want)
		}
	}
}

func TestSafeInt(t *testing.T) {
	if got := safeInt("164000"); got == nil || *got != 164000 {
		t.Errorf("safeInt integer: got %v", got)
	}
	if got := safeInt("3.0e9"); got == nil || *got != 3000000000 {
		t.Errorf("safeInt float notation: got %v", got)
	}
	if got := safeInt("None"); got != nil {
		t.Errorf("safeInt None should be nil, got %v", *got)
	}
}

func TestParseIntFloatFallback(t *testing.T) {
	if got := parseInt("1234.0"); got != 1234 {
		t.Errorf("parseInt(1234.0) = %d, want 1234", got)
	}
	if got := parseInt("junk"); got != 0 {
		t.Errorf("parseInt(junk) = %d, want 0", got)
	}
}
