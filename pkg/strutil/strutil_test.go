package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Number Formatting Tests
// =============================================================================

func TestFormatCommas(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		tests := []struct {
			input    int
			expected string
		}{
			{0, "0"},
			{100, "100"},
			{1000, "1,000"},
			{1234567, "1,234,567"},
			{-1234567, "-1,234,567"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, FormatCommas(tt.input))
		}
	})

	t.Run("int64", func(t *testing.T) {
		tests := []struct {
			input    int64
			expected string
		}{
			{-3, "-3"},
			{1_000_000, "1,000,000"},
			{9223372036854775807, "9,223,372,036,854,775,807"},
			{-9223372036854775808, "-9,223,372,036,854,775,808"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, FormatCommas(tt.input))
		}
	})

	t.Run("uint64", func(t *testing.T) {
		assert.Equal(t, "18,446,744,073,709,551,615", FormatCommas(uint64(18446744073709551615)))
	})
}

// =============================================================================
// String Splitting Tests
// =============================================================================

func TestSplitAndTrim(t *testing.T) {
	var notAssign []string

	cases := []struct {
		name     string
		s        string
		sep      string
		expected []string
	}{
		{name: "Comma separated", s: "order,invoice", sep: ",", expected: []string{"order", "invoice"}},
		{name: "Comma separated with empty", s: ",order,,invoice,,", sep: ",", expected: []string{"order", "invoice"}},
		{name: "Comma separated with spaces", s: " order ,  , invoice", sep: ",", expected: []string{"order", "invoice"}},
		{name: "Separator not found", s: "order", sep: ",", expected: []string{"order"}},
		{name: "Only separators", s: ",,,", sep: ",", expected: notAssign},
		{name: "Empty string", s: "", sep: ",", expected: notAssign},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, SplitAndTrim(c.s, c.sep))
		})
	}
}

// =============================================================================
// Sensitive Data Masking Tests
// =============================================================================

func TestMaskSensitiveData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty string", "", ""},
		{"Short string (1 char)", "a", "***"},
		{"Short string (3 chars)", "abc", "***"},
		{"Medium string (4 chars)", "abcd", "abcd***"},
		{"Medium string (12 chars)", "123456789012", "1234***"},
		{"Long string (token)", "123456789:ABCdefGHIjklMNOpqrsTUVwxyz", "1234***wxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskSensitiveData(tt.input))
		})
	}
}
