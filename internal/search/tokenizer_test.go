package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{"web_search", []string{"web_search"}},
		{"Take a Screenshot!", []string{"take", "a", "screenshot"}},
		{"fetch-url: http://x", []string{"fetch", "url", "http", "x"}},
		{"v2 rollout", []string{"v", "rollout"}},
		{"", nil},
		{"123 456", nil},
	}

	for _, tc := range cases {
		if got := Tokenize(tc.input); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("Tokenize(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"start verification cycle", "start_verification_cycle"},
		{"  Web   Search ", "web_search"},
		{"web_search", "web_search"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := normalizeName(tc.input); got != tc.expected {
			t.Errorf("normalizeName(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}
