package urlpath

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"product detail loses prefix", "/products/SA-12K-2P/", "/SA-12K-2P/"},
		{"catalog listing keeps prefix", "/products/", "/products/"},
		{"prefix without trailing slash", "/products/sa-5k", "/sa-5k/"},
		{"plain category untouched", "/solar-panels/", "/solar-panels/"},
		{"trailing slash added", "/solar-panels", "/solar-panels/"},
		{"leading slash added", "solar-panels/", "/solar-panels/"},
		{"home", "/", "/"},
		{"empty becomes home", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.input); got != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"/products/SA-12K-2P/",
		"/products/",
		"/solar-panels",
		"solar-panels/off-grid",
		"/",
		"",
	}

	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Errorf("Canonicalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
