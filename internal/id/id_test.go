package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	id, err := Generate("run")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(id, "run-") {
		t.Errorf("expected run- prefix, got %q", id)
	}
	if len(id) <= len("run-") {
		t.Errorf("expected nanoid after prefix, got %q", id)
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := MustGenerate("run")
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
