package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("")

	first := gen.Next()
	second := gen.Next()

	if first != "user-1" || second != "user-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorCanReset(t *testing.T) {
	gen := NewIDGenerator("resident")
	_ = gen.Next()
	gen.Reset()

	if next := gen.NextFunc()(); next != "resident-1" {
		t.Fatalf("expected resident-1 after reset, got %q", next)
	}
}
