package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eth2030/dastack/kzg"
)

func TestRunWritesLoadableArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "srs.bin")
	if code := run([]string{"-size", "8", "-seed", "test-seed", "-out", out}); code != 0 {
		t.Fatalf("run exited with %d", code)
	}

	artifact, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	var params kzg.GlobalParameters
	if err := params.UnmarshalBinary(artifact); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if params.Length() != 8 {
		t.Fatalf("decoded %d powers, want 8", params.Length())
	}

	// Same seed, same artifact.
	expected, err := kzg.NewInsecureParameters(8, []byte("test-seed")).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(expected) != len(artifact) {
		t.Fatalf("artifact size %d, want %d", len(artifact), len(expected))
	}
	for i := range expected {
		if expected[i] != artifact[i] {
			t.Fatalf("artifact differs from deterministic expectation at byte %d", i)
		}
	}
}

func TestRunRejectsBadSize(t *testing.T) {
	if code := run([]string{"-size", "1"}); code != 2 {
		t.Fatalf("run exited with %d, want 2", code)
	}
	if code := run([]string{"-not-a-flag"}); code != 2 {
		t.Fatalf("run exited with %d, want 2", code)
	}
}
