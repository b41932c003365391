package logger

import (
	"testing"

	"dirpx.dev/pulselog/level"
)

func TestParseLevelEnvAccepted(t *testing.T) {
	lvl, err := ParseLevelEnv("debug")
	if err != nil {
		t.Fatalf("ParseLevelEnv: %v", err)
	}
	if lvl != level.Debug {
		t.Fatalf("got %v, want Debug", lvl)
	}
}

func TestParseLevelEnvRejectsUnknown(t *testing.T) {
	if _, err := ParseLevelEnv("verbose"); err == nil {
		t.Fatal("expected error for unrecognized level name")
	}
}
