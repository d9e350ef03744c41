package main

import (
	"strings"
	"testing"
)

func TestVersionLine(t *testing.T) {
	line := versionLine()
	if !strings.HasPrefix(line, "cronguard version ") {
		t.Errorf("unexpected version line: %q", line)
	}
}

func TestVersionLineWithReleaseVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	version = "1.2.3"
	if got := versionLine(); got != "cronguard version 1.2.3" {
		t.Errorf("versionLine = %q", got)
	}
}
