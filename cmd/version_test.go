package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommandWritesToCommandOutput(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	first, _, _ := strings.Cut(out.String(), "\n")
	if first != "screening version: "+version {
		t.Fatalf("unexpected version line %q", first)
	}
}
