package cli

import (
	"strings"
	"testing"
)

func TestRenderRequiresFlags(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"render"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected missing-flag error, got %v", err)
	}
}

func TestRenderFailsOnMissingContentFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{
		"render",
		"--content", "does-not-exist.json",
		"--output", t.TempDir(),
	})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing content file")
	}
}

func TestRenderFailsOnMissingOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	content := dir + "/atlas.json"
	writeFile(t, content, `{"languages":{},"patterns":{}}`)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{
		"render",
		"--content", content,
		"--output", dir + "/missing",
	})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing output directory")
	}
}
