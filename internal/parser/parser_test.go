package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"persona-rag/internal/models"
)

func TestToMarkdownPassthrough(t *testing.T) {
	dir := t.TempDir()
	content := "# About me\n\nI grew up in Cape Town.\n"
	for _, name := range []string{"about.md", "about.markdown", "about.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := ToMarkdown(path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != content {
			t.Errorf("%s: content was altered: %q", name, got)
		}
	}
}

func TestSupportedFormat(t *testing.T) {
	for _, name := range []string{"a.md", "a.markdown", "a.txt", "a.pdf", "a.docx", "a.xlsx", "A.MD"} {
		if !SupportedFormat(name) {
			t.Errorf("%s should be supported", name)
		}
	}
	for _, name := range []string{"a.png", "a.pptx", "a.ods", "a", "a.md.exe"} {
		if SupportedFormat(name) {
			t.Errorf("%s should not be supported", name)
		}
	}
}

func TestToMarkdownUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ToMarkdown(path)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for unsupported format, got %v", err)
	}
}

func TestToMarkdownMissingFile(t *testing.T) {
	if _, err := ToMarkdown(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
