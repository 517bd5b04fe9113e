package loader

import (
	"os"
	"path/filepath"
	"testing"

	"persona-rag/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadCorpus(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "professional", "cv.md"), "# CV\nBackend engineer.")
	writeFile(t, filepath.Join(dataDir, "personal", "about.md"), "I grew up in Cape Town.")
	writeFile(t, filepath.Join(dataDir, "personal", "notes.txt"), "ignored, not markdown")
	// academic directory intentionally absent

	docs, err := LoadCorpus(dataDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	// Categories load in a fixed order: professional before personal.
	if docs[0].Category != models.CategoryProfessional || docs[0].Source != filepath.Join(dataDir, "professional", "cv.md") {
		t.Errorf("first document = %+v", docs[0])
	}
	if docs[1].Category != models.CategoryPersonal {
		t.Errorf("second document category = %q", docs[1].Category)
	}
	if docs[1].Content != "I grew up in Cape Town." {
		t.Errorf("markdown content was not loaded verbatim: %q", docs[1].Content)
	}
}

func TestLoadCorpusEmptyDir(t *testing.T) {
	docs, err := LoadCorpus(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thesis.md")
	writeFile(t, path, "## Thesis\nAn abstract.")

	doc, err := LoadFile(path, models.CategoryAcademic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "## Thesis\nAn abstract." {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.Source != path || doc.Category != models.CategoryAcademic {
		t.Errorf("metadata = %q/%q", doc.Source, doc.Category)
	}
}
