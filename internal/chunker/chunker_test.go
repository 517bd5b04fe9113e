package chunker

import (
	"errors"
	"strings"
	"testing"

	"persona-rag/internal/models"
)

func doc(content string) models.Document {
	return models.Document{
		Content:  content,
		Source:   "data/personal/about.md",
		Category: models.CategoryPersonal,
	}
}

func TestSplitRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -10, 0},
		{"negative overlap", 100, -1},
		{"overlap equals chunk size", 100, 100},
		{"overlap exceeds chunk size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split([]models.Document{doc("some content")}, tc.chunkSize, tc.overlap)
			if !errors.Is(err, models.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestSplitSmallDocumentSingleChunk(t *testing.T) {
	content := "A short personal note that fits in one window."
	chunks, err := Split([]models.Document{doc(content)}, 500, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != content {
		t.Errorf("chunk content = %q, want original content", chunks[0].Content)
	}
	if chunks[0].StartIndex != 0 {
		t.Errorf("start index = %d, want 0", chunks[0].StartIndex)
	}
	if chunks[0].Source != "data/personal/about.md" || chunks[0].Category != models.CategoryPersonal {
		t.Errorf("chunk did not inherit document metadata: %+v", chunks[0])
	}
}

func TestSplitLengthBoundAndOffsets(t *testing.T) {
	content := strings.Repeat("lorem ipsum ", 400) // 4800 bytes
	configs := []struct{ size, overlap int }{
		{500, 100},
		{200, 50},
		{64, 16},
		{1000, 0},
		{37, 9}, // awkward sizes exercise the raw-cut fallback
	}
	for _, cfg := range configs {
		chunks, err := Split([]models.Document{doc(content)}, cfg.size, cfg.overlap)
		if err != nil {
			t.Fatalf("size=%d overlap=%d: %v", cfg.size, cfg.overlap, err)
		}
		if len(chunks) == 0 {
			t.Fatalf("size=%d overlap=%d: no chunks produced", cfg.size, cfg.overlap)
		}
		prevStart := -1
		for i, c := range chunks {
			if len(c.Content) == 0 {
				t.Fatalf("size=%d overlap=%d: chunk %d is empty", cfg.size, cfg.overlap, i)
			}
			if len(c.Content) > cfg.size {
				t.Fatalf("size=%d overlap=%d: chunk %d has length %d > %d",
					cfg.size, cfg.overlap, i, len(c.Content), cfg.size)
			}
			if c.StartIndex < prevStart {
				t.Fatalf("size=%d overlap=%d: start index went backwards at chunk %d", cfg.size, cfg.overlap, i)
			}
			prevStart = c.StartIndex
		}
	}
}

// Reconstructing the document from chunk offsets must reproduce it exactly:
// no gaps, no dropped tail.
func TestSplitReconstructsDocument(t *testing.T) {
	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	for _, cfg := range []struct{ size, overlap int }{{500, 100}, {128, 32}, {50, 10}} {
		chunks, err := Split([]models.Document{doc(content)}, cfg.size, cfg.overlap)
		if err != nil {
			t.Fatalf("size=%d overlap=%d: %v", cfg.size, cfg.overlap, err)
		}
		var rebuilt strings.Builder
		covered := 0
		for i, c := range chunks {
			if c.StartIndex > covered {
				t.Fatalf("size=%d overlap=%d: gap before chunk %d (start %d, covered %d)",
					cfg.size, cfg.overlap, i, c.StartIndex, covered)
			}
			fresh := covered - c.StartIndex
			if fresh < len(c.Content) {
				rebuilt.WriteString(c.Content[fresh:])
				covered = c.StartIndex + len(c.Content)
			}
		}
		if rebuilt.String() != content {
			t.Errorf("size=%d overlap=%d: reconstruction does not match original", cfg.size, cfg.overlap)
		}
	}
}

// Each chunk after the first must begin with the trailing overlap bytes of
// its predecessor.
func TestSplitOverlapInvariant(t *testing.T) {
	content := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	const overlap = 40
	chunks, err := Split([]models.Document{doc(content)}, 300, overlap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		cur := chunks[i]
		wantStart := prev.StartIndex + len(prev.Content) - overlap
		if cur.StartIndex != wantStart {
			t.Fatalf("chunk %d starts at %d, want %d", i, cur.StartIndex, wantStart)
		}
		if !strings.HasSuffix(prev.Content, cur.Content[:overlap]) {
			t.Fatalf("chunk %d does not repeat its predecessor's trailing %d bytes", i, overlap)
		}
	}
}

func TestSplitTwelveHundredByteExample(t *testing.T) {
	content := strings.Repeat("lorem ipsum ", 100) // exactly 1200 bytes
	chunks, err := Split([]models.Document{doc(content)}, 500, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	approx := []int{0, 400, 800}
	for i, c := range chunks {
		diff := c.StartIndex - approx[i]
		if diff < -20 || diff > 20 {
			t.Errorf("chunk %d start index = %d, want about %d", i, c.StartIndex, approx[i])
		}
	}
}

func TestSplitSkipsBlankDocuments(t *testing.T) {
	chunks, err := Split([]models.Document{doc(""), doc("   \n\t  ")}, 500, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks from blank documents, got %d", len(chunks))
	}
}

func TestSplitMultipleDocumentsKeepMetadata(t *testing.T) {
	docs := []models.Document{
		{Content: strings.Repeat("a professional history entry. ", 30), Source: "data/professional/cv.md", Category: models.CategoryProfessional},
		{Content: "one small academic note", Source: "data/academic/thesis.md", Category: models.CategoryAcademic},
	}
	chunks, err := Split(docs, 200, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawCV, sawThesis bool
	for _, c := range chunks {
		switch c.Source {
		case "data/professional/cv.md":
			sawCV = true
			if c.Category != models.CategoryProfessional {
				t.Errorf("cv chunk has category %q", c.Category)
			}
		case "data/academic/thesis.md":
			sawThesis = true
			if c.Category != models.CategoryAcademic {
				t.Errorf("thesis chunk has category %q", c.Category)
			}
		default:
			t.Errorf("chunk with unexpected source %q", c.Source)
		}
	}
	if !sawCV || !sawThesis {
		t.Errorf("missing chunks for one of the documents (cv=%v thesis=%v)", sawCV, sawThesis)
	}
}
