package models

// Category classifies a source document within the corpus.
type Category string

const (
	CategoryProfessional Category = "professional"
	CategoryPersonal     Category = "personal"
	CategoryAcademic     Category = "academic"
)

// Categories lists every valid document category, in ingestion order.
var Categories = []Category{CategoryProfessional, CategoryPersonal, CategoryAcademic}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Document is a raw file loaded from the corpus. Immutable once loaded;
// re-ingestion supersedes rather than mutates.
type Document struct {
	Content  string
	Source   string
	Category Category
}

// Chunk is a bounded window of a document's content. StartIndex is the
// byte offset of the window in the original content.
type Chunk struct {
	Content    string
	Source     string
	Category   Category
	StartIndex int
}

// SearchResult pairs a retrieved chunk with its distance score.
// Smaller distance means a closer match.
type SearchResult struct {
	Chunk    Chunk
	Distance float32
}

// Answer is the final output of a RAG query: the generated text plus the
// sources of the retrieved context, in rank order.
type Answer struct {
	Text    string
	Sources []string
}
