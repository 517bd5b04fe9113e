package chunker

import (
	"fmt"
	"strings"

	"persona-rag/internal/models"
)

// Split cuts each document into windows of at most chunkSize bytes. Each
// window after the first starts `overlap` bytes before the end of its
// predecessor, so neighbouring chunks share that much text. Window ends
// prefer a space, newline or period found within the last tenth of the
// window; otherwise the cut is a raw byte boundary.
//
// Every chunk carries its document's source and category plus the byte
// offset of the window in the original content. Offsets are monotonically
// non-decreasing per document, and no trailing content is dropped.
func Split(documents []models.Document, chunkSize, overlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", models.ErrConfiguration, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", models.ErrConfiguration, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)", models.ErrConfiguration, overlap, chunkSize)
	}

	var chunks []models.Chunk
	for _, doc := range documents {
		chunks = append(chunks, splitDocument(doc, chunkSize, overlap)...)
	}
	return chunks, nil
}

func splitDocument(doc models.Document, chunkSize, overlap int) []models.Chunk {
	content := doc.Content
	contentLen := len(content)
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var chunks []models.Chunk
	start := 0
	for start < contentLen {
		end := min(start+chunkSize, contentLen)

		// Snap the cut to a clean break point within the last 10% of the
		// window, as long as that leaves the window longer than the overlap.
		if end < contentLen {
			lookBack := min(chunkSize/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					if i+1-start > overlap {
						end = i + 1
					}
					break
				}
			}
		}

		window := content[start:end]
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, models.Chunk{
				Content:    window,
				Source:     doc.Source,
				Category:   doc.Category,
				StartIndex: start,
			})
		}

		if end == contentLen {
			break
		}
		start = end - overlap
	}

	return chunks
}
