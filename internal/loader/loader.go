package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"persona-rag/internal/models"
	"persona-rag/internal/parser"
)

// LoadCorpus walks data/<category> for every known category and loads each
// markdown file as a Document. A missing category directory is skipped, not
// an error: a corpus may only cover some categories.
func LoadCorpus(dataDir string) ([]models.Document, error) {
	var documents []models.Document
	for _, category := range models.Categories {
		dir := filepath.Join(dataDir, string(category))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debug().Str("dir", dir).Msg("category directory missing, skipping")
				continue
			}
			return nil, err
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext != ".md" && ext != ".markdown" {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			doc, err := LoadFile(path, category)
			if err != nil {
				return nil, err
			}
			documents = append(documents, doc)
		}
		log.Debug().Str("category", string(category)).Int("files", len(names)).Msg("loaded category")
	}
	return documents, nil
}

// LoadFile loads a single file as a Document under the given category,
// converting non-markdown formats through the parser.
func LoadFile(path string, category models.Category) (models.Document, error) {
	content, err := parser.ToMarkdown(path)
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{
		Content:  content,
		Source:   path,
		Category: category,
	}, nil
}
