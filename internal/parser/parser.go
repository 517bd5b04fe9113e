package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"persona-rag/internal/models"
)

var supportedExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".pdf":      true,
	".docx":     true,
	".xlsx":     true,
}

// SupportedFormat reports whether the file's extension can be ingested.
// The upload path checks this before writing anything to disk.
func SupportedFormat(filePath string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(filePath))]
}

// ToMarkdown reads the file at filePath and returns its content as markdown
// text. Markdown and plain text pass through verbatim; pdf, docx and xlsx
// are converted. Unsupported extensions are a validation error so the
// service can reject them before touching any remote API.
func ToMarkdown(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".md", ".markdown", ".txt":
		return parseText(filePath)
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	default:
		return "", fmt.Errorf("%w: unsupported file format %q", models.ErrValidation, ext)
	}
}

func parseText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parsePDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %v", err)
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %v", i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n\n")
	}
	return convertToMarkdown(text.String())
}

func parseDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %v", err)
	}
	defer r.Close()

	doc := r.Editable()
	var text strings.Builder
	for _, p := range strings.Split(doc.GetContent(), "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		text.WriteString(p)
		text.WriteString("\n\n")
	}
	return convertToMarkdown(text.String())
}

func parseXLSX(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read xlsx: %v", err)
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		text.WriteString("\n")
	}
	return convertToMarkdown(text.String())
}

// convertToMarkdown runs extracted text through the GFM pipeline so that
// what lands in the corpus is well-formed for downstream chunking.
func convertToMarkdown(text string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %v", err)
	}
	return strings.Trim(buf.String(), " \t\n\r"), nil
}
