package document

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrUnsupportedType = errors.New("only .txt, .md, .pdf supported")
	ErrEmptyDocument   = errors.New("no text extracted from file")
)

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, collapses runs of blank lines and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ReadTextFile decodes raw as UTF-8 (BOM dropped) and falls back to ISO-8859-1,
// which accepts any byte sequence.
func ReadTextFile(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return CleanText(string(raw)), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return CleanText(string(decoded)), nil
}

// ReadPDFFile extracts the plain text of every page, pages joined by a newline.
func ReadPDFFile(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return CleanText(strings.Join(pages, "\n")), nil
}

// Extract dispatches on the file extension and rejects documents with no text.
func Extract(filename string, raw []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		text, err = ReadTextFile(raw)
	case ".pdf":
		text, err = ReadPDFFile(raw)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
