// Package extract turns plain text, HTML and PDF input into the text that
// gets scored. The first line of Document.Text is the headline when one is known.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/fakecheck/internal/model"
)

// DefaultMaxBytes caps how much input is read from a single source
const DefaultMaxBytes = 2_000_000

const maxTitleRunes = 120

// ErrBinaryInput is returned for input that is neither text, HTML nor PDF
var ErrBinaryInput = errors.New("unsupported binary input")

// Document is extracted text plus a display title
type Document struct {
	Title string
	Text  string
	Kind  model.SourceKind
}

// Text reads plain text. The title is the first non-empty line.
func Text(r io.Reader, maxBytes int64) (*Document, error) {
	data, err := readLimited(r, maxBytes)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, ErrBinaryInput
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return &Document{
		Title: titleFromText(text),
		Text:  text,
		Kind:  model.SourceText,
	}, nil
}

// File extracts a document from disk, choosing the format by extension
// and falling back to content sniffing.
func File(path string, maxBytes int64) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF(path)
	case ".html", ".htm", ".xhtml":
		return openAnd(path, maxBytes, HTML)
	case ".txt", ".md", ".text":
		return openAnd(path, maxBytes, Text)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read file: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return PDF(path)
	case strings.HasPrefix(contentType, "text/html"):
		return HTML(io.MultiReader(bytes.NewReader(head), f), maxBytes)
	default:
		return Text(io.MultiReader(bytes.NewReader(head), f), maxBytes)
	}
}

// Bytes extracts a document from an in-memory payload with the given
// Content-Type, as returned by an HTTP fetch.
func Bytes(data []byte, contentType string, maxBytes int64) (*Document, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	contentType = strings.ToLower(contentType)

	switch {
	case strings.Contains(contentType, "pdf"):
		return PDFBytes(data)
	case strings.Contains(contentType, "html"), strings.Contains(contentType, "xml"):
		return HTML(bytes.NewReader(data), maxBytes)
	default:
		return Text(bytes.NewReader(data), maxBytes)
	}
}

func openAnd(path string, maxBytes int64, fn func(io.Reader, int64) (*Document, error)) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return fn(f, maxBytes)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func titleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncateRunes(line, maxTitleRunes)
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// normalizeWhitespace collapses runs of spaces and drops empty lines
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
