package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ppiankov/fakecheck/internal/model"
)

// ErrNoPDFText is returned when a PDF has no extractable text layer
var ErrNoPDFText = errors.New("no extractable text found in pdf")

// PDF extracts the plain text of every page of the file at path
func PDF(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	return pdfDocument(r)
}

// PDFBytes extracts text from an in-memory PDF
func PDFBytes(data []byte) (*Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return pdfDocument(r)
}

func pdfDocument(r *pdf.Reader) (*Document, error) {
	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := normalizeWhitespace(b.String())
	if text == "" {
		return nil, ErrNoPDFText
	}

	return &Document{
		Title: titleFromText(text),
		Text:  text,
		Kind:  model.SourcePDF,
	}, nil
}
