package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/fakecheck/internal/model"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Portal | Nachrichten</title>
	<meta property="og:title" content="OG Titel">
	<script>var tracking = "Skandal";</script>
	<style>.x { color: red; }</style>
</head>
<body>
	<nav><a href="/">Startseite</a> <a href="/skandal">Skandal-Rubrik</a></nav>
	<article>
		<h1>Unglaublich: Was heute   passiert ist</h1>
		<p>Laut einer <b>Studie</b> des Bundesamts wurden 2023 insgesamt 450 Fälle dokumentiert.</p>
		<p>Quelle: dpa.<br>Weitere Informationen folgen.</p>
		<!-- Kommentar -->
	</article>
	<footer>Impressum</footer>
</body>
</html>`

func TestHTML_ArticleText(t *testing.T) {
	doc, err := HTML(strings.NewReader(articleHTML), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if doc.Kind != model.SourceHTML {
		t.Errorf("Expected kind html, got %s", doc.Kind)
	}

	if doc.Title != "Unglaublich: Was heute passiert ist" {
		t.Errorf("Unexpected title: %q", doc.Title)
	}

	firstLine, _, _ := strings.Cut(doc.Text, "\n")
	if firstLine != "Unglaublich: Was heute passiert ist" {
		t.Errorf("Expected headline as first line, got %q", firstLine)
	}

	if !strings.Contains(doc.Text, "Laut einer Studie des Bundesamts") {
		t.Errorf("Expected inline markup to be flattened, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "Quelle: dpa.\nWeitere Informationen folgen.") {
		t.Errorf("Expected <br> to break lines, got %q", doc.Text)
	}

	for _, hidden := range []string{"tracking", "color: red", "Startseite", "Impressum", "Kommentar", "Portal"} {
		if strings.Contains(doc.Text, hidden) {
			t.Errorf("Expected %q to be excluded, got %q", hidden, doc.Text)
		}
	}
}

func TestHTML_HeadlineFallbacks(t *testing.T) {
	tests := []struct {
		html     string
		expected string
	}{
		{`<html><head><title>Nur Titel</title></head><body><p>Text</p></body></html>`, "Nur Titel"},
		{`<html><head><title>T</title><meta property="og:title" content="Open Graph"></head><body><p>x</p></body></html>`, "Open Graph"},
		{`<html><body><p>Kein Titel</p></body></html>`, ""},
	}

	for _, tt := range tests {
		doc, err := HTML(strings.NewReader(tt.html), 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if doc.Title != tt.expected {
			t.Errorf("Expected title %q, got %q", tt.expected, doc.Title)
		}
		if tt.expected != "" && !strings.HasPrefix(doc.Text, tt.expected+"\n") {
			t.Errorf("Expected headline to be prepended, got %q", doc.Text)
		}
	}
}

func TestText(t *testing.T) {
	doc, err := Text(strings.NewReader("\r\n  Erste Zeile  \r\nZweite Zeile"), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if doc.Title != "Erste Zeile" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	if strings.Contains(doc.Text, "\r") {
		t.Error("Expected CRLF to be normalized")
	}
	if doc.Kind != model.SourceText {
		t.Errorf("Expected kind text, got %s", doc.Kind)
	}
}

func TestText_Binary(t *testing.T) {
	_, err := Text(strings.NewReader("\xff\xfe\x00binary"), 0)
	if !errors.Is(err, ErrBinaryInput) {
		t.Errorf("Expected ErrBinaryInput, got %v", err)
	}
}

func TestText_MaxBytes(t *testing.T) {
	doc, err := Text(strings.NewReader(strings.Repeat("a", 100)), 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(doc.Text) != 10 {
		t.Errorf("Expected input to be capped at 10 bytes, got %d", len(doc.Text))
	}
}

func TestFile_DispatchByExtensionAndContent(t *testing.T) {
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "page.html")
	if err := os.WriteFile(htmlPath, []byte(articleHTML), 0644); err != nil {
		t.Fatal(err)
	}
	sniffPath := filepath.Join(dir, "page.download")
	if err := os.WriteFile(sniffPath, []byte(articleHTML), 0644); err != nil {
		t.Fatal(err)
	}
	textPath := filepath.Join(dir, "note")
	if err := os.WriteFile(textPath, []byte("Nur ein Satz."), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		kind model.SourceKind
	}{
		{htmlPath, model.SourceHTML},
		{sniffPath, model.SourceHTML},
		{textPath, model.SourceText},
	}

	for _, tt := range tests {
		doc, err := File(tt.path, 0)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.path, err)
		}
		if doc.Kind != tt.kind {
			t.Errorf("%s: expected kind %s, got %s", tt.path, tt.kind, doc.Kind)
		}
	}
}

func TestFile_Missing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing.txt"), 0); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestBytes_ContentType(t *testing.T) {
	doc, err := Bytes([]byte(articleHTML), "text/html; charset=utf-8", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if doc.Kind != model.SourceHTML {
		t.Errorf("Expected html, got %s", doc.Kind)
	}

	doc, err = Bytes([]byte("Hallo Welt"), "", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if doc.Kind != model.SourceText {
		t.Errorf("Expected text, got %s", doc.Kind)
	}
}

func TestPDFBytes_Invalid(t *testing.T) {
	if _, err := PDFBytes([]byte("not a pdf")); err == nil {
		t.Error("Expected error for invalid PDF")
	}
}

func TestStripTags(t *testing.T) {
	got := StripTags(`<p>Die <b>Elite</b> lügt!</p><p>Zweiter Absatz</p>`)
	expected := "Die Elite lügt!\nZweiter Absatz"

	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	if StripTags("") != "" {
		t.Error("Expected empty string for empty fragment")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("Größenwahn", 5); got != "Größe…" {
		t.Errorf("Expected rune-safe truncation, got %q", got)
	}
	if got := truncateRunes("kurz", 10); got != "kurz" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
}
