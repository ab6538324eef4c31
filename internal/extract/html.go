package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Elements whose text never reaches the reader
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
	atom.Button:   true,
}

// Elements that start a new line in the extracted text
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Article: true, atom.Section: true, atom.Header: true, atom.Main: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true, atom.Figcaption: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Dd: true, atom.Dt: true,
}

// HTML extracts the headline and visible article text. Content inside
// <article> or <main> is preferred over the whole body.
func HTML(r io.Reader, maxBytes int64) (*Document, error) {
	data, err := readLimited(r, maxBytes)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)

	headline := Headline(doc)

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}

	var body string
	if container.Length() > 0 {
		body = visibleText(container.Get(0))
	}

	text := body
	if headline != "" && !strings.HasPrefix(body, headline) {
		text = headline + "\n" + body
	}

	return &Document{
		Title: truncateRunes(headline, maxTitleRunes),
		Text:  strings.TrimSpace(text),
		Kind:  model.SourceHTML,
	}, nil
}

// Headline picks the first <h1>, then og:title, then <title>
func Headline(doc *goquery.Document) string {
	if h1 := cleanText(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = cleanText(og); og != "" {
			return og
		}
	}
	return cleanText(doc.Find("title").First().Text())
}

// StripTags returns the text content of an HTML fragment, such as a feed
// item description.
func StripTags(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + fragment + "</body>"))
	if err != nil {
		return fragment
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return cleanText(doc.Text())
	}
	return visibleText(body.Get(0))
}

// visibleText walks n and writes text nodes, breaking lines at block elements
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
			if blocks[n.DataAtom] {
				buf.WriteByte('\n')
			}
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blocks[n.DataAtom] {
			buf.WriteByte('\n')
		}
	}

	walk(n)
	return normalizeWhitespace(buf.String())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
