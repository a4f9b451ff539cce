// HTML fallback extraction for rendered badge pages. Used when the in-page
// evaluator yields nothing; parses the same named fields out of the HTML.
package scraper

import (
	"fmt"
	"strings"

	"credpoints/internal/badge"

	"golang.org/x/net/html"
)

// ExtractBadgeFromHTML parses a rendered badge page and extracts the
// certification record by named fields. Returns ErrBadgeNotFound when no
// certification name can be located.
func ExtractBadgeFromHTML(pageHTML string) (*badge.Record, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse badge page: %w", err)
	}

	record := &badge.Record{
		Name: firstNonEmpty(
			metaContent(doc, "og:title"),
			headingText(doc),
		),
		Issuer: metaContent(doc, "og:site_name"),
	}

	record.IssuedText = labeledLine(doc, "issued")
	record.ExpiryText = firstNonEmpty(
		labeledLine(doc, "expires"),
		labeledLine(doc, "expired"),
		labeledLine(doc, "no expiration"),
	)

	if strings.TrimSpace(record.Name) == "" {
		return nil, ErrBadgeNotFound
	}
	return record, nil
}

// metaContent returns the content of a meta tag by property or name.
func metaContent(doc *html.Node, key string) string {
	var content string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if content != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var prop, val string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "property", "name":
					prop = attr.Val
				case "content":
					val = attr.Val
				}
			}
			if prop == key && strings.TrimSpace(val) != "" {
				content = strings.TrimSpace(val)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return content
}

// headingText returns the text of the first h1 element.
func headingText(doc *html.Node) string {
	var heading string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if heading != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "h1" {
			heading = textContent(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return heading
}

// labeledLine finds the innermost short text block starting with the label,
// case-insensitively. This matches rows like "Expires: September 26, 2027".
// Children are checked before their parent so a date row wins over the
// container that wraps several rows.
func labeledLine(doc *html.Node, label string) string {
	var line string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
			if line != "" {
				return
			}
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "div", "span", "p", "li", "time":
				text := textContent(n)
				if len(text) > 0 && len(text) < 80 &&
					strings.HasPrefix(strings.ToLower(text), label) {
					line = text
				}
			}
		}
	}
	traverse(doc)
	return line
}

// textContent extracts trimmed text from an HTML node.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
