package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// voidElements never carry children and render without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "source": true, "track": true,
	"wbr": true,
}

// rawTextElements keep their text content verbatim, unescaped.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// writeDocument persists doc to path as indented HTML.
func writeDocument(doc *goquery.Document, path string) error {
	var b strings.Builder
	for _, node := range doc.Nodes {
		renderIndented(&b, node, 0)
	}
	return os.WriteFile(path, []byte(b.String()), 0600)
}

// renderIndented writes one node and its subtree, one tag per line,
// indented one space per nesting level. Text content is trimmed and
// placed on its own line; whitespace-only text is dropped.
func renderIndented(w io.StringWriter, n *html.Node, depth int) {
	indent := strings.Repeat(" ", depth)

	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderIndented(w, c, depth)
		}
	case html.DoctypeNode:
		w.WriteString(indent + "<!DOCTYPE " + n.Data + ">\n")
	case html.CommentNode:
		w.WriteString(indent + "<!--" + n.Data + "-->\n")
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return
		}
		if n.Parent != nil && rawTextElements[n.Parent.Data] {
			w.WriteString(indent + text + "\n")
			return
		}
		w.WriteString(indent + html.EscapeString(text) + "\n")
	case html.ElementNode:
		w.WriteString(indent + "<" + n.Data + renderAttrs(n) + ">\n")
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderIndented(w, c, depth+1)
		}
		w.WriteString(indent + "</" + n.Data + ">\n")
	}
}

// renderAttrs serializes a node's attributes in document order.
func renderAttrs(n *html.Node) string {
	var b strings.Builder
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		fmt.Fprintf(&b, ` %s="%s"`, key, html.EscapeString(a.Val))
	}
	return b.String()
}
