// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

const (
	// jbcaHeaderRow is the <tr> holding the column names.
	jbcaHeaderRow = 3
	// jbcaFirstDataRow is the first <tr> of glitch data.
	jbcaFirstDataRow = 5
)

// JBCAParser parses the Jodrell Bank glitch catalogue HTML table. Each data
// cell is wrapped in a <font> element; the first one is a running index and
// is dropped. The table ends at the first row without a pulsar name.
type JBCAParser struct{}

// NewJBCAParser creates a new JBCAParser.
func NewJBCAParser() *JBCAParser {
	return &JBCAParser{}
}

func (p *JBCAParser) Name() string {
	return "jbca"
}

// CanHandle returns true for a "jbca" or "html" format hint, or for content
// that looks like an HTML table.
func (p *JBCAParser) CanHandle(source catalogue.Source) bool {
	switch strings.ToLower(source.Format) {
	case "jbca", "html":
		return true
	case "":
	default:
		return false
	}
	head := bytes.ToLower(source.Content)
	return bytes.Contains(head, []byte("<table")) || bytes.Contains(head, []byte("<tr"))
}

func (p *JBCAParser) Parse(_ context.Context, source catalogue.Source) (*catalogue.Table, error) {
	doc, err := html.Parse(bytes.NewReader(source.Content))
	if err != nil {
		return nil, catalogue.NewParseError(source.ID, "invalid HTML", err)
	}

	rows := findAll(doc, atom.Tr)
	if len(rows) <= jbcaHeaderRow {
		return nil, catalogue.NewParseError(source.ID, fmt.Sprintf("expected a header in table row %d, found %d rows", jbcaHeaderRow, len(rows)), catalogue.ErrRowWidth)
	}

	var headings []string
	for c := rows[jbcaHeaderRow].FirstChild; c != nil; c = c.NextSibling {
		if name := strings.TrimSpace(textContent(c)); name != "" {
			headings = append(headings, name)
		}
	}

	table := catalogue.NewTable("jbca_glitches", headings)
	for i := jbcaFirstDataRow; i < len(rows); i++ {
		fonts := findAll(rows[i], atom.Font)
		if len(fonts) < 2 || strings.TrimSpace(textContent(fonts[1])) == "" {
			break
		}
		cells := make([]catalogue.Cell, 0, len(fonts)-1)
		for _, f := range fonts[1:] {
			cells = append(cells, catalogue.Text(strings.TrimSpace(textContent(f))))
		}
		if err := table.Append(cells); err != nil {
			return nil, &catalogue.ParseError{
				Source:  source.ID,
				Line:    i - jbcaFirstDataRow,
				Index:   -1,
				Message: fmt.Sprintf("row has %d cells, header has %d", len(cells), len(headings)),
				Err:     catalogue.ErrRowWidth,
			}
		}
	}
	return table, nil
}

// findAll returns the descendants of n with the given tag in document order.
func findAll(n *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
