// Package legacy reads the hierarchical export produced by the predecessor
// warranty platform. The export is a single XML document carrying three
// record tables (CLIENTE, VEICULO, PRODUTO_APLICADO); every field inside a
// row is optional text. The package exposes the document as a generic node
// tree plus pure decoding helpers, so that all presence/absence and format
// decisions live here rather than in the import stages.
package legacy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrTableNotFound is returned by Document.Table when the export does not
// contain the requested record table. Callers treat this as fatal for the
// stage that needed the table, since a whole missing table cannot be
// defaulted row by row.
var ErrTableNotFound = errors.New("table not found in legacy document")

// Node is one element of the parsed export. Children holds the element
// children in document order; Text holds the accumulated character data.
type Node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []Node `xml:",any"`
}

// Name returns the element's local name.
func (n *Node) Name() string { return n.XMLName.Local }

// Document is a fully loaded legacy export. The whole tree is kept in
// memory; the exports this engine handles are a few megabytes at most.
type Document struct {
	root Node
}

// Load reads and parses the export at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open legacy export: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a legacy export from r.
func Parse(r io.Reader) (*Document, error) {
	var root Node
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse legacy export: %w", err)
	}
	return &Document{root: root}, nil
}

// Table returns the ordered row nodes of the named record table. Two export
// layouts occur in the wild and both are accepted: a wrapper element named
// after the table whose children are the rows, and repeated table-named
// elements that are themselves the rows.
func (d *Document) Table(name string) ([]Node, error) {
	matches := findAll(&d.root, name)
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%s: %w", name, ErrTableNotFound)
	case len(matches) == 1 && len(matches[0].Children) == 0:
		// Empty table wrapper.
		return nil, nil
	case len(matches) == 1 && hasNestedElements(matches[0]):
		// Wrapper layout: the single match holds the rows.
		return matches[0].Children, nil
	default:
		rows := make([]Node, len(matches))
		for i, m := range matches {
			rows[i] = *m
		}
		return rows, nil
	}
}

// Field returns the trimmed text of the row's direct child element with the
// given name, or nil when no such element exists. Present-but-empty fields
// decode to the empty string; Blank treats both forms as missing.
func Field(row *Node, name string) *string {
	for i := range row.Children {
		if row.Children[i].XMLName.Local == name {
			s := strings.TrimSpace(row.Children[i].Text)
			return &s
		}
	}
	return nil
}

// Blank reports whether an optional field is absent or empty.
func Blank(s *string) bool { return s == nil || *s == "" }

func findAll(n *Node, name string) []*Node {
	var out []*Node
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == name {
			out = append(out, c)
			continue
		}
		out = append(out, findAll(c, name)...)
	}
	return out
}

// hasNestedElements reports whether any child of n has element children of
// its own, i.e. n looks like a table wrapper rather than a single row.
func hasNestedElements(n *Node) bool {
	for i := range n.Children {
		if len(n.Children[i].Children) > 0 {
			return true
		}
	}
	return false
}
