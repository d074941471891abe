package parser

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLSource reads <table> elements out of an HTML page.
type HTMLSource struct{}

func NewHTMLSource() *HTMLSource {
	return &HTMLSource{}
}

func (s *HTMLSource) Name() string {
	return "html"
}

func (s *HTMLSource) CanScan(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return bytes.Contains(bytes.ToLower(sniff(data)), []byte("<table"))
}

func (s *HTMLSource) Scan(r io.Reader) ([]models.RawTable, error) {
	return ScanHTMLTables(r)
}

// ScanHTMLTables returns one RawTable per <table> in document order,
// nested tables included. Headers are the trimmed text of every <th> in the
// table; rows are the <tr> elements under a <tbody>, each as the trimmed
// text of its <td> cells. The HTML parser inserts an implicit <tbody>, so a
// header row written without <thead> shows up as a row with no cells.
func ScanHTMLTables(r io.Reader) ([]models.RawTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	tables := make([]models.RawTable, 0)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, scanTable(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tables, nil
}

func scanTable(table *html.Node) models.RawTable {
	headers := make([]string, 0)
	for _, th := range descendants(table, atom.Th) {
		headers = append(headers, textContent(th))
	}

	rows := make([][]string, 0)
	for _, tbody := range descendants(table, atom.Tbody) {
		for _, tr := range descendants(tbody, atom.Tr) {
			cells := make([]string, 0)
			for _, td := range descendants(tr, atom.Td) {
				cells = append(cells, textContent(td))
			}
			rows = append(rows, cells)
		}
	}

	return models.RawTable{Headers: headers, Rows: rows}
}

// descendants returns the elements of type a below n in document order.
// Matches are not searched for further matches of the same type, so a
// tbody inside a tbody is not visited twice.
func descendants(n *html.Node, a atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == a {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
