package countries

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

//go:embed countries.csv
var defaultCSV []byte

// Default returns the embedded ISO 3166 table.
func Default() (*Table, error) {
	list, err := ParseCSV(bytes.NewReader(defaultCSV))
	if err != nil {
		return nil, err
	}
	return NewTable(list)
}

// Load reads a reference table from path. An empty path returns the embedded default.
// .csv files need name and alpha3 columns; .html files are saved country-code pages
// with a #myTable element.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound, "country table %s", path)
	}
	defer f.Close()

	var list []domain.Country
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		list, err = ParseCSV(f)
	case ".html", ".htm":
		list, err = ParseHTML(f)
	default:
		return nil, errors.Unsupportedf("unsupported country table format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return NewTable(list)
}

// ParseCSV reads a name,alpha2,alpha3 table with a header row. The alpha2 column is optional;
// "iso3" is accepted as an alias of "alpha3".
func ParseCSV(r io.Reader) ([]domain.Country, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedInput, "read country table header")
	}

	nameCol, alpha2Col, alpha3Col := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name", "country":
			nameCol = i
		case "alpha2", "iso2":
			alpha2Col = i
		case "alpha3", "iso3":
			alpha3Col = i
		}
	}
	if nameCol < 0 || alpha3Col < 0 {
		return nil, errors.MalformedInput("country table needs name and alpha3 columns")
	}

	var list []domain.Country
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeMalformedInput, "country table line %d", line)
		}

		c := domain.Country{Name: field(rec, nameCol), ISO3: field(rec, alpha3Col)}
		if alpha2Col >= 0 {
			c.Alpha2 = field(rec, alpha2Col)
		}
		list = append(list, c)
	}
	return list, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ParseHTML extracts countries from a saved country-code page. Each row of the
// #myTable body carries the name in the first cell, alpha-2 in the second and
// alpha-3 in the third.
func ParseHTML(r io.Reader) ([]domain.Country, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedInput, "parse country page")
	}

	table := findByID(doc, "myTable")
	if table == nil {
		return nil, errors.MalformedInput("country page has no #myTable element")
	}

	var list []domain.Country
	for _, tr := range elements(table, "tr") {
		cells := elements(tr, "td")
		if len(cells) < 3 {
			// Header rows use th cells.
			continue
		}
		list = append(list, domain.Country{
			Name:   textOf(cells[0]),
			Alpha2: textOf(cells[1]),
			ISO3:   textOf(cells[2]),
		})
	}

	if len(list) == 0 {
		return nil, errors.MalformedInput("#myTable has no country rows")
	}
	return list, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// elements returns the descendants of n with the given tag, in document order.
// It does not descend into matched elements.
func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
			continue
		}
		out = append(out, elements(c, tag)...)
	}
	return out
}

func textOf(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
