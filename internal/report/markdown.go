package report

import (
	"bytes"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

var markdownConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// htmlToMarkdown converts rendered HTML to Markdown with pipe tables.
func htmlToMarkdown(html string) (string, error) {
	md, err := markdownConverter.ConvertString(html)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "convert report to markdown")
	}
	return strings.TrimSpace(md) + "\n", nil
}

// WriteCountriesMarkdown renders the per-country report as Markdown.
func WriteCountriesMarkdown(w io.Writer, breakdowns []domain.CountryBreakdown, names Namer) error {
	var buf bytes.Buffer
	if err := WriteCountriesHTML(&buf, breakdowns, names); err != nil {
		return err
	}
	md, err := htmlToMarkdown(buf.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, md)
	return err
}

// WriteTableMarkdown renders a full dimension table as Markdown.
func WriteTableMarkdown(w io.Writer, t domain.Breakdown, names Namer) error {
	var buf bytes.Buffer
	if err := WriteTableHTML(&buf, t, names); err != nil {
		return err
	}
	md, err := htmlToMarkdown(buf.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, md)
	return err
}
