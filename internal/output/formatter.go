// SPDX-License-Identifier: Apache-2.0

// Package output renders catalogue tables for the terminal or for other tools.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

// Format types for output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formatter writes one table.
type Formatter interface {
	Format(w io.Writer, table *catalogue.Table) error
}

// Option adjusts a formatter built by NewFormatter.
type Option func(*options)

type options struct {
	missing string
}

// WithMissing sets the text written for missing cells by the text formats
// (table and CSV). JSON and YAML always write null.
func WithMissing(marker string) Option {
	return func(o *options) { o.missing = marker }
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format, opts ...Option) Formatter {
	o := options{missing: catalogue.MissingMarker}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatCSV:
		return &CSVFormatter{Missing: o.missing}
	default:
		return &TableFormatter{Missing: o.missing}
	}
}

// ParseFormat converts string to Format with validation. Empty detects the
// format from the terminal.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case "":
		return DetectFormat(), nil
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return format, nil
	}
	return "", fmt.Errorf("invalid output format %q (want table, json, yaml or csv)", s)
}

// DetectFormat picks a table on a terminal and JSON for pipes.
func DetectFormat() Format {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// JSONFormatter outputs JSON format. Missing cells are null.
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(w io.Writer, table *catalogue.Table) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(table)
}

// YAMLFormatter outputs YAML format. Missing cells are null.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(w io.Writer, table *catalogue.Table) error {
	data, err := yaml.MarshalWithOptions(table, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// CSVFormatter writes a header line and one record per row. Missing cells are
// written as Missing. With the default catalogue.MissingMarker a missing cell
// reads the same as a cell holding the literal text "NaN"; pick another
// marker, or use JSON, YAML or SQLite, when the two must stay apart.
type CSVFormatter struct {
	Missing string
}

func (f *CSVFormatter) Format(w io.Writer, table *catalogue.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(table.StringsWith(f.Missing)); err != nil {
		return err
	}
	return cw.Error()
}

// TableFormatter outputs an aligned text table titled with the table name.
// Missing cells are shown as Missing, with the same caveat as CSVFormatter.
type TableFormatter struct {
	Missing string
}

func (f *TableFormatter) Format(w io.Writer, table *catalogue.Table) error {
	if table.Name != "" {
		if _, err := fmt.Fprintf(w, "%s (%d rows)\n", table.Name, table.Len()); err != nil {
			return err
		}
	}

	tw := tablewriter.NewTable(w)

	headers := make([]any, len(table.Columns))
	for i, h := range table.Columns {
		headers[i] = h
	}
	tw.Header(headers...)

	for _, row := range table.StringsWith(f.Missing) {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := tw.Append(rowData...); err != nil {
			return err
		}
	}
	return tw.Render()
}
