// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

// GlitchHeader is the column list of the ATNF glitch database. Each of the
// five measured quantities is followed by its uncertainty column.
var GlitchHeader = []string{
	"Name", "J2000 Name",
	"Glitch Epoch", "+/-",
	"dF_F", "+/-",
	"dF1_F1", "+/-",
	"Q", "+/-",
	"T_d", "+/-",
	"Ref.",
}

const (
	// glitchHeaderLines precede the data in glitch.db.
	glitchHeaderLines = 3
	// glitchValueColumns is the number of whitespace-delimited fields per line.
	glitchValueColumns = 8
)

// glitchHasErrorColumn reports whether value position i owns an error column.
// The two names and the trailing reference never do.
func glitchHasErrorColumn(i int) bool {
	return i > 1 && i < glitchValueColumns-1
}

// GlitchDBParser parses the fixed-column glitch.db flat file.
type GlitchDBParser struct{}

// NewGlitchDBParser creates a new GlitchDBParser.
func NewGlitchDBParser() *GlitchDBParser {
	return &GlitchDBParser{}
}

func (p *GlitchDBParser) Name() string {
	return "glitchdb"
}

// CanHandle returns true for a "glitchdb" format hint or a source named glitch.db.
func (p *GlitchDBParser) CanHandle(source catalogue.Source) bool {
	switch strings.ToLower(source.Format) {
	case "glitchdb", "glitch.db", "atnf-glitch":
		return true
	}
	return strings.HasSuffix(source.ID, "glitch.db")
}

func (p *GlitchDBParser) Parse(_ context.Context, source catalogue.Source) (*catalogue.Table, error) {
	rows, err := ParseGlitchRows(string(source.Content))
	if err != nil {
		var pe *catalogue.ParseError
		if errors.As(err, &pe) && pe.Source == "" {
			pe.Source = source.ID
		}
		return nil, err
	}
	return catalogue.AssembleRows("atnf_glitches", GlitchHeader, rows)
}

// ParseGlitchRows skips the header lines and decodes every non-blank line
// into a row aligned with GlitchHeader. Line numbers in errors count from the
// first line after the header.
func ParseGlitchRows(text string) ([][]string, error) {
	lines := strings.Split(text, "\n")
	if len(lines) <= glitchHeaderLines {
		return nil, nil
	}
	lines = lines[glitchHeaderLines:]

	var rows [][]string
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < glitchValueColumns {
			return nil, &catalogue.ParseError{
				Line:    i,
				Index:   -1,
				Token:   strings.TrimSpace(line),
				Message: fmt.Sprintf("expected %d fields, found %d", glitchValueColumns, len(fields)),
				Err:     catalogue.ErrRowWidth,
			}
		}

		row, err := ExpandErrors(fields, glitchHasErrorColumn)
		if err != nil {
			var pe *catalogue.ParseError
			if errors.As(err, &pe) {
				return nil, pe.AtLine("", i)
			}
			return nil, err
		}
		if len(row) != len(GlitchHeader) {
			return nil, &catalogue.ParseError{
				Line:    i,
				Index:   -1,
				Token:   strings.TrimSpace(line),
				Message: fmt.Sprintf("decoded %d columns, header has %d", len(row), len(GlitchHeader)),
				Err:     catalogue.ErrRowWidth,
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
