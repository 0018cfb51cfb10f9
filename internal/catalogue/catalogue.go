// SPDX-License-Identifier: Apache-2.0

// Package catalogue holds the tabular data model shared by every catalogue
// parser: cells that distinguish "no data" from any text, fixed-vocabulary
// sparse records, and the uniform Table they are assembled into.
package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
)

// MissingMarker is how a missing cell renders as text.
const MissingMarker = "NaN"

// ErrorSentinel is the cell text used for a value that carries no uncertainty
// in a column that has room for one.
const ErrorSentinel = "-"

// Cell is a single table cell. The zero value is missing.
type Cell struct {
	text    string
	present bool
}

// Missing returns a cell that holds no data.
func Missing() Cell {
	return Cell{}
}

// Text returns a cell holding s verbatim. An empty string is still present.
func Text(s string) Cell {
	return Cell{text: s, present: true}
}

// Value returns the raw text and whether the cell holds any.
func (c Cell) Value() (string, bool) {
	return c.text, c.present
}

func (c Cell) IsMissing() bool {
	return !c.present
}

func (c Cell) String() string {
	if !c.present {
		return MissingMarker
	}
	return c.text
}

// MarshalJSON renders missing cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.present {
		return []byte("null"), nil
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON accepts null or a string.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Missing()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cell must be a string or null: %w", err)
	}
	*c = Text(s)
	return nil
}

// MarshalYAML renders missing cells as null.
func (c Cell) MarshalYAML() (interface{}, error) {
	if !c.present {
		return nil, nil
	}
	return c.text, nil
}

// Source describes the raw input to the catalogue pipeline.
type Source struct {
	// Content is the decoded catalogue text.
	Content []byte
	Format  string
	ID      string
}

// Parser turns one catalogue format into a Table.
type Parser interface {
	CanHandle(source Source) bool
	Parse(ctx context.Context, source Source) (*Table, error)
	Name() string
}
