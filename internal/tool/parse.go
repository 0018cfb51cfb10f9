// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glitchcat/glitchcat/internal/catalogue"
	"github.com/glitchcat/glitchcat/internal/catalogue/parsers"
)

// MetadataParseCatalogue describes the parse_catalogue tool.
var MetadataParseCatalogue = &mcp.Tool{
	Name: "parse_catalogue",
	Description: "Parse pulsar catalogue text into a uniform table. " +
		"Supported formats: jbca (the Jodrell Bank glitch table HTML), glitchdb (ATNF glitch.db) " +
		"and psrcat (ATNF psrcat.db). Values written as value(error) are split into a value column " +
		"and an error column scaled to the value's decimal places. Fields with no data are omitted " +
		"from a row rather than reported as empty or zero.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Raw catalogue text",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Format hint. One of: jbca, glitchdb, psrcat. If omitted, auto-detection is used.",
				"enum":        []string{"jbca", "glitchdb", "psrcat"},
			},
			"source_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional identifier for the input (file name, URL) used in error messages and detection.",
			},
			"policy": map[string]interface{}{
				"type":        "string",
				"description": "psrcat only: append-always (default) keeps an unterminated final record, on-boundary drops it.",
				"enum":        []string{"append-always", "on-boundary"},
			},
		},
	},
}

// InputParseCatalogue is the input for the ParseCatalogue tool.
type InputParseCatalogue struct {
	Content  string `json:"content"`
	Format   string `json:"format"`
	SourceID string `json:"source_id"`
	Policy   string `json:"policy"`
}

// OutputParseCatalogue is the output for the ParseCatalogue tool.
type OutputParseCatalogue struct {
	// Table is the name of the assembled table.
	Table string `json:"table"`
	// ParserUsed is the name of the parser that was selected.
	ParserUsed string `json:"parser_used"`
	// Columns lists every column in order.
	Columns []string `json:"columns"`
	// Rows holds one object per row keyed by column; missing cells are absent.
	Rows     []map[string]string `json:"rows"`
	RowCount int                 `json:"row_count"`
}

// ParseCatalogue runs the catalogue pipeline over the provided text.
func ParseCatalogue(ctx context.Context, _ *mcp.CallToolRequest, input InputParseCatalogue) (*mcp.CallToolResult, OutputParseCatalogue, error) {
	if input.Content == "" {
		return nil, OutputParseCatalogue{}, fmt.Errorf("content is required")
	}

	policy, err := parsers.ParseEndPolicy(input.Policy)
	if err != nil {
		return nil, OutputParseCatalogue{}, err
	}

	sourceID := input.SourceID
	if sourceID == "" {
		sourceID = "input"
	}

	result, err := parsers.NewDefaultPipeline(policy).RunWithMeta(ctx, catalogue.Source{
		Content: []byte(input.Content),
		Format:  input.Format,
		ID:      sourceID,
	})
	if err != nil {
		return nil, OutputParseCatalogue{}, err
	}

	return nil, OutputParseCatalogue{
		Table:      result.Table.Name,
		ParserUsed: result.ParserUsed,
		Columns:    result.Table.Columns,
		Rows:       rowObjects(result.Table),
		RowCount:   result.Table.Len(),
	}, nil
}

// rowObjects keys each row by its unique column name.
func rowObjects(t *catalogue.Table) []map[string]string {
	keys := t.UniqueColumns()
	rows := make([]map[string]string, 0, t.Len())
	for _, row := range t.Rows {
		obj := make(map[string]string, len(row))
		for j, cell := range row {
			if v, ok := cell.Value(); ok {
				obj[keys[j]] = v
			}
		}
		rows = append(rows, obj)
	}
	return rows
}
