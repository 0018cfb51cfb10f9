// SPDX-License-Identifier: Apache-2.0

package catalogue

import "fmt"

// AssembleRows wraps fixed-schema rows in a Table. Every row must match the
// header width.
func AssembleRows(name string, header []string, rows [][]string) (*Table, error) {
	table := NewTable(name, header)
	table.Rows = make([][]Cell, 0, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, s := range row {
			cells[j] = Text(s)
		}
		if err := table.Append(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return table, nil
}

// AssembleRecords wraps sparse records in a Table whose columns are the
// vocabulary. Unset fields stay missing.
func AssembleRecords(name string, vocab *Vocabulary, records []Record) *Table {
	table := NewTable(name, vocab.Names())
	table.Rows = make([][]Cell, 0, len(records))
	for _, rec := range records {
		if rec.vocab == vocab {
			table.Rows = append(table.Rows, rec.Cells())
			continue
		}
		// Record built over a different vocabulary: realign by name.
		row := make([]Cell, vocab.Len())
		for i, n := range vocab.names {
			row[i] = rec.Get(n)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
