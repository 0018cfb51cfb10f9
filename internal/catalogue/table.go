// SPDX-License-Identifier: Apache-2.0

package catalogue

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered list of rows over one shared, ordered column list.
// Cells are never coerced; numeric parsing is left to the consumer.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]Cell `json:"rows" yaml:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// Append adds a row. The row must have exactly one cell per column.
func (t *Table) Append(row []Cell) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: table %q has %d columns, row has %d cells", ErrRowWidth, t.Name, len(t.Columns), len(row))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the first column with the given name.
// Fixed-schema headers repeat "+/-", so lookups by name only address the
// first occurrence.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the cell at row i in the named column, or a missing cell when
// either is out of range.
func (t *Table) Cell(i int, column string) Cell {
	j, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.Rows) {
		return Missing()
	}
	return t.Rows[i][j]
}

// UniqueColumns returns the column list with every repeated name qualified
// by the column before it, so the "+/-" after "Glitch Epoch" becomes
// "Glitch Epoch +/-". Names are compared case-insensitively, as SQL column
// names are: of "PMRA" and "pmra" the later one becomes "pmra_". Names that
// are already unique are unchanged.
func (t *Table) UniqueColumns() []string {
	count := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		count[c]++
	}
	out := make([]string, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		name := c
		if count[c] > 1 && i > 0 {
			name = t.Columns[i-1] + " " + c
		}
		for seen[strings.ToLower(name)] {
			name += "_"
		}
		seen[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

// Strings renders every row with missing cells as MissingMarker.
func (t *Table) Strings() [][]string {
	return t.StringsWith(MissingMarker)
}

// StringsWith renders every row with missing cells as the given marker.
func (t *Table) StringsWith(missing string) [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			if v, ok := c.Value(); ok {
				cells[j] = v
			} else {
				cells[j] = missing
			}
		}
		out[i] = cells
	}
	return out
}

// Vocabulary is a closed, sorted set of field names with a name to column
// lookup built once. It is read-only after construction.
type Vocabulary struct {
	names []string
	index map[string]int
}

// NewVocabulary sorts and deduplicates names.
func NewVocabulary(names []string) *Vocabulary {
	seen := make(map[string]struct{}, len(names))
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, n := range sorted {
		index[n] = i
	}
	return &Vocabulary{names: sorted, index: index}
}

// Names returns the field names in column order.
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

func (v *Vocabulary) Len() int {
	return len(v.names)
}

// Index returns the column of a field name.
func (v *Vocabulary) Index(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

// Record is one entity's sparse set of field values over a Vocabulary. Use
// NewRecord; the zero value has no vocabulary, so every Set fails with
// ErrUnknownField and every Get is missing.
type Record struct {
	vocab *Vocabulary
	cells []Cell
	set   int
}

// NewRecord returns a record with every field missing.
func NewRecord(vocab *Vocabulary) Record {
	return Record{vocab: vocab, cells: make([]Cell, vocab.Len())}
}

// Set stores value under key, replacing any earlier value.
func (r *Record) Set(key, value string) error {
	if r.vocab == nil {
		return fmt.Errorf("%w: %q (record has no vocabulary)", ErrUnknownField, key)
	}
	i, ok := r.vocab.Index(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if r.cells[i].IsMissing() {
		r.set++
	}
	r.cells[i] = Text(value)
	return nil
}

// Get returns the value of a field, missing when unset or unknown.
func (r Record) Get(key string) Cell {
	if r.vocab == nil {
		return Missing()
	}
	i, ok := r.vocab.Index(key)
	if !ok {
		return Missing()
	}
	return r.cells[i]
}

// Empty reports whether no field has been set.
func (r Record) Empty() bool {
	return r.set == 0
}

// Cells returns the record's cells in vocabulary order.
func (r Record) Cells() []Cell {
	out := make([]Cell, len(r.cells))
	copy(out, r.cells)
	return out
}
