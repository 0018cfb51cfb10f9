// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

// EndPolicy decides what happens to the record in progress when a boundary
// or the end of the stream is reached.
type EndPolicy int

const (
	// AppendAlways emits every record that has at least one field set,
	// including an unterminated one at the end of the stream. Empty records
	// are never emitted.
	AppendAlways EndPolicy = iota
	// AppendOnBoundary emits the record in progress at each boundary marker,
	// even when empty, and drops an unterminated trailing record. The record
	// count always equals the number of boundary markers.
	AppendOnBoundary
)

func (p EndPolicy) String() string {
	switch p {
	case AppendAlways:
		return "append-always"
	case AppendOnBoundary:
		return "on-boundary"
	default:
		return fmt.Sprintf("EndPolicy(%d)", int(p))
	}
}

// ParseEndPolicy accepts the names returned by EndPolicy.String.
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append-always", "always":
		return AppendAlways, nil
	case "on-boundary", "boundary":
		return AppendOnBoundary, nil
	}
	return AppendAlways, fmt.Errorf("unknown end-of-stream policy %q (want append-always or on-boundary)", s)
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineBoundary
	lineData
)

func classify(line string) lineKind {
	switch {
	case strings.TrimSpace(line) == "":
		return lineBlank
	case line[0] == '#':
		return lineComment
	case line[0] == '@':
		return lineBoundary
	default:
		return lineData
	}
}

// ScanVocabulary collects the first token of every data line, sorted and
// deduplicated.
func ScanVocabulary(text string) *catalogue.Vocabulary {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		if classify(line) != lineData {
			continue
		}
		names = append(names, strings.Fields(line)[0])
	}
	return catalogue.NewVocabulary(names)
}

// ReconstructRecords splits a keyed stream into one record per entity. A
// data line contributes its first two tokens as key and value; anything after
// them is ignored. Repeated keys in one record overwrite earlier ones. vocab
// must come from ScanVocabulary over the same text.
func ReconstructRecords(text string, vocab *catalogue.Vocabulary, policy EndPolicy) ([]catalogue.Record, error) {
	var records []catalogue.Record
	current := catalogue.NewRecord(vocab)

	flush := func(atBoundary bool) {
		switch {
		case policy == AppendOnBoundary && atBoundary:
			records = append(records, current)
		case policy == AppendAlways && !current.Empty():
			records = append(records, current)
		}
		current = catalogue.NewRecord(vocab)
	}

	for i, line := range strings.Split(text, "\n") {
		switch classify(line) {
		case lineBlank, lineComment:
			continue
		case lineBoundary:
			flush(true)
		case lineData:
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, &catalogue.ParseError{
					Line:    i,
					Index:   -1,
					Token:   fields[0],
					Message: "field has no value",
					Err:     catalogue.ErrMalformedLine,
				}
			}
			if err := current.Set(fields[0], fields[1]); err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
		}
	}
	flush(false)

	return records, nil
}

// PsrcatParser parses the keyed psrcat.db pulsar database.
type PsrcatParser struct {
	Policy EndPolicy
}

// NewPsrcatParser creates a new PsrcatParser using the given end-of-stream policy.
func NewPsrcatParser(policy EndPolicy) *PsrcatParser {
	return &PsrcatParser{Policy: policy}
}

func (p *PsrcatParser) Name() string {
	return "psrcat"
}

// CanHandle returns true for a "psrcat" format hint, a source named
// psrcat.db, or content containing '@' boundary lines.
func (p *PsrcatParser) CanHandle(source catalogue.Source) bool {
	switch strings.ToLower(source.Format) {
	case "psrcat", "psrcat.db", "atnf-pulsar":
		return true
	case "":
	default:
		return false
	}
	if strings.HasSuffix(source.ID, "psrcat.db") {
		return true
	}
	content := string(source.Content)
	return strings.HasPrefix(content, "@") || strings.Contains(content, "\n@")
}

func (p *PsrcatParser) Parse(_ context.Context, source catalogue.Source) (*catalogue.Table, error) {
	text := string(source.Content)
	vocab := ScanVocabulary(text)
	records, err := ReconstructRecords(text, vocab, p.Policy)
	if err != nil {
		var pe *catalogue.ParseError
		if errors.As(err, &pe) && pe.Source == "" {
			pe.Source = source.ID
		}
		return nil, err
	}
	return catalogue.AssembleRecords("atnf_pulsars", vocab, records), nil
}
