// SPDX-License-Identifier: Apache-2.0

package catalogue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Pipeline struct {
	parsers []Parser
}

// NewPipeline creates a new Pipeline with the provided parsers. Order matters:
// the first parser that can handle a source wins.
func NewPipeline(parsers ...Parser) *Pipeline {
	return &Pipeline{parsers: parsers}
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	Table      *Table
	ParserUsed string
}

func (p *Pipeline) Run(ctx context.Context, source Source) (*Table, error) {
	result, err := p.RunWithMeta(ctx, source)
	if err != nil {
		return nil, err
	}
	return result.Table, nil
}

func (p *Pipeline) RunWithMeta(ctx context.Context, source Source) (RunResult, error) {
	parser, err := p.selectParser(source)
	if err != nil {
		return RunResult{}, err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("source", source.ID).Str("parser", parser.Name()).Int("bytes", len(source.Content)).Msg("Parsing catalogue")

	table, err := parser.Parse(ctx, source)
	if err != nil {
		return RunResult{}, fmt.Errorf("parser %q failed: %w", parser.Name(), err)
	}

	logger.Info().
		Str("source", source.ID).
		Str("parser", parser.Name()).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns)).
		Msg("Parsed catalogue")

	return RunResult{Table: table, ParserUsed: parser.Name()}, nil
}

// selectParser returns the first registered parser that can handle the given source.
func (p *Pipeline) selectParser(source Source) (Parser, error) {
	for _, parser := range p.parsers {
		if parser.CanHandle(source) {
			return parser, nil
		}
	}
	return nil, fmt.Errorf("unsupported catalogue format: no parser found for source %q (format hint: %q)", source.ID, source.Format)
}

// RegisteredParsers returns the names of all currently registered parsers.
func (p *Pipeline) RegisteredParsers() []string {
	names := make([]string, len(p.parsers))
	for i, parser := range p.parsers {
		names[i] = parser.Name()
	}
	return names
}
