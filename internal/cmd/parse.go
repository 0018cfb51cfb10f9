// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/glitchcat/glitchcat/internal/catalogue"
	"github.com/glitchcat/glitchcat/internal/catalogue/parsers"
	"github.com/glitchcat/glitchcat/internal/logging"
)

func newParseCommand(a *app) *cobra.Command {
	var formatHint string

	c := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Normalise local catalogue files",
		Long: `Parse one or more local catalogue files. The parser is chosen from --format
when given, otherwise from the file name and content. Use "-" to read stdin.`,
		Example: `  glitchcat parse psrcat_tar/glitch.db
  glitchcat parse --format psrcat -o csv psrcat.db
  curl -s http://www.jb.man.ac.uk/~pulsar/glitches/gTable.html | glitchcat parse --format jbca -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := a.formatter()
			if err != nil {
				return err
			}
			tables, err := parseFiles(cmd, a, args, formatHint)
			if err != nil {
				return err
			}
			return writeTables(cmd.OutOrStdout(), formatter, tables)
		},
	}
	c.Flags().StringVarP(&formatHint, "format", "f", "", "source format: jbca, glitchdb or psrcat")
	return c
}

func parseFiles(cmd *cobra.Command, a *app, paths []string, formatHint string) ([]*catalogue.Table, error) {
	policy, err := a.policy()
	if err != nil {
		return nil, err
	}
	pipeline := parsers.NewDefaultPipeline(policy)

	tables := make([]*catalogue.Table, 0, len(paths))
	for _, path := range paths {
		content, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return nil, err
		}
		src := catalogue.Source{Content: content, Format: formatHint, ID: path}
		table, err := pipeline.Run(logging.WithSource(cmd.Context(), path), src)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
