// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/glitchcat/glitchcat/internal/catalogue"
	"github.com/glitchcat/glitchcat/internal/catalogue/parsers"
	"github.com/glitchcat/glitchcat/internal/fetch"
	"github.com/glitchcat/glitchcat/internal/logging"
	"github.com/glitchcat/glitchcat/internal/output"
)

// collect downloads both catalogue sites concurrently and parses the JBCA
// page, glitch.db and psrcat.db in that order.
func collect(ctx context.Context, client *fetch.Client, pipeline *catalogue.Pipeline) ([]*catalogue.Table, error) {
	var (
		page []byte
		atnf *fetch.ATNF
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = client.FetchJBCA(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		atnf, err = client.FetchATNF(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sources := []catalogue.Source{
		{Content: page, Format: "jbca", ID: client.JBCAURL},
		{Content: atnf.GlitchDB, Format: "glitchdb", ID: fetch.GlitchMember},
		{Content: atnf.PsrcatDB, Format: "psrcat", ID: fetch.PsrcatMember},
	}

	tables := make([]*catalogue.Table, 0, len(sources))
	for _, src := range sources {
		table, err := pipeline.Run(logging.WithSource(ctx, src.ID), src)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func runAll(cmd *cobra.Command, a *app) error {
	policy, err := a.policy()
	if err != nil {
		return err
	}
	formatter, err := a.formatter()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tables, err := collect(ctx, a.client(), parsers.NewDefaultPipeline(policy))
	if err != nil {
		return err
	}
	return writeTables(cmd.OutOrStdout(), formatter, tables)
}

func writeTables(w io.Writer, f output.Formatter, tables []*catalogue.Table) error {
	for i, table := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := f.Format(w, table); err != nil {
			return fmt.Errorf("write %s: %w", table.Name, err)
		}
	}
	return nil
}
