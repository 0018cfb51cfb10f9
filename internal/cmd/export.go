// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glitchcat/glitchcat/internal/catalogue"
	"github.com/glitchcat/glitchcat/internal/catalogue/parsers"
	"github.com/glitchcat/glitchcat/internal/logging"
	"github.com/glitchcat/glitchcat/internal/store"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		dbPath     string
		formatHint string
	)

	c := &cobra.Command{
		Use:   "export [FILE...]",
		Short: "Write catalogues to a SQLite database",
		Long: `Export normalised catalogues into SQLite, one table per catalogue. Without
arguments the catalogues are downloaded first; with arguments the given files
are parsed instead. Existing tables of the same name are replaced.`,
		Example: `  glitchcat export --db glitches.sqlite
  glitchcat export --db local.sqlite psrcat_tar/glitch.db psrcat_tar/psrcat.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				tables []*catalogue.Table
				err    error
			)
			if len(args) > 0 {
				tables, err = parseFiles(cmd, a, args, formatHint)
			} else {
				policy, perr := a.policy()
				if perr != nil {
					return perr
				}
				tables, err = collect(ctx, a.client(), parsers.NewDefaultPipeline(policy))
			}
			if err != nil {
				return err
			}

			db, err := store.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := logging.FromContext(ctx)
			for _, table := range tables {
				if err := db.SaveTable(ctx, table); err != nil {
					return err
				}
				logger.Info().Str("table", table.Name).Int("rows", table.Len()).Str("db", dbPath).Msg("exported")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d tables to %s\n", len(tables), dbPath)
			return nil
		},
	}
	c.Flags().StringVar(&dbPath, "db", "glitchcat.sqlite", "SQLite database path")
	c.Flags().StringVarP(&formatHint, "format", "f", "", "source format for FILE arguments")
	return c
}
