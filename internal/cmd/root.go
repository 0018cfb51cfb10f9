// SPDX-License-Identifier: Apache-2.0

// Package cmd implements the glitchcat command tree.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/glitchcat/glitchcat/internal/catalogue/parsers"
	"github.com/glitchcat/glitchcat/internal/config"
	"github.com/glitchcat/glitchcat/internal/fetch"
	"github.com/glitchcat/glitchcat/internal/logging"
	"github.com/glitchcat/glitchcat/internal/output"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	version    string
	configFile string
	envFiles   []string

	// transport carries the MCP session for serve; nil means stdio.
	transport mcp.Transport

	cfg    *config.Config
	logger zerolog.Logger
}

func (a *app) policy() (parsers.EndPolicy, error) {
	return parsers.ParseEndPolicy(a.cfg.Policy)
}

func (a *app) formatter() (output.Formatter, error) {
	format, err := output.ParseFormat(a.cfg.Output)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, output.WithMissing(a.cfg.Missing)), nil
}

func (a *app) client() *fetch.Client {
	return fetch.New(fetch.Options{
		JBCAURL:   a.cfg.JBCAURL,
		ATNFURL:   a.cfg.ATNFURL,
		CacheDir:  a.cfg.CacheDir,
		CacheTTL:  a.cfg.CacheTTL,
		Timeout:   a.cfg.HTTPTimeout,
		UserAgent: a.cfg.UserAgent,
	})
}

// NewRootCommand builds the glitchcat command. Run without a subcommand it
// fetches and prints all three catalogues.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&app{version: version}, nil)
}

func newRootCommand(a *app, logOutput io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "glitchcat",
		Short: "Pulsar glitch and pulsar catalogue normaliser",
		Long: `glitchcat downloads the Jodrell Bank glitch catalogue and the ATNF pulsar
and glitch catalogues and normalises them into uniform tables.

Values written in value(error) notation are split into a value column and an
error column scaled to the value's decimal places. Fields with no data are
reported as missing, never as zero.`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Options{
				ConfigFile: a.configFile,
				EnvFiles:   a.envFiles,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOutput})
			logging.SetDefault(a.logger)
			cmd.SetContext(logging.WithLogger(cmd.Context(), &a.logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAll(cmd, a)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $HOME/.glitchcat.yaml)")
	flags.StringP("output", "o", "", "output format: table, json, yaml or csv (default: table on a terminal, json otherwise)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "log format: auto, console or json")
	flags.String("missing", "", `text for missing cells in table and CSV output (default "NaN")`)
	flags.String("policy", "", "psrcat.db end-of-stream policy: append-always or on-boundary")
	flags.String("cache-dir", "", "directory for the downloaded ATNF archive")

	root.AddCommand(
		newParseCommand(a),
		newExportCommand(a),
		newServeCommand(a),
	)
	return root
}

// Execute runs the root command and reports any error on stderr. It returns
// the process exit code.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
