// Package cli wires the command line interface for the static renderer.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	LogLevel  string
	LogFormat string
}

// NewRootCommand creates the root command for the patternatlas CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "patternatlas",
		Short:         "Render a pattern atlas to a static site",
		Long:          "Renders a pattern knowledge base (pattern languages and patterns) into a self-contained static HTML site with locally cached assets.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "console", "log format (console|json|pretty)")

	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}
