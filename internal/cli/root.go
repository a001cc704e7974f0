package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cdspice/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent --verbose flag switches the logger to debug level before
// any subcommand runs, and the logger is attached to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "cdspice exports Circuit Diagram documents as SPICE netlists",
		Long: `cdspice converts Circuit Diagram documents (JSON or TOML) into SPICE netlists.

Resistors, capacitors, rails and grounds become netlist statements; other
components are skipped. The same exporter is available over HTTP via "serve".`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
