package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cdspice/pkg/buildinfo"
	"github.com/matzehuels/cdspice/pkg/plugin"
)

// infoCommand prints the plugin descriptor and build information.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show plugin and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			p := plugin.Spice()

			printTitle(w, p.Name)
			printKeyValue(w, "Author", p.Author, 10)
			printKeyValue(w, "Version", p.Version, 10)
			printKeyValue(w, "GUID", p.GUID.String(), 10)
			for _, part := range p.Parts {
				printKeyValue(w, "Part", part.Name, 10)
				printDetail(w, "%s (*%s)", part.FileType.TypeName, part.FileType.Extension)
			}

			printTitle(w, "Build")
			printKeyValue(w, "Version", buildinfo.Version, 10)
			printKeyValue(w, "Commit", buildinfo.Commit, 10)
			printKeyValue(w, "Built", buildinfo.Date, 10)
			return nil
		},
	}
}
