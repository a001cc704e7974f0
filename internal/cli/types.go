package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdspice/pkg/spice"
)

// typesCommand lists the component types that produce netlist statements.
func (c *CLI) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List component types with netlist rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			reg := spice.DefaultRegistry()

			printTitle(w, "Supported components")
			for _, rule := range reg.Rules() {
				printKeyValue(w, rule.Kind.String(), rule.Template(), 12)
				if req := append(rule.Connections(), rule.Properties()...); len(req) > 0 {
					printDetail(w, "requires: %s", strings.Join(req, ", "))
				}
			}
			printDetail(w, "Other component types are skipped.")
			return nil
		},
	}
}
