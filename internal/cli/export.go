package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdspice/pkg/errors"
	cdio "github.com/matzehuels/cdspice/pkg/io"
	"github.com/matzehuels/cdspice/pkg/pipeline"
	"github.com/matzehuels/cdspice/pkg/spice"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

// exportOpts holds the export command flags.
type exportOpts struct {
	output   string   // output file path, base path for multiple formats, or "-"
	formats  []string // output formats
	lenient  bool
	noCache  bool
	crlf     bool
	detailed bool
}

// formatExt maps formats to output file suffixes.
var formatExt = map[string]string{
	pipeline.FormatSpice: spice.NetlistFileType.Extension,
	pipeline.FormatJSON:  ".netlist.json",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatSVG:   ".svg",
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := &exportOpts{}
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a document as a SPICE netlist",
		Long: `Export a Circuit Diagram document (.json or .toml) as a SPICE netlist.

By default the netlist is written next to the input with a .txt extension.
Use -o - to write to standard output. Additional formats:
  json  statements and skipped components as JSON
  dot   Graphviz connectivity graph
  svg   rendered connectivity graph`,
		Example: `  cdspice export divider.json
  cdspice export divider.toml -o - --crlf
  cdspice export divider.json -f spice,svg -o out/divider`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runExport(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (multiple), or "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): spice (default), json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "skip components with missing fields instead of failing")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.crlf, "crlf", false, "terminate netlist lines with CRLF")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include component properties in dot/svg labels")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path. If output is empty, it strips the
// extension from input; known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range formatExt {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func (c *CLI) runExport(ctx context.Context, cmd *cobra.Command, input string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	popts := pipeline.Options{
		Formats:  opts.formats,
		Lenient:  opts.lenient,
		Detailed: opts.detailed,
	}
	if opts.crlf {
		popts.Newline = pipeline.NewlineCRLF
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.output == stdoutPath && len(popts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(popts.Formats))
	}

	doc, err := cdio.Import(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded document", "path", input, "components", len(doc.Components))

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, doc, popts)
	// Status lines go to stderr when the artifact itself goes to stdout.
	status := cmd.OutOrStdout()
	if opts.output == stdoutPath {
		status = cmd.ErrOrStderr()
	}
	if err != nil {
		var mf *spice.MissingFieldError
		if stderrors.As(err, &mf) {
			printError(status, "%s", mf.Error())
			printDetail(status, "Use --lenient to skip invalid components")
		}
		return err
	}

	for _, s := range res.Netlist.Skipped {
		if s.Err != nil {
			printWarning(status, "Skipped component %s: %v", s.ComponentID, s.Err)
		} else {
			logger.Debug("skipped unrecognized component", "id", s.ComponentID, "type", s.Type.String())
		}
	}

	if opts.output == stdoutPath {
		_, err := cmd.OutOrStdout().Write(res.Artifacts[popts.Formats[0]])
		return err
	}

	paths := outputPaths(input, opts.output, popts.Formats)
	for _, format := range popts.Formats {
		if err := writeFile(paths[format], res.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess(status, "Exported %s", input)
	for _, format := range popts.Formats {
		printFile(status, paths[format])
	}
	printStats(status, res.Stats.Statements, res.Stats.Skipped, res.CacheInfo.RenderHit)
	prog.done(fmt.Sprintf("Exported %s", input))
	return nil
}

// outputPaths returns the file path of each format. A single format with an
// explicit -o is written exactly there.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + formatExt[f]
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return f.Close()
}
