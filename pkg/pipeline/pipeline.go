// Package pipeline provides the export pipeline shared by the CLI and the
// HTTP API.
//
// A run has two stages:
//
//  1. Export: translate the document into a SPICE netlist
//  2. Render: produce the requested artifacts (netlist text, JSON summary,
//     Graphviz DOT, SVG)
//
// Export always runs because it validates the document and is cheap.
// Rendered artifacts are cached by document content and every option that
// changes their bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatSpice, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	netlist := result.Artifacts[pipeline.FormatSpice]
package pipeline

import (
	"runtime"
	"strings"
	"time"

	"github.com/matzehuels/cdspice/pkg/cache"
	"github.com/matzehuels/cdspice/pkg/errors"
	"github.com/matzehuels/cdspice/pkg/spice"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for output formats.
const (
	FormatSpice = "spice"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSpice

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSpice: true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
}

// Newline settings accepted by [Options.Newline].
const (
	NewlineLF   = "lf"
	NewlineCRLF = "crlf"
)

// ContentType returns the MIME type of an artifact format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Formats lists the artifacts to produce. Defaults to [DefaultFormat].
	Formats []string `json:"formats,omitempty"`

	// Lenient skips components with missing fields instead of failing.
	Lenient bool `json:"lenient,omitempty"`

	// Newline is "lf", "crlf", or empty for the platform default.
	Newline string `json:"newline,omitempty"`

	// Detailed adds component properties to DOT and SVG labels.
	Detailed bool `json:"detailed,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	switch strings.ToLower(o.Newline) {
	case "":
	case NewlineLF, NewlineCRLF:
		o.Newline = strings.ToLower(o.Newline)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid newline: %q (must be one of: lf, crlf)", o.Newline)
	}
	o.validated = true
	return nil
}

// Policy returns the exporter policy selected by Lenient.
func (o *Options) Policy() spice.Policy {
	if o.Lenient {
		return spice.SkipInvalid
	}
	return spice.FailFast
}

// LineEnding returns the terminator selected by Newline.
func (o *Options) LineEnding() string {
	switch o.Newline {
	case NewlineCRLF:
		return spice.CRLF
	case NewlineLF:
		return spice.LF
	}
	if runtime.GOOS == "windows" {
		return spice.CRLF
	}
	return spice.LF
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Policy: o.Policy().String()}
	switch format {
	case FormatSpice:
		k.Newline = o.LineEnding()
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
	}
	return k
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: spice, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Netlist is the exported netlist.
	Netlist *spice.Netlist

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components int
	Statements int
	Skipped    int
	ExportTime time.Duration
	RenderTime time.Duration
}

// Duration returns the total time spent in the pipeline.
func (s Stats) Duration() time.Duration { return s.ExportTime + s.RenderTime }

// CacheInfo tracks which artifacts came from the cache.
type CacheInfo struct {
	Hits      []string // Formats served from cache
	RenderHit bool     // Whether all artifacts came from cache
}
