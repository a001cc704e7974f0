package spice

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdspice/pkg/circuit"
)

// Header comment lines written after the title.
const (
	GeneratorComment = "*** Created with Circuit Diagram Spice Exporter ***"
	SectionComment   = "*** Netlist Description ***"
)

// Line endings accepted by [WithNewline].
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// Policy decides what happens to a recognized component that lacks a
// required field.
type Policy int

const (
	// FailFast aborts the export with a [*MissingFieldError].
	FailFast Policy = iota
	// SkipInvalid drops the component and continues.
	SkipInvalid
)

func (p Policy) String() string {
	if p == SkipInvalid {
		return "skip-invalid"
	}
	return "fail-fast"
}

// Option configures an [Exporter].
type Option func(*Exporter)

// WithRegistry replaces the built-in rules.
func WithRegistry(r *Registry) Option {
	return func(e *Exporter) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithNewline sets the line terminator. The default is CRLF on Windows and
// LF elsewhere.
func WithNewline(nl string) Option {
	return func(e *Exporter) {
		if nl != "" {
			e.newline = nl
		}
	}
}

// WithPolicy sets the missing-field policy. The default is [FailFast].
func WithPolicy(p Policy) Option {
	return func(e *Exporter) { e.policy = p }
}

// WithLogger sets the logger used for debug output and [SkipInvalid]
// warnings.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// Exporter turns documents into netlists.
type Exporter struct {
	registry *Registry
	newline  string
	policy   Policy
	logger   *log.Logger
}

// New returns an exporter using [DefaultRegistry] unless overridden.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		registry: DefaultRegistry(),
		newline:  platformNewline(),
		policy:   FailFast,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func platformNewline() string {
	if runtime.GOOS == "windows" {
		return CRLF
	}
	return LF
}

// Registry returns the exporter's rules.
func (e *Exporter) Registry() *Registry { return e.registry }

// Policy returns the exporter's missing-field policy.
func (e *Exporter) Policy() Policy { return e.policy }

// Skip records a component that produced no statement.
type Skip struct {
	ComponentID string
	Type        circuit.ComponentType
	// Err is nil for unrecognized types and the missing-field error for
	// components dropped under [SkipInvalid].
	Err error
}

// Export translates doc into a netlist. Components are visited in document
// order; each recognized one contributes exactly one statement.
func (e *Exporter) Export(doc *circuit.Document) (*Netlist, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	n := &Netlist{Title: doc.Metadata.Title, newline: e.newline}
	for i := range doc.Components {
		c := &doc.Components[i]

		rule, ok := e.registry.Lookup(c.Kind())
		if !ok {
			e.logger.Debug("skipping unrecognized component", "id", c.ID, "type", c.Type.String())
			n.Skipped = append(n.Skipped, Skip{ComponentID: c.ID, Type: c.Type})
			continue
		}

		line, err := rule.Format(c)
		if err != nil {
			if e.policy == FailFast {
				return nil, err
			}
			e.logger.Warn("skipping invalid component", "id", c.ID, "err", err)
			n.Skipped = append(n.Skipped, Skip{ComponentID: c.ID, Type: c.Type, Err: err})
			continue
		}
		n.Statements = append(n.Statements, line)
	}
	return n, nil
}

// Write exports doc and writes the netlist to w in a single write. Nothing
// is written when the export fails.
func (e *Exporter) Write(w io.Writer, doc *circuit.Document) error {
	n, err := e.Export(doc)
	if err != nil {
		return err
	}
	if _, err := n.WriteTo(w); err != nil {
		return fmt.Errorf("write netlist: %w", err)
	}
	return nil
}

// Write exports doc with the default exporter.
func Write(w io.Writer, doc *circuit.Document) error {
	return New().Write(w, doc)
}

// Netlist is the result of an export.
type Netlist struct {
	Title      string
	Statements []string
	Skipped    []Skip

	newline string
}

// Bytes returns the UTF-8 netlist text: header followed by statements, each
// line terminated.
func (n *Netlist) Bytes() []byte {
	nl := n.newline
	if nl == "" {
		nl = LF
	}

	var buf bytes.Buffer
	for _, line := range []string{n.Title, GeneratorComment, "", SectionComment} {
		buf.WriteString(line)
		buf.WriteString(nl)
	}
	for _, s := range n.Statements {
		buf.WriteString(s)
		buf.WriteString(nl)
	}
	return buf.Bytes()
}

// String returns the netlist text.
func (n *Netlist) String() string { return string(n.Bytes()) }

// WriteTo writes the netlist to w. It implements io.WriterTo.
func (n *Netlist) WriteTo(w io.Writer) (int64, error) {
	data := n.Bytes()
	written, err := w.Write(data)
	if err == nil && written < len(data) {
		err = io.ErrShortWrite
	}
	return int64(written), err
}
