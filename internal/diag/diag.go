// Package diag defines the diagnostics reported by kgraphgen.
package diag

import (
	"fmt"
	"go/token"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Rule is a stable diagnostic identifier. IDs starting with KGI report
// generator defects rather than user mistakes.
type Rule struct {
	ID       string
	Severity Severity
	Title    string
}

var (
	UnknownShape           = Rule{"KG0001", Error, "unknown node definition shape"}
	AmbiguousShape         = Rule{"KG0002", Error, "ambiguous node definition shape"}
	DuplicateAspect        = Rule{"KG0003", Error, "duplicate aspect implementation"}
	KernelTripleIncomplete = Rule{"KG0004", Error, "kernel triple incomplete"}
	KernelAspectNotAllowed = Rule{"KG0005", Error, "aspect not allowed for this shape"}
	ShapeArgumentMismatch  = Rule{"KG0006", Error, "shape argument mismatch"}
	ExecuteSignature       = Rule{"KG0007", Error, "graph kernel Execute signature mismatch"}
	BadConstructor         = Rule{"KG0008", Error, "bad constructor shape"}
	ReservedName           = Rule{"KG0009", Error, "reserved name"}
	MissingHandler         = Rule{"KG0010", Error, "missing message handler"}
	AmbiguousHandler       = Rule{"KG0011", Error, "ambiguous message handler"}
	DuplicateHandler       = Rule{"KG0012", Error, "duplicate message handler"}
	InvalidPortField       = Rule{"KG0013", Error, "invalid port field"}
	SharedPortField        = Rule{"KG0014", Error, "shared port field"}
	PortOwnerMismatch      = Rule{"KG0015", Error, "port owner mismatch"}
	PortClassNotAllowed    = Rule{"KG0016", Error, "port class not allowed"}
	InaccessibleAspect     = Rule{"KG0017", Warning, "inaccessible aspect"}
	GenericDeferred        = Rule{"KG0018", Warning, "generic definition deferred"}
	EmptyNakedDefinition   = Rule{"KG0019", Error, "empty naked definition"}
	MalformedMethod        = Rule{"KG0020", Warning, "malformed handler or lifecycle method"}
	PointerEmbedding       = Rule{"KG0021", Error, "template embedded through a pointer"}
	MalformedDirective     = Rule{"KG0022", Warning, "malformed directive"}
	LoadError              = Rule{"KG0100", Error, "package load error"}

	SymbolNotFound           = Rule{"KGI001", Error, "symbol not found"}
	UnparseableDerivation    = Rule{"KGI002", Error, "unparseable derivation"}
	UnexpectedImplementation = Rule{"KGI003", Error, "unexpected implementation"}
)

// Rules lists every rule in ID order.
var Rules = []Rule{
	UnknownShape, AmbiguousShape, DuplicateAspect, KernelTripleIncomplete,
	KernelAspectNotAllowed, ShapeArgumentMismatch, ExecuteSignature, BadConstructor,
	ReservedName, MissingHandler, AmbiguousHandler, DuplicateHandler,
	InvalidPortField, SharedPortField, PortOwnerMismatch, PortClassNotAllowed,
	InaccessibleAspect, GenericDeferred, EmptyNakedDefinition, MalformedMethod,
	PointerEmbedding, MalformedDirective, LoadError,
	SymbolNotFound, UnparseableDerivation, UnexpectedImplementation,
}

func (r Rule) IsInternal() bool {
	return strings.HasPrefix(r.ID, "KGI")
}

// Diagnostic is a single finding attached to a source position.
type Diagnostic struct {
	Rule    Rule
	Pos     token.Position
	Message string
	// Context names the types or members involved.
	Context []string
}

func New(rule Rule, pos token.Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Rule:    rule,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// With returns a copy of d with additional context entries.
func (d Diagnostic) With(context ...string) Diagnostic {
	d.Context = append(append([]string(nil), d.Context...), context...)
	return d
}

func (d Diagnostic) Severity() Severity { return d.Rule.Severity }

func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s %s: %s", d.Rule.ID, d.Rule.Severity, d.Message)
	if len(d.Context) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(d.Context, ", "))
	}
	return b.String()
}

// List is a set of diagnostics.
type List []Diagnostic

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity() == Error {
			return true
		}
	}
	return false
}

func (l List) HasInternal() bool {
	for _, d := range l {
		if d.Rule.IsInternal() {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics of the given severity.
func (l List) Filter(s Severity) List {
	var out List
	for _, d := range l {
		if d.Severity() == s {
			out = append(out, d)
		}
	}
	return out
}

// Count returns how many diagnostics carry the rule.
func (l List) Count(rule Rule) int {
	n := 0
	for _, d := range l {
		if d.Rule.ID == rule.ID {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by file, line, column and rule ID.
func (l List) Sort() {
	slices.SortStableFunc(l, func(x, y Diagnostic) bool {
		a, b := x.Pos, y.Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return x.Rule.ID < y.Rule.ID
	})
}

// Err combines the diagnostics of error severity, or returns nil.
func (l List) Err() error {
	var err error
	for _, d := range l {
		if d.Severity() == Error {
			err = multierr.Append(err, d)
		}
	}
	return err
}
