package loader

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"
)

// Tool is the directive namespace of kgraphgen.
const Tool = "kgraph"

const (
	// DirectiveManaged on a node data type selects heap storage.
	DirectiveManaged = "managed"
	// DirectiveAbstract on a definition excludes it from generation.
	DirectiveAbstract = "abstract"
)

// Directive is a parsed comment directive of the form
//
//	//tool:name arg0 arg1
type Directive struct {
	Tool string
	Name string
	Args []string
	Pos  token.Pos
}

func (d *Directive) String() string {
	if d == nil {
		return "<nil>"
	}
	res := "//" + d.Tool + ":" + d.Name
	if len(d.Args) > 0 {
		res += " " + strings.Join(d.Args, " ")
	}
	return res
}

// DirectiveError is a kgraph directive whose arguments do not parse.
type DirectiveError struct {
	Text string
	Pos  token.Pos
	Err  error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("parsing directive %q: %v", e.Text, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

// ParseDirective parses a single comment line. It returns nil when the
// comment is not a kgraph directive; comments of other tools are not parsed.
func ParseDirective(comment string) (*Directive, error) {
	if !strings.HasPrefix(comment, "//") {
		return nil, nil
	}
	comment = strings.TrimPrefix(comment, "//")
	rs := []rune(comment)
	if len(rs) == 0 || unicode.IsSpace(rs[0]) {
		return nil, nil
	}
	tool, rest, found := strings.Cut(comment, ":")
	if !found || tool != Tool {
		return nil, nil
	}
	args, err := shellwords.Parse(rest)
	if err != nil {
		return nil, &DirectiveError{Text: "//" + comment, Err: err}
	}
	d := &Directive{Tool: tool}
	if len(args) > 0 {
		d.Name = args[0]
		d.Args = args[1:]
	}
	return d, nil
}

// Directives returns the kgraph directives of a doc comment. Malformed
// directives are skipped and returned as *DirectiveError, combined.
func Directives(doc *ast.CommentGroup) ([]*Directive, error) {
	if doc == nil {
		return nil, nil
	}
	var res []*Directive
	var errs error
	for _, c := range doc.List {
		d, err := ParseDirective(c.Text)
		if err != nil {
			var de *DirectiveError
			if errors.As(err, &de) {
				de.Pos = c.Slash
			}
			errs = multierr.Append(errs, err)
			continue
		}
		if d != nil {
			d.Pos = c.Slash
			res = append(res, d)
		}
	}
	return res, errs
}

// HasDirective reports whether doc carries //kgraph:name. The error lists
// the malformed directives of doc, which do not affect the result.
func HasDirective(doc *ast.CommentGroup, name string) (bool, error) {
	ds, err := Directives(doc)
	for _, d := range ds {
		if d.Name == name {
			return true, err
		}
	}
	return false, err
}

// TypeDocs maps the type declarations of pkg to their doc comments.
func TypeDocs(pkg *packages.Package) map[*types.TypeName]*ast.CommentGroup {
	docs := map[*types.TypeName]*ast.CommentGroup{}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok && doc != nil {
					docs[obj] = doc
				}
			}
		}
	}
	return docs
}
