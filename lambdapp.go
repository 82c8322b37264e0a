// Package lambdapp implements a source-to-source preprocessor that adds
// anonymous-function ("lambda") syntax to C.
//
// A construct of the form
//
//	lambda <type>(<args>) { <body> }
//
// is hoisted to a file-scope static function and the occurrence is rewritten
// into a reference to that function, so it can be passed anywhere a function
// pointer is expected. Nested lambdas are flattened recursively. The output
// stays compilable by an unmodified C compiler and carries #line markers so
// compiler and debugger diagnostics point at the original file.
//
// # Basic Usage
//
//	pp := lambdapp.New()
//	var buf bytes.Buffer
//	if err := pp.Process("callback.c", src, &buf); err != nil {
//	    log.Fatal(err)
//	}
//
// Generated functions do not capture enclosing locals; only the syntactic
// rewrite is performed.
package lambdapp

import (
	"fmt"
	"io"
	"os"

	"github.com/lambdapp/lambdapp/pkg/generator"
	"github.com/lambdapp/lambdapp/pkg/scanner"
	"github.com/lambdapp/lambdapp/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/lambdapp/lambdapp" without subpackages.
type (
	// Lambda is one captured lambda construct.
	Lambda = types.Lambda

	// Range is a byte view into the source buffer.
	Range = types.Range

	// Position is a top-level insertion point for forward declarations.
	Position = types.Position

	// ParseError is a structural failure found while scanning.
	ParseError = types.ParseError
)

// DefaultKeyword introduces a lambda construct.
const DefaultKeyword = scanner.DefaultKeyword

// Preprocessor rewrites translation units. The zero-cost construction makes
// one Preprocessor reusable across files; each Process call owns its own
// buffer and tables, so no locking is needed.
type Preprocessor struct {
	keyword string
	short   bool
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithKeyword changes the identifier that introduces a lambda.
// Default is "lambda".
func WithKeyword(word string) Option {
	return func(p *Preprocessor) {
		p.keyword = word
	}
}

// WithShortSyntax toggles the `lambda <type>(<args>) => <expression>;` form.
// Enabled by default.
func WithShortSyntax(enabled bool) Option {
	return func(p *Preprocessor) {
		p.short = enabled
	}
}

// New creates a Preprocessor.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		keyword: DefaultKeyword,
		short:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process rewrites one translation unit and writes the result to out. The
// file name appears in line markers and diagnostics. Scanning completes
// before any byte is written: a parse failure produces no output at all.
func (p *Preprocessor) Process(file string, src []byte, out io.Writer) error {
	buf := scanner.NewSourceBuffer(file, src)
	res, err := scanner.Scan(buf, scanner.Options{
		Keyword: p.keyword,
		Short:   p.short,
	})
	if err != nil {
		return err
	}
	return generator.New(buf, res).Generate(out)
}

// ProcessFile reads path into memory and rewrites it to out.
func (p *Preprocessor) ProcessFile(path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return p.Process(path, data, out)
}
