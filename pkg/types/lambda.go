package types

// Lambda is one captured lambda construct.
//
// If lambda B is nested inside lambda A's body, B's entire span lies within
// A's Body range. Lambdas are appended in discovery order and sorted by
// Start before generation, which orders them left-to-right with outer
// constructs before the lambdas nested inside them.
type Lambda struct {
	Start int // offset of the keyword itself
	End   int // offset just past the closing '}' (past the ';' for the short form)

	Type Range // declared return type
	Args Range // parenthesized parameter list, parentheses included
	Body Range // body, braces excluded; the short form keeps its terminating ';'

	StartLine int // 1-based line of the keyword
	TypeLine  int // 1-based line where the return type begins
	BodyLine  int // 1-based line where the body begins
	EndLine   int // 1-based line of the closing '}' (or ';')

	IsShort bool // `=> expression;` form
}

// Position is a top-level insertion point: a byte offset immediately after
// the whitespace that follows a statement terminator, a closing top-level
// brace, or a preprocessor directive's newline. Forward declarations for
// lambdas used past this point may legally be placed here.
type Position struct {
	Pos  int
	Line int
}
