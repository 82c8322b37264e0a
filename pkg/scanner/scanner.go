// Package scanner implements the single-pass recursive scan that finds
// lambda constructs and top-level insertion positions in a C translation
// unit. It tracks delimiter nesting, string and character literals and
// comments, but performs no further C parsing.
package scanner

import (
	"bytes"
	"sort"

	"github.com/lambdapp/lambdapp/pkg/types"
)

// DefaultKeyword introduces a lambda construct.
const DefaultKeyword = "lambda"

// Options configure a scan.
type Options struct {
	// Keyword overrides the identifier that introduces a lambda.
	// Empty means DefaultKeyword.
	Keyword string

	// Short enables the `lambda <type>(<args>) => <expression>;` form.
	Short bool
}

// Result holds everything one scan of a file produced, sorted by offset and
// ready for the generator. It is owned by the generation call for one file
// and does not outlive it.
type Result struct {
	Lambdas   []types.Lambda
	Positions []types.Position
}

// Scan walks the whole buffer once, validating delimiter nesting and
// capturing every lambda construct (including nested ones) and every
// top-level insertion position. The buffer's line cursor is consumed by the
// scan; a SourceBuffer must not be scanned twice.
func Scan(src *SourceBuffer, opts Options) (*Result, error) {
	keyword := opts.Keyword
	if keyword == "" {
		keyword = DefaultKeyword
	}
	s := &scanner{
		src:     src,
		keyword: []byte(keyword),
		short:   opts.Short,
	}
	// The position table always holds the start of the file.
	s.positions = append(s.positions, types.Position{Pos: 0, Line: 1})

	if _, err := s.scan(0, modeMark, nil); err != nil {
		return nil, err
	}

	sort.SliceStable(s.lambdas, func(i, j int) bool {
		return s.lambdas[i].Start < s.lambdas[j].Start
	})
	sort.SliceStable(s.positions, func(i, j int) bool {
		return s.positions[i].Pos < s.positions[j].Pos
	})
	return &Result{Lambdas: s.lambdas, Positions: s.positions}, nil
}

// mode selects the terminator a recursive scan call is looking for.
type mode int

const (
	// modeMark is the single outermost call for a file; it additionally
	// records top-level insertion positions.
	modeMark mode = iota

	// modeSpecial consumes one balanced parenthesized group, starting at
	// its '(' and returning just past the matching ')'.
	modeSpecial

	// modeBody scans a lambda body, starting at its '{' and returning just
	// past the matching '}'.
	modeBody

	// modeExpr scans a short-form lambda body up to and including the
	// terminating top-level ';'.
	modeExpr
)

type scanner struct {
	src       *SourceBuffer
	keyword   []byte
	short     bool
	lambdas   []types.Lambda
	positions []types.Position
}

// scan is the heart of the preprocessor: one recursive algorithm walking the
// buffer byte by byte. It returns the offset just past the region the mode
// terminates on (end of buffer for modeMark).
//
// lam is the record under construction for modeBody and modeExpr; those
// modes finalize and append it when they reach their terminator.
func (s *scanner) scan(start int, m mode, lam *types.Lambda) (int, error) {
	src := s.src
	data := src.Data

	var stack DelimiterStack
	mark := m == modeMark

	// Insertion-position bookkeeping, live only at top nesting level of the
	// mark-mode call. protopos trails across whitespace runs so a recorded
	// position never lands in the trailing whitespace of the previous
	// construct; preprocessor suspends it until the directive's newline.
	protopos := start
	protomove := true
	preprocessor := false

	i := start
	j := start // start of the word currently being accumulated

	// resolve finishes the word ending just before offset i. When it is
	// exactly the keyword the scan recurses into lambda capture and resolve
	// returns the offset past the whole construct with captured=true.
	// Recognition is off while consuming a type or argument group, so a
	// parameter may legally be named by the keyword.
	resolve := func(i int) (next int, captured bool, err error) {
		if m == modeSpecial {
			return i, false, nil
		}
		if i-j == len(s.keyword) && bytes.Equal(data[j:i], s.keyword) {
			next, err = s.captureLambda(j, i)
			// A short-form capture at top level consumes its own
			// terminating ';', ending the construct.
			if err == nil && mark && stack.Empty() && next > start && data[next-1] == ';' {
				protomove, protopos = true, next
			}
			return next, true, err
		}
		return i, false, nil
	}

	for i < len(data) {
		c := data[i]

		if mark && stack.Empty() {
			if protomove {
				if isSpace(c) {
					if c == '\n' {
						src.Line++
					}
					i++
					protopos, j = i, i
					continue
				}
				// First byte of a new top-level construct.
				protomove = false
				s.pushPosition(protopos, src.Line)
			}
			switch {
			case c == ';':
				// A top-level statement or declaration ended.
				ni, captured, err := resolve(i)
				if err != nil {
					return 0, err
				}
				if captured {
					i, j = ni, ni
					continue
				}
				i++
				j = i
				protomove, protopos = true, i
				continue
			case c == '#':
				// Declarations must not land inside a directive.
				ni, captured, err := resolve(i)
				if err != nil {
					return 0, err
				}
				if captured {
					i, j = ni, ni
					continue
				}
				i++
				j = i
				protomove, protopos = false, i
				preprocessor = true
				continue
			case preprocessor && c == '\n':
				ni, captured, err := resolve(i)
				if err != nil {
					return 0, err
				}
				if captured {
					i, j = ni, ni
					continue
				}
				src.Line++
				i++
				j = i
				protomove, protopos = true, i
				preprocessor = false
				continue
			}
		}

		switch {
		case c == '"' || c == '\'':
			ni, captured, err := resolve(i)
			if err != nil {
				return 0, err
			}
			if captured {
				i, j = ni, ni
				continue
			}
			ni, err = s.skipLiteral(i+1, c)
			if err != nil {
				return 0, err
			}
			i, j = ni, ni

		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			ni, captured, err := resolve(i)
			if err != nil {
				return 0, err
			}
			if captured {
				i, j = ni, ni
				continue
			}
			i = s.skipLineComment(i + 2)
			j = i

		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			ni, captured, err := resolve(i)
			if err != nil {
				return 0, err
			}
			if captured {
				i, j = ni, ni
				continue
			}
			ni, err = s.skipBlockComment(i + 2)
			if err != nil {
				return 0, err
			}
			i, j = ni, ni

		case c == '(' || c == '[' || c == '{':
			ni, captured, err := resolve(i)
			if err != nil {
				return 0, err
			}
			if captured {
				i, j = ni, ni
				continue
			}
			stack.Push(c)
			i++
			j = i

		case c == ')' || c == ']' || c == '}':
			ni, captured, err := resolve(i)
			if err != nil {
				return 0, err
			}
			if captured {
				i, j = ni, ni
				continue
			}
			expect, ok := stack.Pop()
			if !ok {
				return 0, src.errorf("too many closing parenthesis")
			}
			if expect != c {
				return 0, src.errorf("mismatching `%c' and `%c'", expect, c)
			}
			if stack.Empty() {
				switch {
				case m == modeSpecial && c == ')':
					return i + 1, nil
				case m == modeBody && c == '}':
					lam.Body.Length = i - lam.Body.Begin
					lam.EndLine = src.Line
					lam.End = i + 1
					s.lambdas = append(s.lambdas, *lam)
					return i + 1, nil
				case mark && c == '}':
					// A top-level brace group (function or aggregate
					// body) ended; the next construct starts a new
					// insertion candidate.
					i++
					j = i
					protomove, protopos = true, i
					continue
				}
			}
			i++
			j = i

		case c == '_' || isAlnum(c):
			i++

		default:
			// Any other byte ends the current word.
			ni, captured, err := resolve(i)
			if err != nil {
				return 0, err
			}
			if captured {
				i, j = ni, ni
				continue
			}
			if c == '\n' {
				src.Line++
			}
			if m == modeExpr && stack.Empty() && c == ';' {
				lam.Body.Length = i + 1 - lam.Body.Begin
				lam.EndLine = src.Line
				lam.End = i + 1
				s.lambdas = append(s.lambdas, *lam)
				return i + 1, nil
			}
			i++
			j = i
		}
	}

	if m != modeMark {
		return 0, src.errorf("unexpected end of file in lambda")
	}
	if !stack.Empty() {
		expect, _ := stack.Pop()
		return 0, src.errorf("unexpected end of file, expecting `%c'", expect)
	}
	// A trailing word cannot complete a lambda, but resolving it reports
	// the truncation instead of silently dropping the keyword.
	if _, _, err := resolve(len(data)); err != nil {
		return 0, err
	}
	return len(data), nil
}

// captureLambda parses one construct whose keyword spans [start, i):
// whitespace, return type, parenthesized argument list, then either a brace
// body or the short `=> expression;` form. On success the completed record
// has been appended and the returned offset is just past the construct.
func (s *scanner) captureLambda(start, i int) (int, error) {
	src := s.src
	data := src.Data
	lam := types.Lambda{Start: start, StartLine: src.Line}

	i = s.skipWhite(i)
	if i == len(data) {
		return 0, src.errorf("unexpected end of file in lambda")
	}
	lam.TypeLine = src.Line
	lam.Type.Begin = i

	// A return type may itself open with a balanced parenthesized group
	// (e.g. a function-pointer type); consume it whole before looking for
	// the parameter list.
	if data[i] == '(' {
		ni, err := s.scan(i, modeSpecial, nil)
		if err != nil {
			return 0, err
		}
		i = ni
	}
	for i < len(data) && data[i] != '(' {
		if data[i] == '\n' {
			src.Line++
		}
		i++
	}
	if i == len(data) {
		return 0, src.errorf("unexpected end of file in lambda")
	}
	lam.Type.Length = i - lam.Type.Begin
	for lam.Type.Length > 0 && isSpace(data[lam.Type.Begin+lam.Type.Length-1]) {
		lam.Type.Length--
	}

	lam.Args.Begin = i
	ni, err := s.scan(i, modeSpecial, nil)
	if err != nil {
		return 0, err
	}
	lam.Args.Length = ni - lam.Args.Begin
	i = s.skipWhite(ni)
	if i == len(data) {
		return 0, src.errorf("unexpected end of file in lambda")
	}

	if s.short && i+1 < len(data) && data[i] == '=' && data[i+1] == '>' {
		lam.IsShort = true
		lam.BodyLine = src.Line
		lam.Body.Begin = i + 2
		return s.scan(i+2, modeExpr, &lam)
	}

	for i < len(data) && data[i] != '{' {
		if data[i] == '\n' {
			src.Line++
		}
		i++
	}
	if i == len(data) {
		return 0, src.errorf("unexpected end of file in lambda")
	}
	lam.BodyLine = src.Line
	lam.Body.Begin = i + 1
	return s.scan(i, modeBody, &lam)
}

func (s *scanner) pushPosition(pos, line int) {
	// Positions are strictly increasing; the seeded start-of-file entry
	// already covers a construct at offset zero.
	if n := len(s.positions); n > 0 && s.positions[n-1].Pos >= pos {
		return
	}
	s.positions = append(s.positions, types.Position{Pos: pos, Line: line})
}

// skipLiteral consumes a string or character literal body after its opening
// quote; backslash escapes the following byte. Reaching the end of the
// buffer first is a parse error.
func (s *scanner) skipLiteral(i int, quote byte) (int, error) {
	data := s.src.Data
	startLine := s.src.Line
	for i < len(data) {
		switch data[i] {
		case quote:
			return i + 1, nil
		case '\\':
			i++
			if i == len(data) {
				i--
			}
			if data[i] == '\n' {
				s.src.Line++
			}
		case '\n':
			s.src.Line++
		}
		i++
	}
	if quote == '"' {
		return 0, types.Errorf(s.src.File, startLine, "unterminated string literal")
	}
	return 0, types.Errorf(s.src.File, startLine, "unterminated character literal")
}

// skipLineComment consumes up to, not including, the terminating newline.
// End of buffer is a legal terminator.
func (s *scanner) skipLineComment(i int) int {
	data := s.src.Data
	for i < len(data) && data[i] != '\n' {
		i++
	}
	return i
}

// skipBlockComment consumes a comment body after its opening marker through
// the closing one. An unterminated comment is a parse error.
func (s *scanner) skipBlockComment(i int) (int, error) {
	data := s.src.Data
	startLine := s.src.Line
	for i < len(data) {
		if data[i] == '*' && i+1 < len(data) && data[i+1] == '/' {
			return i + 2, nil
		}
		if data[i] == '\n' {
			s.src.Line++
		}
		i++
	}
	return 0, types.Errorf(s.src.File, startLine, "unterminated comment")
}

func (s *scanner) skipWhite(i int) int {
	data := s.src.Data
	for i < len(data) && isSpace(data[i]) {
		if data[i] == '\n' {
			s.src.Line++
		}
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return (c >= '\t' && c <= '\r') || c == ' '
}

func isAlnum(c byte) bool {
	return (c|32)-'a' < 26 || c-'0' < 10
}
