// Package generator emits the rewritten translation unit: the original code
// with every lambda occurrence replaced by a reference to its hoisted
// function, forward declarations inserted at top-level boundaries, the
// hoisted definitions appended after the top-level code, and #line markers
// keeping diagnostics attributed to the original file.
package generator

import (
	"fmt"
	"io"
	"math"

	"github.com/lambdapp/lambdapp/pkg/scanner"
	"github.com/lambdapp/lambdapp/pkg/types"
)

// Generator rewrites one scanned source buffer. The tables must be the
// sorted output of a scan over the same buffer.
type Generator struct {
	src       *scanner.SourceBuffer
	lambdas   []types.Lambda
	positions []types.Position
}

// New builds a Generator over a completed scan.
func New(src *scanner.SourceBuffer, res *scanner.Result) *Generator {
	return &Generator{src: src, lambdas: res.Lambdas, positions: res.Positions}
}

// Generate writes the whole rewritten output. Writes happen in emission
// order; the output always ends with a newline even when the source lacks
// one. Names are assigned as lambda_<index> with the index taken from the
// sorted table, so output is a pure function of the input bytes.
func (g *Generator) Generate(w io.Writer) error {
	e := &emitter{w: w}
	e.printf("# %d %q\n", 1, g.src.File)
	g.emitTopLevel(e)
	g.emitDefinitions(e)
	e.printf("\n")
	return e.err
}

// emitTopLevel walks the whole file, copying source text, dropping in
// forward declarations at the insertion boundary preceding each run of
// not-yet-declared lambdas, and replacing every top-level occurrence span
// with a reference expression. Lambdas nested inside an already replaced
// span are skipped here; they are rewritten when their enclosing hoisted
// body is emitted.
func (g *Generator) emitTopLevel(e *emitter) {
	data := g.src.Data
	pos := 0
	declared := 0
	for lam := 0; lam < len(g.lambdas); lam++ {
		l := &g.lambdas[lam]
		if l.Start < pos {
			continue
		}
		if lam >= declared {
			b := g.boundaryBefore(l.Start)
			p := g.positions[b]
			if p.Pos >= pos {
				e.write(data[pos:p.Pos])
				pos = p.Pos
			}
			declared = g.emitDeclarations(e, declared, b)
			g.writeMarker(e, p.Line)
		}
		e.write(data[pos:l.Start])
		e.printf("(&lambda_%d)", lam)
		pos = l.End
		if l.EndLine != l.StartLine {
			g.writeMarker(e, l.EndLine)
		}
	}
	e.write(data[pos:])
}

// emitSliced writes the source span [pos, end) with every lambda occurrence
// inside it replaced by its reference expression. from is the lowest lambda
// index that may still occur in the span. Unlike the top-level walk it never
// inserts declarations; those were all hoisted to top-level boundaries.
func (g *Generator) emitSliced(e *emitter, pos, end, from int) {
	data := g.src.Data
	for lam := from; lam < len(g.lambdas); lam++ {
		l := &g.lambdas[lam]
		if l.Start < pos {
			continue
		}
		if l.Start >= end {
			break
		}
		e.write(data[pos:l.Start])
		e.printf("(&lambda_%d)", lam)
		pos = l.End
		if l.EndLine != l.StartLine {
			g.writeMarker(e, l.EndLine)
		}
	}
	e.write(data[pos:end])
}

// emitDeclarations writes forward declarations for every lambda, starting
// at index from, whose start lies before the boundary following b. Returns
// the index past the last lambda declared.
func (g *Generator) emitDeclarations(e *emitter, from, b int) int {
	data := g.src.Data
	end := math.MaxInt
	if b+1 < len(g.positions) {
		end = g.positions[b+1].Pos
	}
	k := from
	for k < len(g.lambdas) && g.lambdas[k].Start < end {
		l := &g.lambdas[k]
		e.printf("static ")
		e.write(l.Type.Text(data))
		e.printf(" lambda_%d", k)
		e.write(l.Args.Text(data))
		e.printf(";\n")
		k++
	}
	return k
}

// emitDefinitions hoists every lambda to a file-scope static function,
// emitted after all top-level code in sorted order. A lambda nested inside
// another's body is rewritten within that body to reference its own hoisted
// function, which nesting guarantees carries a higher index.
func (g *Generator) emitDefinitions(e *emitter) {
	data := g.src.Data
	for idx := range g.lambdas {
		l := &g.lambdas[idx]
		g.writeMarker(e, l.TypeLine)
		e.printf("static ")
		e.write(l.Type.Text(data))
		e.printf(" lambda_%d", idx)
		e.write(l.Args.Text(data))
		g.writeMarker(e, l.BodyLine)
		e.printf("{")
		g.emitSliced(e, l.Body.Begin, l.Body.End(), idx+1)
		e.printf("}")
	}
}

// boundaryBefore returns the index of the last insertion position at or
// before the offset. The table always holds the start of the file, so the
// result is never negative.
func (g *Generator) boundaryBefore(offset int) int {
	lo, hi := 0, len(g.positions)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if g.positions[mid].Pos <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func (g *Generator) writeMarker(e *emitter, line int) {
	e.ensureNewline()
	e.printf("#line %d\n", line)
}

// emitter funnels all writes through one error slot so emission code stays
// free of error plumbing; the first write failure wins.
type emitter struct {
	w    io.Writer
	last byte
	err  error
}

func (e *emitter) write(p []byte) {
	if e.err != nil || len(p) == 0 {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
		return
	}
	e.last = p[len(p)-1]
}

func (e *emitter) printf(format string, args ...any) {
	e.write(fmt.Appendf(nil, format, args...))
}

func (e *emitter) ensureNewline() {
	if e.last != '\n' {
		e.write([]byte{'\n'})
	}
}
