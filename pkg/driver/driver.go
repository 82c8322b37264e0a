// Package driver reconstructs a C/C++ compiler invocation around the
// lambda-pp preprocessing pipe: the recognized source file is fed through
// lambda-pp and the compiler reads the rewritten text from standard input,
// with every other argument passed through verbatim.
package driver

import (
	"fmt"
	"io"
	"os/exec"
)

// Pipeline is one reconstructed invocation. When PreprocessorCmd is empty
// the compiler runs as-is (link-only passthrough).
type Pipeline struct {
	PreprocessorCmd []string
	CompilerCmd     []string
}

// Plan rebuilds the compiler command line around the preprocessing pipe.
// Arguments before the -o pair come before the stdin marker, arguments
// after the output name are appended after it, and a missing -o defaults to
// a.out. Invocations without a recognized source file pass through
// untouched.
func Plan(cc, pp string, args []string) *Pipeline {
	src, ok := FindSource(args)
	if !ok {
		return &Pipeline{CompilerCmd: append([]string{cc}, args...)}
	}

	out, haveOut := FindOutput(args)
	outPath := "a.out"
	if haveOut {
		outPath = out.Path
	}

	lang := "c"
	if src.CPP {
		lang = "c++"
	}

	stop := len(args)
	if haveOut {
		stop = out.Index
	}
	ccArgs := []string{cc, "-x" + lang}
	for i := 0; i < stop; i++ {
		if i == src.Index {
			continue
		}
		ccArgs = append(ccArgs, args[i])
	}
	ccArgs = append(ccArgs, "-", "-o", outPath)
	if haveOut {
		for i := out.Index + 2; i < len(args); i++ {
			if i == src.Index {
				continue
			}
			ccArgs = append(ccArgs, args[i])
		}
	}

	return &Pipeline{
		PreprocessorCmd: []string{pp, src.Path},
		CompilerCmd:     ccArgs,
	}
}

// Run executes the pipeline. The compiler's stdout and stderr, and the
// preprocessor's stderr, go to the given writers. The returned error is the
// preprocessor's failure if it failed, else the compiler's.
func (p *Pipeline) Run(stdout, stderr io.Writer) error {
	cc := exec.Command(p.CompilerCmd[0], p.CompilerCmd[1:]...)
	cc.Stdout = stdout
	cc.Stderr = stderr

	if len(p.PreprocessorCmd) == 0 {
		if err := cc.Run(); err != nil {
			return fmt.Errorf("%s: %w", p.CompilerCmd[0], err)
		}
		return nil
	}

	pp := exec.Command(p.PreprocessorCmd[0], p.PreprocessorCmd[1:]...)
	pp.Stderr = stderr
	pipe, err := pp.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating pipe: %w", err)
	}
	cc.Stdin = pipe

	if err := pp.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.PreprocessorCmd[0], err)
	}
	if err := cc.Start(); err != nil {
		pp.Process.Kill()
		pp.Wait()
		return fmt.Errorf("starting %s: %w", p.CompilerCmd[0], err)
	}

	ppErr := pp.Wait()
	ccErr := cc.Wait()
	if ppErr != nil {
		return fmt.Errorf("%s: %w", p.PreprocessorCmd[0], ppErr)
	}
	if ccErr != nil {
		return fmt.Errorf("%s: %w", p.CompilerCmd[0], ccErr)
	}
	return nil
}
