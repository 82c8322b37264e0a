package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PreprocessorName is the binary the driver pipes sources through.
const PreprocessorName = "lambda-pp"

// DefaultCompilers are tried in order when neither CC nor CXX is set.
var DefaultCompilers = []string{"cc", "gcc", "clang", "pathcc", "tcc"}

// DefaultSearchPaths are the directories scanned for a compiler binary.
var DefaultSearchPaths = []string{"/bin", "/usr/bin"}

// DefaultPreprocessorPaths are the directories scanned for lambda-pp when
// LAMBDA_PP is not set. "." covers running next to the binary, "lambdapp"
// covers projects carrying the tool as a subdirectory.
var DefaultPreprocessorPaths = []string{".", "/bin", "/usr/bin", "lambdapp"}

// Locator finds the driver's collaborators on the host. The zero value uses
// the process environment and the default search lists.
type Locator struct {
	Getenv            func(string) string
	Compilers         []string
	SearchPaths       []string
	PreprocessorPaths []string
}

func (l *Locator) getenv(key string) string {
	if l.Getenv != nil {
		return l.Getenv(key)
	}
	return os.Getenv(key)
}

// FindCompiler returns the compiler to invoke: $CC, then $CXX, then the
// first known compiler name found in the search paths.
func (l *Locator) FindCompiler() (string, error) {
	if cc := l.getenv("CC"); cc != "" {
		return cc, nil
	}
	if cxx := l.getenv("CXX"); cxx != "" {
		return cxx, nil
	}
	dirs := l.SearchPaths
	if dirs == nil {
		dirs = DefaultSearchPaths
	}
	names := l.Compilers
	if names == nil {
		names = DefaultCompilers
	}
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if isExecutableFile(path) {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("couldn't find a compiler")
}

// FindPreprocessor returns the path to lambda-pp: the directory named by
// $LAMBDA_PP, else the first candidate directory containing the binary.
func (l *Locator) FindPreprocessor() (string, error) {
	if dir := l.getenv("LAMBDA_PP"); dir != "" {
		return filepath.Join(dir, PreprocessorName), nil
	}
	dirs := l.PreprocessorPaths
	if dirs == nil {
		dirs = DefaultPreprocessorPaths
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, PreprocessorName)
		if isExecutableFile(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("couldn't find %s", PreprocessorName)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Source identifies the one recognized source file among the compiler
// arguments.
type Source struct {
	Path  string
	Index int
	CPP   bool
}

// sourceExtensions maps recognized suffixes to the language passed to the
// compiler via -x.
var sourceExtensions = []struct {
	ext string
	cpp bool
}{
	{".c", false},
	{".cc", true},
	{".cx", true},
	{".cxx", true},
	{".cpp", true},
}

// FindSource returns the first argument naming a C or C++ source file.
// No source file means the compiler is being used as a linker.
func FindSource(args []string) (Source, bool) {
	for i, arg := range args {
		for _, e := range sourceExtensions {
			if strings.HasSuffix(arg, e.ext) {
				return Source{Path: arg, Index: i, CPP: e.cpp}, true
			}
		}
	}
	return Source{}, false
}

// Output identifies the -o pair among the compiler arguments.
type Output struct {
	Path  string
	Index int // index of the -o flag itself
}

// FindOutput returns the output destination named by -o, if any.
func FindOutput(args []string) (Output, bool) {
	for i, arg := range args {
		if arg != "-o" {
			continue
		}
		if i+1 >= len(args) {
			return Output{}, false
		}
		return Output{Path: args[i+1], Index: i}, true
	}
	return Output{}, false
}
