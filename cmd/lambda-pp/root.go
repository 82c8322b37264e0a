package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lambdapp/lambdapp"
	"github.com/lambdapp/lambdapp/pkg/config"
	"github.com/lambdapp/lambdapp/pkg/types"
)

var (
	ppKeyword     string
	ppShort       bool
	ppNoShort     bool
	ppOutput      string
	ppConfigPath  string
	ppColor       string
	ppShowVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "lambda-pp <file>",
	Short: "Rewrite C lambda syntax into standard C",
	Long: `lambda-pp is a source-to-source preprocessor that adds anonymous-function
("lambda") syntax to C. Every lambda <type>(<args>) { <body> } construct is
hoisted into a file-scope function and the occurrence is rewritten into a
reference to it. #line markers keep diagnostics attributed to the original
file. Pass - to read from standard input.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if ppShowVersion {
			return nil
		}
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	},
	RunE:          runPreprocess,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// usageError marks user errors that warrant printing the usage text.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func init() {
	rootCmd.Flags().StringVarP(&ppKeyword, "keyword", "k", "", "change the lambda keyword to WORD")
	rootCmd.Flags().BoolVarP(&ppShort, "short", "s", false, "enable shortened syntax (default)")
	rootCmd.Flags().BoolVarP(&ppNoShort, "no-short", "S", false, "disable shortened syntax")
	rootCmd.Flags().StringVarP(&ppOutput, "output", "o", "", "write output to FILE instead of stdout")
	rootCmd.Flags().StringVar(&ppConfigPath, "config", "", "path to a configuration file")
	rootCmd.Flags().StringVar(&ppColor, "color", "auto", "color diagnostics: auto, always, never")
	rootCmd.Flags().BoolVarP(&ppShowVersion, "version", "V", false, "show the current program version")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})
}

// Execute runs the root command, printing diagnostics the way a compiler
// front end does: one line to stderr, usage text only for user errors.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	applyColorMode()
	errLabel := color.New(color.Bold, color.FgRed)

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(os.Stderr, uerr.Error())
		fmt.Fprint(os.Stderr, rootCmd.UsageString())
		return err
	}
	var perr *types.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintf(os.Stderr, "%s:%d %s %s\n", perr.File, perr.Line, errLabel.Sprint("error:"), perr.Message)
		return err
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", errLabel.Sprint("error:"), err)
	return err
}

// applyColorMode resolves the --color flag against the terminal and the
// NO_COLOR convention. Diagnostics go to stderr, so that is the stream
// tested.
func applyColorMode() {
	switch ppColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		color.NoColor = !term.IsTerminal(int(os.Stderr.Fd())) || os.Getenv("NO_COLOR") != ""
	}
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	if ppShowVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "lambda-pp %s\n", version)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keyword := lambdapp.DefaultKeyword
	if cfg.Keyword != "" {
		keyword = cfg.Keyword
	}
	if cmd.Flags().Changed("keyword") {
		keyword = ppKeyword
	}

	short := true
	if cfg.ShortSyntax != nil {
		short = *cfg.ShortSyntax
	}
	if ppNoShort {
		short = false
	} else if ppShort {
		short = true
	}

	file := args[0]
	var data []byte
	if file == "-" {
		file = "<stdin>"
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", file, err)
	}

	pp := lambdapp.New(
		lambdapp.WithKeyword(keyword),
		lambdapp.WithShortSyntax(short),
	)

	// Buffer the whole result so a failure never leaves partial output
	// behind, on stdout or in the output file.
	var buf bytes.Buffer
	if err := pp.Process(file, data, &buf); err != nil {
		return err
	}

	if ppOutput != "" {
		if err := os.WriteFile(ppOutput, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to open file %s: %w", ppOutput, err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func loadConfig() (*config.Config, error) {
	if ppConfigPath != "" {
		return config.Load(ppConfigPath)
	}
	return config.LoadDefault()
}
