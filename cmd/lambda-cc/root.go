package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lambdapp/lambdapp/pkg/config"
	"github.com/lambdapp/lambdapp/pkg/driver"
)

var rootCmd = &cobra.Command{
	Use:   "lambda-cc [compiler arguments]",
	Short: "Compile C with lambda syntax by piping sources through lambda-pp",
	Long: `lambda-cc stands in for the C compiler: it locates a host compiler and the
lambda-pp preprocessor, pipes the one source file on the command line through
lambda-pp, and hands the rewritten text to the compiler on standard input
with all other arguments passed through verbatim. Invocations without a
source file (link-only) run the compiler unchanged.`,
	// The whole command line belongs to the compiler; nothing here is a
	// lambda-cc flag.
	DisableFlagParsing: true,
	RunE:               runCompile,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute runs the driver, reporting failures on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
	return err
}

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s [cc options]", cmd.Name())
	}
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return cmd.Help()
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	loc := &driver.Locator{
		Compilers:         cfg.Driver.Compilers,
		SearchPaths:       cfg.Driver.SearchPaths,
		PreprocessorPaths: cfg.Driver.PreprocessorPaths,
	}

	cc, err := loc.FindCompiler()
	if err != nil {
		return err
	}

	pipeline := driver.Plan(cc, "", args)
	if len(pipeline.PreprocessorCmd) > 0 {
		pp, err := loc.FindPreprocessor()
		if err != nil {
			return err
		}
		pipeline = driver.Plan(cc, pp, args)
	}

	return pipeline.Run(cmd.OutOrStdout(), cmd.ErrOrStderr())
}
