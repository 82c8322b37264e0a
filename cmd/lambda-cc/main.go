package main

import (
	"errors"
	"os"
	"os/exec"
)

func main() {
	if err := Execute(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
