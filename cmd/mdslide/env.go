package main

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Color  bool // colorize the result summary
}

// DefaultEnv returns the production environment. Output goes through
// colorable writers so ANSI sequences also work on Windows consoles.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: colorable.NewColorableStdout(),
		Stderr: colorable.NewColorableStderr(),
		Color:  !color.NoColor,
	}
}
