// Package exec provides abstractions for command execution.
// This package enables testable code by allowing CLI commands to be mocked.
package exec

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Command describes one external command invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin string
	// Env is the complete environment for the command. When nil the
	// command inherits the current process environment.
	Env []string
}

// CommandExecutor defines an interface for executing shell commands.
// This abstraction allows for mocking CLI tool behavior in tests.
type CommandExecutor interface {
	// Execute runs a command with the given context.
	// Returns stdout, stderr, and any error that occurred.
	Execute(ctx context.Context, cmd Command) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual shell commands using os/exec.
// This is the production implementation.
type RealCommandExecutor struct{}

// Execute runs an actual shell command.
func (r *RealCommandExecutor) Execute(ctx context.Context, cmd Command) ([]byte, []byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stdin != "" {
		c.Stdin = io.NopCloser(bytes.NewBufferString(cmd.Stdin))
	}
	if cmd.Env != nil {
		c.Env = cmd.Env
	}
	err := c.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
// This is used as the default when no executor is injected.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}
