package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Command describes one process invocation
type Command struct {
	Path string
	Args []string
	// OnStdout and OnStderr receive output line by line, newline included
	OnStdout func(line string)
	OnStderr func(line string)
}

// Argv returns the full argument vector including the executable
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// Result is the outcome of a builder invocation
type Result struct {
	Command  []string
	Stdout   string
	Stderr   string
	ExitCode int
	// Output is the absolute archive path passed to the builder
	Output string
}

// Runner runs an external process to completion. A non-zero exit is
// reported in Result.ExitCode, not as an error; errors mean the process
// could not be run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Ensure ExecRunner implements Runner
var _ Runner = ExecRunner{}

// Run starts cmd, streams its output to the callbacks and collects it
func (ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr: %w", err)
	}

	if err := c.Start(); err != nil {
		return nil, err
	}

	var (
		wg           sync.WaitGroup
		outBuf       strings.Builder
		errBuf       strings.Builder
		outErr, eErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outErr = consume(stdout, &outBuf, cmd.OnStdout)
	}()
	go func() {
		defer wg.Done()
		eErr = consume(stderr, &errBuf, cmd.OnStderr)
	}()
	wg.Wait()

	waitErr := c.Wait()

	result := &Result{
		Command: cmd.Argv(),
		Stdout:  outBuf.String(),
		Stderr:  errBuf.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case ctx.Err() != nil:
		return result, ctx.Err()
	case errors.As(waitErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, waitErr
	}

	if outErr != nil {
		return result, fmt.Errorf("failed to read stdout: %w", outErr)
	}
	if eErr != nil {
		return result, fmt.Errorf("failed to read stderr: %w", eErr)
	}
	return result, nil
}

// consume copies r into buf line by line, forwarding each line to cb
func consume(r io.Reader, buf *strings.Builder, cb func(string)) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			buf.WriteString(line)
			if cb != nil {
				cb(line)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
