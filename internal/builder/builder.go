// Package builder wraps the external TreeFileBuilder executable. It locates
// the executable, detects which optional flags it supports, assembles the
// command line and reports the process outcome.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/quantmind-br/treefile-go/internal/cache"
	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/utils"
)

// DefaultProbeTimeout bounds the "--help" probe
const DefaultProbeTimeout = 10 * time.Second

// BuilderError reports a non-zero exit and carries the full result
type BuilderError struct {
	Result *Result
}

func (e *BuilderError) Error() string {
	return fmt.Sprintf("TreeFileBuilder exited with code %d", e.Result.ExitCode)
}

// Is reports whether target is domain.ErrBuildFailed
func (e *BuilderError) Is(target error) bool {
	return target == domain.ErrBuildFailed
}

// Options contains options for creating a Builder
type Options struct {
	// Executable overrides executable discovery
	Executable string
	Runner     Runner
	// Cache stores detected capabilities across runs
	Cache    domain.Cache
	CacheTTL time.Duration
	// ProbeTimeout bounds the capability probe
	ProbeTimeout time.Duration
	// ExtraArgs are appended before the output path
	ExtraArgs []string
	Retrier   *Retrier
	Logger    *utils.Logger
}

// BuildOptions controls one build
type BuildOptions struct {
	NoTOCCompression  bool
	NoFileCompression bool
	DryRun            bool
	Quiet             bool
	ForceEncrypt      bool
	DisableEncrypt    bool
	Passphrase        string
	OnStdout          func(line string)
	OnStderr          func(line string)
}

// Builder invokes a located TreeFileBuilder executable
type Builder struct {
	executable   string
	capabilities Capabilities
	source       DetectionSource
	version      string
	runner       Runner
	retrier      *Retrier
	extraArgs    []string
	logger       *utils.Logger
}

type cachedCapabilities struct {
	Capabilities Capabilities    `json:"capabilities"`
	Source       DetectionSource `json:"source"`
	Version      string          `json:"version,omitempty"`
}

// New locates the executable and detects its capabilities
func New(ctx context.Context, opts Options) (*Builder, error) {
	exe, err := Locate(opts.Executable)
	if err != nil {
		return nil, err
	}

	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = utils.Nop()
	}
	if opts.Retrier == nil {
		opts.Retrier = NewRetrier(DefaultRetrierOptions())
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.Cache == nil {
		opts.Cache = cache.NopCache{}
	}

	b := &Builder{
		executable: exe,
		runner:     opts.Runner,
		retrier:    opts.Retrier,
		extraArgs:  opts.ExtraArgs,
		logger:     opts.Logger.WithComponent("builder"),
	}

	b.detect(ctx, opts.Cache, opts.CacheTTL, opts.ProbeTimeout)

	b.logger.Debug().
		Str("executable", exe).
		Str("source", string(b.source)).
		Str("version", b.version).
		Interface("capabilities", b.capabilities).
		Msg("Detected builder capabilities")

	return b, nil
}

// Executable returns the resolved executable path
func (b *Builder) Executable() string {
	return b.executable
}

// Capabilities returns the detected capabilities
func (b *Builder) Capabilities() Capabilities {
	return b.capabilities
}

// DetectionSource reports how capabilities were determined
func (b *Builder) DetectionSource() DetectionSource {
	return b.source
}

// Version returns the detected tool version, if any
func (b *Builder) Version() string {
	return b.version
}

func (b *Builder) detect(ctx context.Context, c domain.Cache, ttl, timeout time.Duration) {
	key := ""
	if info, err := os.Stat(b.executable); err == nil {
		key = cache.CapabilitiesKey(b.executable, info.Size(), info.ModTime())
		if data, err := c.Get(ctx, key); err == nil {
			var cached cachedCapabilities
			if json.Unmarshal(data, &cached) == nil {
				b.capabilities = cached.Capabilities
				b.version = cached.Version
				b.source = SourceCache
				return
			}
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := RetryWithValue(probeCtx, b.retrier, func() (*Result, error) {
		return b.runner.Run(probeCtx, Command{Path: b.executable, Args: []string{"--help"}})
	})
	if err != nil {
		b.logger.Debug().Err(err).Msg("Capability probe failed, assuming all options")
		b.capabilities = AllCapabilities()
		b.source = SourceAssumed
		return
	}

	b.capabilities, b.source, b.version = DetectFromHelp(result.Stdout + "\n" + result.Stderr)

	if key == "" {
		return
	}
	data, err := json.Marshal(cachedCapabilities{Capabilities: b.capabilities, Source: b.source, Version: b.version})
	if err != nil {
		return
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to cache builder capabilities")
	}
}

// Validate checks opts against the detected capabilities
func (b *Builder) Validate(opts BuildOptions) error {
	if opts.ForceEncrypt && opts.DisableEncrypt {
		return fmt.Errorf("%w: cannot specify both encrypt and no-encrypt", domain.ErrConflictingOptions)
	}

	caps := b.capabilities
	checks := []struct {
		requested bool
		supported bool
		flag      string
		cliFlag   string
	}{
		{opts.Passphrase != "", caps.Passphrase, "--passphrase", "--passphrase"},
		{opts.ForceEncrypt, caps.Encrypt, "--encrypt", "--encrypt"},
		{opts.DisableEncrypt, caps.NoEncrypt, "--noEncrypt", "--no-encrypt"},
		{opts.Quiet, caps.Quiet, "--quiet", "--quiet"},
		{opts.DryRun, caps.DryRun, "--noCreate", "--dry-run"},
	}
	for _, c := range checks {
		if c.requested && !c.supported {
			return fmt.Errorf("%w: this TreeFileBuilder executable does not support the %s option; upgrade the toolchain or omit %s",
				domain.ErrUnsupportedOption, c.flag, c.cliFlag)
		}
	}
	return nil
}

// Command validates opts and assembles the invocation for one build
func (b *Builder) Command(responseFile, output string, opts BuildOptions) (Command, error) {
	if err := b.Validate(opts); err != nil {
		return Command{}, err
	}

	args := []string{"--responseFile=" + responseFile}
	if opts.NoTOCCompression {
		args = append(args, "--noTOCCompression")
	}
	if opts.NoFileCompression {
		args = append(args, "--noFileCompression")
	}
	if opts.DryRun {
		args = append(args, "--noCreate")
	}
	if opts.Quiet {
		args = append(args, "--quiet")
	}
	if opts.ForceEncrypt {
		args = append(args, "--encrypt")
	}
	if opts.DisableEncrypt {
		args = append(args, "--noEncrypt")
	}
	if opts.Passphrase != "" {
		args = append(args, "--passphrase", opts.Passphrase)
	}
	args = append(args, b.extraArgs...)
	args = append(args, output)

	return Command{
		Path:     b.executable,
		Args:     args,
		OnStdout: opts.OnStdout,
		OnStderr: opts.OnStderr,
	}, nil
}

// Build runs the builder for responseFile and writes the archive to output.
// The output path is made absolute and its parent directory created.
func (b *Builder) Build(ctx context.Context, responseFile, output string, opts BuildOptions) (*Result, error) {
	rsp, err := utils.AbsPath(responseFile)
	if err != nil {
		return nil, domain.NewIOError(responseFile, err)
	}
	out, err := utils.AbsPath(output)
	if err != nil {
		return nil, domain.NewIOError(output, err)
	}

	cmd, err := b.Command(rsp, out, opts)
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureDir(out); err != nil {
		return nil, domain.NewIOError(out, err)
	}

	b.logger.Info().
		Str("response_file", rsp).
		Str("output", out).
		Msg("Running TreeFileBuilder")

	result, err := RetryWithValue(ctx, b.retrier, func() (*Result, error) {
		return b.runner.Run(ctx, cmd)
	})
	if err != nil {
		if result == nil {
			result = &Result{Command: cmd.Argv()}
		}
		result.Output = out
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result, err
		}
		return result, fmt.Errorf("failed to run %s: %w", b.executable, err)
	}
	result.Output = out

	if result.ExitCode != 0 {
		b.logger.Warn().
			Int("exit_code", result.ExitCode).
			Str("output", out).
			Msg("TreeFileBuilder failed")
		return result, &BuilderError{Result: result}
	}

	b.logger.Info().
		Int("exit_code", result.ExitCode).
		Str("output", out).
		Msg("TreeFileBuilder finished")

	return result, nil
}
