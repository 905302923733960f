package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/treefile-go/internal/builder"
	"github.com/quantmind-br/treefile-go/internal/cache"
	"github.com/quantmind-br/treefile-go/internal/config"
	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/output"
	"github.com/quantmind-br/treefile-go/internal/overlay"
	"github.com/quantmind-br/treefile-go/internal/project"
	"github.com/quantmind-br/treefile-go/internal/tree"
	"github.com/quantmind-br/treefile-go/internal/utils"
)

// ArchiveBuilder builds archives from a response file
type ArchiveBuilder interface {
	Executable() string
	Capabilities() builder.Capabilities
	Build(ctx context.Context, responseFile, output string, opts builder.BuildOptions) (*builder.Result, error)
}

// BuilderFactory creates an ArchiveBuilder for an executable override
type BuilderFactory func(ctx context.Context, executable string) (ArchiveBuilder, error)

// Orchestrator coordinates indexing, response file writing and builds
type Orchestrator struct {
	config         *config.Config
	logger         *utils.Logger
	cache          domain.Cache
	runner         builder.Runner
	builderFactory BuilderFactory
	onFile         func(root, relPath string)
	onOutput       func(format project.Format, line string)
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config  *config.Config
	Verbose bool
	// Logger overrides the logger built from Config.Logging
	Logger *utils.Logger
	// Runner runs the builder process. Nil means os/exec.
	Runner         builder.Runner
	BuilderFactory BuilderFactory
	// OnFile is called for every file accepted while walking roots
	OnFile func(root, relPath string)
	// OnOutput receives builder output lines during Generate
	OnOutput func(format project.Format, line string)
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := "info"
		logFormat := "pretty"
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	cacheDir := cfg.Cache.Directory
	if cacheDir == "" {
		cacheDir = config.CacheDir()
	}
	c, err := cache.Open(cfg.Cache.Enabled, cache.Options{Directory: utils.ExpandPath(cacheDir)})
	if err != nil {
		// Another process may hold the badger lock; detection still works uncached
		logger.Warn().Err(err).Str("path", cacheDir).Msg("Capability cache unavailable")
		c = cache.NopCache{}
	}

	o := &Orchestrator{
		config:         cfg,
		logger:         logger,
		cache:          c,
		runner:         opts.Runner,
		builderFactory: opts.BuilderFactory,
		onFile:         opts.OnFile,
		onOutput:       opts.OnOutput,
	}
	if o.builderFactory == nil {
		o.builderFactory = o.defaultBuilder
	}
	return o, nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.cache != nil {
		return o.cache.Close()
	}
	return nil
}

func (o *Orchestrator) defaultBuilder(ctx context.Context, executable string) (ArchiveBuilder, error) {
	if executable == "" {
		executable = o.config.Builder.Path
	}
	extra, err := o.config.Builder.Args()
	if err != nil {
		return nil, fmt.Errorf("invalid builder.extra_args: %w", err)
	}
	b, err := builder.New(ctx, builder.Options{
		Executable:   executable,
		Runner:       o.runner,
		Cache:        o.cache,
		CacheTTL:     o.config.Cache.TTL,
		ProbeTimeout: o.config.Builder.ProbeTimeout,
		ExtraArgs:    extra,
		Logger:       o.logger,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Builder locates the builder executable and detects its capabilities. An
// empty executable uses builder.path from the configuration.
func (o *Orchestrator) Builder(ctx context.Context, executable string) (ArchiveBuilder, error) {
	return o.builderFactory(ctx, executable)
}

func (o *Orchestrator) exclude(extra []string) []string {
	patterns := make([]string, 0, len(o.config.Resolver.Exclude)+len(extra))
	patterns = append(patterns, o.config.Resolver.Exclude...)
	return append(patterns, extra...)
}

// IndexResult is the outcome of indexing a set of roots
type IndexResult struct {
	// Roots are the resolved roots, entry root first
	Roots      []string
	Manifest   *domain.Manifest
	Tree       *tree.Tree
	TotalBytes int64
	Summary    string
}

// Index merges roots (the first being the entry root) with overrides
// allowed and projects the result as a tree
func (o *Orchestrator) Index(ctx context.Context, roots []string) (*IndexResult, error) {
	if len(roots) == 0 {
		return nil, domain.NewInvalidSourceError("", "no source roots given")
	}

	resolver := overlay.NewResolver(overlay.Options{
		EntryRoot:      roots[0],
		AllowOverrides: true,
		Exclude:        o.exclude(nil),
		Logger:         o.logger,
		OnFile:         o.onFile,
	})

	resolved, err := resolver.ResolveRoots(roots)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	manifest, err := resolver.BuildEntries(ctx, resolved)
	if err != nil {
		return nil, err
	}

	size, err := o.totalSize(ctx, manifest)
	if err != nil {
		return nil, err
	}

	t := tree.Project(manifest, resolved[0], resolved[1:], o.config.Display.MaxEntries)

	o.logger.Info().
		Int("roots", len(resolved)).
		Int("entries", manifest.Len()).
		Dur("duration", time.Since(start)).
		Msg("Indexed roots")

	return &IndexResult{
		Roots:      resolved,
		Manifest:   manifest,
		Tree:       t,
		TotalBytes: size,
		Summary:    t.Summary(len(resolved)),
	}, nil
}

// statWorkers bounds concurrent os.Stat calls when sizing an index
const statWorkers = 8

// totalSize sums the sizes of every manifest source. Files that vanished
// since the walk are counted as zero.
func (o *Orchestrator) totalSize(ctx context.Context, m *domain.Manifest) (int64, error) {
	pool := utils.NewPool(statWorkers, func(ctx context.Context, e domain.Entry) (int64, error) {
		info, err := os.Stat(e.Source)
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	})

	results, err := pool.Process(ctx, m.Entries())
	if err != nil {
		return 0, err
	}

	var size int64
	for _, r := range results {
		size += r.Value
	}
	if errs := utils.CollectErrors(results); len(errs) > 0 {
		o.logger.Debug().Int("missing", len(errs)).Msg("Some files could not be sized")
	}
	return size, nil
}

// ResponseRequest describes one response file write
type ResponseRequest struct {
	Destination string
	Roots       []string
	// EntryRoot defaults to the first root
	EntryRoot string
	// AllowOverrides replaces the configured value when set
	AllowOverrides *bool
	Exclude        []string
	Compress       bool
}

// WriteResponse merges the requested roots and writes the manifest to
// the destination. Configured excludes and compression apply in addition to
// the request.
func (o *Orchestrator) WriteResponse(ctx context.Context, req ResponseRequest) (*output.WriteResult, error) {
	allow := o.config.Resolver.AllowOverrides
	if req.AllowOverrides != nil {
		allow = *req.AllowOverrides
	}
	resolver := overlay.NewResolver(overlay.Options{
		EntryRoot:      req.EntryRoot,
		AllowOverrides: allow,
		Exclude:        o.exclude(req.Exclude),
		Logger:         o.logger,
		OnFile:         o.onFile,
	})
	writer := output.NewWriter(output.WriterOptions{
		Resolver: resolver,
		Logger:   o.logger,
		Compress: req.Compress || o.config.Output.Compress,
	})
	return writer.Write(ctx, req.Destination, req.Roots)
}

// Build runs one archive build. An empty executable uses the configured or
// discovered builder.
func (o *Orchestrator) Build(ctx context.Context, executable, responseFile, outputPath string, opts builder.BuildOptions) (*builder.Result, error) {
	b, err := o.Builder(ctx, executable)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, responseFile, outputPath, opts)
}

// TaskResult is the message reported for one build task. It is never
// modified after it is sent.
type TaskResult struct {
	Format   project.Format
	Output   string
	Result   *builder.Result
	Err      error
	Duration time.Duration
}

// GenerateResult is the outcome of a full generation
type GenerateResult struct {
	BuildID string
	Entries int
	// Results are in project format order
	Results []TaskResult
}

// Generate writes the response file for the project into a temporary
// directory and builds one archive per requested format. All task results
// are returned; the error is the first failure in format order.
func (o *Orchestrator) Generate(ctx context.Context, p *project.Project) (*GenerateResult, error) {
	if p == nil {
		return nil, errors.New("project is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	buildID := uuid.NewString()
	logger := o.logger.WithBuildID(buildID)
	startTime := time.Now()

	logger.Info().
		Str("entry_root", p.EntryRoot).
		Int("updates", len(p.Updates)).
		Str("output", p.OutputDirectory).
		Int("workers", o.config.Builder.Workers).
		Msg("Starting generation")

	if err := os.MkdirAll(p.OutputDirectory, 0755); err != nil {
		return nil, domain.NewIOError(p.OutputDirectory, err)
	}

	tmp, err := os.MkdirTemp("", "treefile-")
	if err != nil {
		return nil, domain.NewIOError(os.TempDir(), err)
	}
	defer os.RemoveAll(tmp)

	writer := output.NewWriter(output.WriterOptions{
		Resolver: overlay.NewResolver(overlay.Options{
			EntryRoot:      p.EntryRoot,
			AllowOverrides: p.Overrides(),
			Exclude:        o.exclude(p.Exclude),
			Logger:         logger,
			OnFile:         o.onFile,
		}),
		Logger: logger,
	})
	written, err := writer.Write(ctx, filepath.Join(tmp, ResponseFileName), p.Roots())
	if err != nil {
		return nil, err
	}

	b, err := o.Builder(ctx, "")
	if err != nil {
		return nil, err
	}

	tasks := PlanTasks(p)
	for i := range tasks {
		tasks[i].Options.OnStdout = o.outputSink(tasks[i].Format)
		tasks[i].Options.OnStderr = o.outputSink(tasks[i].Format)
	}

	pool := utils.NewPool(o.config.Builder.Workers, func(ctx context.Context, task BuildTask) (TaskResult, error) {
		start := time.Now()
		res, err := b.Build(ctx, written.Path, task.Output, task.Options)
		return TaskResult{
			Format:   task.Format,
			Output:   task.Output,
			Result:   res,
			Duration: time.Since(start),
		}, err
	})

	results := make([]TaskResult, len(tasks))
	for msg := range pool.Stream(ctx, tasks) {
		tr := msg.Value
		tr.Format = msg.Input.Format
		tr.Output = msg.Input.Output
		tr.Err = msg.Err
		results[msg.Index] = tr

		if tr.Err != nil {
			// option mismatches are fixed by the user, not retried
			event := logger.Error()
			if domain.IsUserError(tr.Err) {
				event = logger.Warn()
			}
			event.
				Err(tr.Err).
				Str("format", string(tr.Format)).
				Str("output", tr.Output).
				Msg("Build failed")
			continue
		}
		logger.Info().
			Str("format", string(tr.Format)).
			Str("output", tr.Output).
			Dur("duration", tr.Duration).
			Msg("Build completed")
	}

	result := &GenerateResult{
		BuildID: buildID,
		Entries: written.Manifest.Len(),
		Results: results,
	}

	var firstErr error
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("%s build failed: %w", r.Format, r.Err)
			}
		}
	}

	logger.Info().
		Dur("total_duration", time.Since(startTime)).
		Int("total", len(results)).
		Int("success", len(results)-failed).
		Int("failed", failed).
		Msg("Generation completed")

	return result, firstErr
}

func (o *Orchestrator) outputSink(f project.Format) func(string) {
	if o.onOutput == nil {
		return nil
	}
	return func(line string) {
		o.onOutput(f, line)
	}
}
