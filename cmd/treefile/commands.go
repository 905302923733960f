package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/quantmind-br/treefile-go/internal/app"
	"github.com/quantmind-br/treefile-go/internal/builder"
	"github.com/quantmind-br/treefile-go/internal/project"
	"github.com/quantmind-br/treefile-go/internal/rspconfig"
	"github.com/quantmind-br/treefile-go/internal/tree"
	"github.com/quantmind-br/treefile-go/internal/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// spinner returns a file counter for root walks and a function that stops
// it. Both are no-ops when progress is disabled.
func (c *cli) spinner(cmd *cobra.Command, desc string) (func(root, rel string), func()) {
	if c.noProgress {
		return nil, func() {}
	}
	bar := utils.NewProgressBar(-1, desc,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
	)
	return func(root, rel string) {
			_ = bar.Add(1)
		}, func() {
			_ = bar.Finish()
		}
}

func (c *cli) responseCmd() *cobra.Command {
	var (
		sources        []string
		entryRoot      string
		allowOverrides bool
		exclude        []string
		compress       bool
	)

	cmd := &cobra.Command{
		Use:   "response <destination>",
		Short: "Write a response file for one or more source folders",
		Long: `Merges the source folders in order and writes one
"<relative path> @ <absolute source>" line per file to the destination.

The entry root (the first --source unless --entry-root is given) defines the
relative namespace. A file present in more than one folder is an error unless
--allow-overrides is set, in which case the last folder wins.`,
		Example: `  treefile response data.rsp --source ./game --source ./patch1 --allow-overrides`,
		Args:    exactArgs("destination"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sources) == 0 {
				return usagef("at least one --source is required")
			}

			onFile, stop := c.spinner(cmd, utils.DescIndexing)
			orch, _, err := c.orchestrator(cmd, app.OrchestratorOptions{OnFile: onFile})
			if err != nil {
				stop()
				return err
			}
			defer orch.Close()

			ctx, cancel := signalContext(cmd.Context(), nil)
			defer cancel()

			req := app.ResponseRequest{
				Destination: args[0],
				Roots:       sources,
				EntryRoot:   entryRoot,
				Exclude:     exclude,
				Compress:    compress,
			}
			if cmd.Flags().Changed("allow-overrides") {
				req.AllowOverrides = &allowOverrides
			}
			res, err := orch.WriteResponse(ctx, req)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Response file written to %s (%d entries)\n", res.Path, res.Manifest.Len())
			if res.CompressedPath != "" {
				fmt.Fprintf(out, "Compressed copy written to %s\n", res.CompressedPath)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sources, "source", "s", nil, "Source folder (repeatable, later folders take precedence)")
	cmd.Flags().StringVar(&entryRoot, "entry-root", "", "Folder defining relative paths (default: first --source)")
	cmd.Flags().BoolVar(&allowOverrides, "allow-overrides", false, "Let later folders replace files from earlier ones")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Gitignore-style pattern to exclude (repeatable)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Also write a zstd-compressed copy")
	return cmd
}

func (c *cli) rspConfigCmd() *cobra.Command {
	var (
		entries []string
		opts    rspconfig.Options
	)

	cmd := &cobra.Command{
		Use:   "rsp-config <output>",
		Short: "Write a root-list config file",
		Long: `Writes one canonical forward-slash path per --entry, each preceded by a
"# <label>" header. Entries take the form "[Label=]PATH"; the label defaults
to the folder name.`,
		Example: `  treefile rsp-config TreeFileRspBuilder.cfg --entry "Root data=./game" --entry ./patch1`,
		Args:    exactArgs("output"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(entries) == 0 {
				return usagef("at least one --entry is required")
			}
			parsed, err := rspconfig.ParseEntries(entries)
			if err != nil {
				return &usageError{err: err}
			}

			path, err := rspconfig.Write(args[0], parsed, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file written to %s (%d roots)\n", path, len(parsed))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&entries, "entry", "e", nil, `Root entry as "[Label=]PATH" (repeatable)`)
	cmd.Flags().BoolVar(&opts.AllowMissing, "allow-missing", false, "Write paths that do not exist")
	cmd.Flags().BoolVar(&opts.NoHeader, "no-header", false, "Omit the # <label> lines")
	return cmd
}

func (c *cli) indexCmd() *cobra.Command {
	var (
		sources []string
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Show the merged tree of source folders",
		Long: `Indexes the entry root (first --source) and its updates with overrides
allowed and prints the merged tree. Each file is labelled with the folder it
comes from.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sources) == 0 {
				return usagef("at least one --source is required")
			}

			onFile, stop := c.spinner(cmd, utils.DescIndexing)
			orch, _, err := c.orchestrator(cmd, app.OrchestratorOptions{OnFile: onFile})
			if err != nil {
				stop()
				return err
			}
			defer orch.Close()

			ctx, cancel := signalContext(cmd.Context(), nil)
			defer cancel()

			res, err := orch.Index(ctx, sources)
			stop()
			if err != nil {
				return fmt.Errorf("indexing failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if plain {
				writePlainTree(out, res.Tree.Root, "")
			} else {
				fmt.Fprintln(out, tree.Render(res.Tree))
			}
			fmt.Fprintf(out, "%s Total size: %s.\n", res.Summary, humanize.Bytes(uint64(res.TotalBytes)))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sources, "source", "s", nil, "Source folder (repeatable; the first is the entry root)")
	cmd.Flags().Int("max-entries", 0, "Maximum number of files to display (default 5000)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print one path per line without styling")
	_ = c.v.BindPFlag("display.max_entries", cmd.Flags().Lookup("max-entries"))
	return cmd
}

// writePlainTree prints every file below n as "<path>\t<origin>"
func writePlainTree(w io.Writer, n *tree.Node, prefix string) {
	for _, child := range n.Children {
		path := child.Name
		if prefix != "" {
			path = prefix + "/" + child.Name
		}
		if child.IsFile() {
			fmt.Fprintf(w, "%s\t%s\n", path, child.Origin)
			continue
		}
		writePlainTree(w, child, path)
	}
}

func (c *cli) buildCmd() *cobra.Command {
	var opts builder.BuildOptions

	cmd := &cobra.Command{
		Use:   "build <response-file> <output>",
		Short: "Run TreeFileBuilder on a response file",
		Long: `Invokes TreeFileBuilder to build an archive from a response file.

The executable is taken from --builder, builder.path in the config,
TREEFILEBUILDER_PATH, PATH, or the folder containing treefile, in that order.
Options the detected builder does not support are rejected before it runs.`,
		Example: `  treefile build data.rsp out/data.tres --encrypt --passphrase "$PASS"`,
		Args:    exactArgs("response-file", "output"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ForceEncrypt && opts.DisableEncrypt {
				return usagef("--encrypt and --no-encrypt are mutually exclusive")
			}

			orch, _, err := c.orchestrator(cmd, app.OrchestratorOptions{})
			if err != nil {
				return err
			}
			defer orch.Close()

			out := cmd.OutOrStdout()
			opts.OnStdout = func(line string) { fmt.Fprint(out, line) }
			opts.OnStderr = func(line string) { fmt.Fprint(cmd.ErrOrStderr(), line) }

			ctx, cancel := signalContext(cmd.Context(), nil)
			defer cancel()

			res, err := orch.Build(ctx, "", args[0], args[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Archive written to %s\n", res.Output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.ForceEncrypt, "encrypt", false, "Force encryption")
	flags.BoolVar(&opts.DisableEncrypt, "no-encrypt", false, "Disable encryption")
	flags.StringVar(&opts.Passphrase, "passphrase", "", "Encryption passphrase")
	flags.BoolVar(&opts.Quiet, "quiet", false, "Suppress builder progress output")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Validate without creating the archive")
	flags.BoolVar(&opts.NoTOCCompression, "no-toc-compression", false, "Disable table of contents compression")
	flags.BoolVar(&opts.NoFileCompression, "no-file-compression", false, "Disable file compression")
	return cmd
}

func (c *cli) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <project-file>",
		Short: "Build every archive described by a project file",
		Long: `Loads a YAML, JSON or TOML project file, writes the merged response file
and builds one archive per requested format. Encrypted .tres archives read
their passphrase from the environment variable named by passphrase_env
(TREEFILE_PASSPHRASE by default).`,
		Example: `  TREEFILE_PASSPHRASE=secret treefile generate build.yaml`,
		Args:    exactArgs("project-file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.NewLoader().Load(args[0])
			if err != nil {
				if errors.Is(err, project.ErrFileNotFound) || errors.Is(err, project.ErrUnsupportedExt) {
					return &usageError{err: err}
				}
				return fmt.Errorf("invalid project file: %w", err)
			}

			out := cmd.OutOrStdout()
			sw := &syncWriter{w: out}

			onFile, stop := c.spinner(cmd, utils.DescIndexing)
			orch, _, err := c.orchestrator(cmd, app.OrchestratorOptions{
				OnFile: onFile,
				OnOutput: func(f project.Format, line string) {
					sw.printf("[%s] %s", f, line)
				},
			})
			if err != nil {
				stop()
				return err
			}
			defer orch.Close()

			ctx, cancel := signalContext(cmd.Context(), nil)
			defer cancel()

			res, err := orch.Generate(ctx, p)
			stop()
			if res != nil {
				fmt.Fprintf(out, "Build %s: %d entries\n", res.BuildID, res.Entries)
				for _, r := range res.Results {
					fmt.Fprintln(out, describeTask(r))
				}
			}
			return err
		},
	}

	cmd.Flags().IntP("workers", "j", 0, "Number of archives to build concurrently (default 1)")
	_ = c.v.BindPFlag("builder.workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func describeTask(r app.TaskResult) string {
	if r.Err != nil {
		return fmt.Sprintf("  %s  FAILED  %s", r.Format, firstLine(r.Err.Error()))
	}
	size := "dry run"
	if info, err := os.Stat(r.Output); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	return fmt.Sprintf("  %s  OK  %s (%s, %s)", r.Format, r.Output, size, r.Duration.Round(time.Millisecond))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// syncWriter serializes writes from concurrent builds
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}
