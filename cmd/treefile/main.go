package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quantmind-br/treefile-go/internal/app"
	"github.com/quantmind-br/treefile-go/internal/builder"
	"github.com/quantmind-br/treefile-go/internal/config"
	"github.com/quantmind-br/treefile-go/internal/utils"
	"github.com/quantmind-br/treefile-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks errors caused by invalid invocation
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to a process exit code
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitError
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI with args and returns the exit code
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

// cli holds global flag state and the viper instance flags are bound to
type cli struct {
	v          *viper.Viper
	cfgFile    string
	verbose    bool
	noCache    bool
	noProgress bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "treefile",
		Short: "Build TRE archives from layered source folders",
		Long: `treefile merges an entry root and any number of update folders into a
response file and drives the external TreeFileBuilder tool to produce
.tre and encrypted .tres archives.

Later folders override files from earlier ones. The response file lists one
"<relative path> @ <absolute source>" line per file.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ~/.treefile/config.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")
	flags.String("builder", "", "Path to the TreeFileBuilder executable")
	flags.String("log-format", config.DefaultLogFormat, "Log format (pretty or json)")
	flags.BoolVar(&c.noCache, "no-cache", false, "Disable the builder capability cache")
	flags.BoolVar(&c.noProgress, "no-progress", false, "Hide progress indicators")

	_ = c.v.BindPFlag("builder.path", flags.Lookup("builder"))
	_ = c.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(
		c.responseCmd(),
		c.rspConfigCmd(),
		c.indexCmd(),
		c.buildCmd(),
		c.generateCmd(),
		c.doctorCmd(),
		c.configCmd(),
		c.cacheCmd(),
		versionCmd(),
	)
	return root
}

// loadConfig loads configuration with flag bindings applied
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(c.v, c.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

func (c *cli) logger(cfg *config.Config, w io.Writer) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  w,
		Verbose: c.verbose,
	})
}

// orchestrator loads configuration and creates an orchestrator for cmd
func (c *cli) orchestrator(cmd *cobra.Command, opts app.OrchestratorOptions) (*app.Orchestrator, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts.Config = cfg
	opts.Verbose = c.verbose
	opts.Logger = c.logger(cfg, cmd.ErrOrStderr())

	orch, err := app.NewOrchestrator(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	return orch, cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context, log *utils.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			if log != nil {
				log.Info().Msg("Shutting down gracefully...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func (c *cli) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the builder toolchain and configuration",
		Long:  "Locates TreeFileBuilder, reports its detected capabilities and checks the config and cache directories.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Checking toolchain...")
			allPassed := true

			// Check 1: Config file
			fmt.Fprint(out, "  Config file: ")
			cfg, err := c.loadConfig()
			if err != nil {
				fmt.Fprintf(out, "FAILED (%v)\n", err)
				cfg = config.Default()
				allPassed = false
			} else if used := c.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "OK (%s)\n", used)
			} else {
				fmt.Fprintln(out, "OK (defaults)")
			}

			// Check 2: TreeFileBuilder
			fmt.Fprint(out, "  TreeFileBuilder: ")
			orch, err := app.NewOrchestrator(app.OrchestratorOptions{
				Config: cfg,
				Logger: c.logger(cfg, io.Discard),
			})
			if err != nil {
				return err
			}
			defer orch.Close()

			b, err := orch.Builder(cmd.Context(), "")
			if err != nil {
				fmt.Fprintf(out, "NOT FOUND (%v)\n", err)
				allPassed = false
			} else {
				fmt.Fprintf(out, "OK (%s)\n", b.Executable())
				if bb, ok := b.(*builder.Builder); ok {
					fmt.Fprintf(out, "  Capabilities: %s (via %s", formatCapabilities(bb.Capabilities()), bb.DetectionSource())
					if bb.Version() != "" {
						fmt.Fprintf(out, ", version %s", bb.Version())
					}
					fmt.Fprintln(out, ")")
				}
			}

			// Check 3: Write permissions for the output directory
			outDir := cfg.Output.Directory
			if outDir == "" {
				outDir = "."
			}
			fmt.Fprint(out, "  Write permissions: ")
			if checkWritePermissions(outDir) {
				fmt.Fprintln(out, "OK")
			} else {
				fmt.Fprintln(out, "FAILED")
				allPassed = false
			}

			// Check 4: Cache directory
			fmt.Fprint(out, "  Cache directory: ")
			cacheDir := utils.ExpandPath(cfg.Cache.Directory)
			switch {
			case !cfg.Cache.Enabled:
				fmt.Fprintln(out, "DISABLED")
			case checkCacheDir(cacheDir):
				fmt.Fprintf(out, "OK (%s)\n", cacheDir)
			default:
				fmt.Fprintln(out, "WARN (will be created on first use)")
			}

			fmt.Fprintln(out)
			if allPassed {
				fmt.Fprintln(out, "All critical checks passed!")
			} else {
				fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
			}
			return nil
		},
	}
}

func formatCapabilities(caps builder.Capabilities) string {
	flags := []struct {
		name string
		ok   bool
	}{
		{"passphrase", caps.Passphrase},
		{"encrypt", caps.Encrypt},
		{"no-encrypt", caps.NoEncrypt},
		{"quiet", caps.Quiet},
		{"dry-run", caps.DryRun},
	}
	var names []string
	for _, f := range flags {
		if f.ok {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// checkWritePermissions checks if we can create files in dir
func checkWritePermissions(dir string) bool {
	f, err := os.CreateTemp(dir, ".treefile_test_write_*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func versionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), version.Full())
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}

// noArgs rejects positional arguments as a usage error
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unexpected argument %q", args[0])
	}
	return nil
}

// exactArgs requires n positional arguments named in names
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return usagef("expected %d argument(s): <%s>", len(names), strings.Join(names, "> <"))
		}
		return nil
	}
}
