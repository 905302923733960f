package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/treefile-go/internal/style"
)

func CreateBuilderForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Builder Path").
				Description("TreeFileBuilder executable (leave empty to search PATH)").
				Value(&values.BuilderPath).
				Placeholder("/opt/tools/TreeFileBuilder"),

			huh.NewInput().
				Key("extra_args").
				Title("Extra Arguments").
				Description("Shell-quoted arguments appended to every build").
				Value(&values.ExtraArgs).
				Placeholder(`--tag "nightly build"`).
				Validate(ValidateShellArgs),

			huh.NewInput().
				Key("probe_timeout").
				Title("Probe Timeout").
				Description("Timeout for capability detection (e.g., 10s)").
				Value(&values.ProbeTimeout).
				Placeholder("10s").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("workers").
				Title("Workers").
				Description("Concurrent archive builds during generate (1-8)").
				Value(&values.Workers).
				Placeholder("1").
				Validate(ValidateIntRange(1, 8)),
		),
	)
}

func CreateResolverForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("allow_overrides").
				Title("Allow Overrides").
				Description("Let later folders replace files from earlier ones").
				Value(&values.AllowOverrides),

			huh.NewText().
				Key("exclude").
				Title("Exclude Patterns").
				Description("One gitignore-style pattern per line").
				Value(&values.ExcludePatterns).
				Validate(ValidateExcludePatterns),
		),
	)
}

func CreateOutputForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("directory").
				Title("Output Directory").
				Description("Default directory for generated archives").
				Value(&values.OutputDirectory).
				Placeholder("./dist"),

			huh.NewInput().
				Key("base_name").
				Title("Base Name").
				Description("Archive file name without extension").
				Value(&values.BaseName).
				Placeholder("data").
				Validate(ValidateRequired),

			huh.NewConfirm().
				Key("compress").
				Title("Compress Response Files").
				Description("Also write a zstd copy of every response file").
				Value(&values.Compress),
		),
	)
}

func CreateCacheForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("enabled").
				Title("Enable Cache").
				Description("Remember detected builder capabilities between runs").
				Value(&values.CacheEnabled),

			huh.NewInput().
				Key("ttl").
				Title("Cache TTL").
				Description("How long detected capabilities stay valid (e.g., 24h, 168h)").
				Value(&values.CacheTTL).
				Placeholder("168h").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("directory").
				Title("Cache Directory").
				Description("Directory for cache storage").
				Value(&values.CacheDirectory).
				Placeholder("~/.treefile/cache"),
		),
	)
}

func CreateLoggingForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("level").
				Title("Log Level").
				Description("Minimum log level to display").
				Options(
					huh.NewOption("Trace", "trace"),
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&values.LogLevel).
				Validate(ValidateLogLevel),

			huh.NewSelect[string]().
				Key("format").
				Title("Log Format").
				Description("Output format for logs").
				Options(
					huh.NewOption("Pretty (human-readable)", "pretty"),
					huh.NewOption("JSON (structured)", "json"),
				).
				Value(&values.LogFormat).
				Validate(ValidateLogFormat),
		),
	)
}

func CreateDisplayForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("max_entries").
				Title("Max Entries").
				Description("Files shown in the index tree before truncating").
				Value(&values.MaxEntries).
				Placeholder("5000").
				Validate(ValidatePositiveInt),
		),
	)
}

func GetFormForCategory(category string, values *ConfigValues) *huh.Form {
	switch category {
	case "builder":
		return CreateBuilderForm(values)
	case "resolver":
		return CreateResolverForm(values)
	case "output":
		return CreateOutputForm(values)
	case "cache":
		return CreateCacheForm(values)
	case "logging":
		return CreateLoggingForm(values)
	case "display":
		return CreateDisplayForm(values)
	default:
		return nil
	}
}

// formTheme tints the charm theme with the shared palette. Screen readers get
// the undecorated base theme.
func formTheme(accessible bool) *huh.Theme {
	if accessible {
		return huh.ThemeBase()
	}
	t := huh.ThemeCharm()
	t.Focused.Title = t.Focused.Title.Foreground(style.Accent)
	t.Focused.Description = t.Focused.Description.Foreground(style.Muted)
	return t
}
