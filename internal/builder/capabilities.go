package builder

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Capabilities lists the optional flags an executable accepts
type Capabilities struct {
	Passphrase bool `json:"passphrase"`
	Encrypt    bool `json:"encrypt"`
	NoEncrypt  bool `json:"no_encrypt"`
	Quiet      bool `json:"quiet"`
	DryRun     bool `json:"dry_run"`
}

// AllCapabilities returns a value with every option supported
func AllCapabilities() Capabilities {
	return Capabilities{
		Passphrase: true,
		Encrypt:    true,
		NoEncrypt:  true,
		Quiet:      true,
		DryRun:     true,
	}
}

// DetectionSource records how capabilities were determined
type DetectionSource string

const (
	SourceVersion DetectionSource = "version"
	SourceHelp    DetectionSource = "help"
	SourceAssumed DetectionSource = "assumed"
	SourceCache   DetectionSource = "cache"
)

// versionRule maps a minimum tool version to its capabilities
type versionRule struct {
	MinVersion   string
	Capabilities Capabilities
}

// versionTable is ordered from newest to oldest
var versionTable = []versionRule{
	{MinVersion: "v2.0.0", Capabilities: AllCapabilities()},
	{MinVersion: "v1.1.0", Capabilities: Capabilities{Quiet: true, DryRun: true}},
	{MinVersion: "v1.0.0", Capabilities: Capabilities{}},
}

var versionPattern = regexp.MustCompile(`(?i)version\s+v?(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts a semantic version ("v1.2.3") from help output
func ParseVersion(text string) (string, bool) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := semver.Canonical("v" + m[1])
	if v == "" {
		return "", false
	}
	return v, true
}

// CapabilitiesForVersion looks version up in the version table. Versions
// older than every entry support no optional flags.
func CapabilitiesForVersion(version string) (Capabilities, bool) {
	if !semver.IsValid(version) {
		return Capabilities{}, false
	}
	for _, rule := range versionTable {
		if semver.Compare(version, rule.MinVersion) >= 0 {
			return rule.Capabilities, true
		}
	}
	return Capabilities{}, true
}

// ProbeHelpText infers capabilities from option names mentioned in help
// output. Used only when no version can be parsed.
func ProbeHelpText(text string) Capabilities {
	help := strings.ToLower(text)
	supports := func(tokens ...string) bool {
		for _, tok := range tokens {
			if strings.Contains(help, tok) {
				return true
			}
		}
		return false
	}

	return Capabilities{
		Passphrase: supports("--passphrase", "-p <"),
		Encrypt:    supports("--encrypt", "-e"),
		NoEncrypt:  supports("--noencrypt", "-n"),
		Quiet:      supports("--quiet", "-q"),
		DryRun:     supports("--nocreate", "-c"),
	}
}

// DetectFromHelp determines capabilities from help output, preferring the
// version table over option probing
func DetectFromHelp(text string) (Capabilities, DetectionSource, string) {
	if version, ok := ParseVersion(text); ok {
		if caps, ok := CapabilitiesForVersion(version); ok {
			return caps, SourceVersion, version
		}
	}
	return ProbeHelpText(text), SourceHelp, ""
}
