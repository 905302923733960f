package builder

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/utils"
)

// EnvExecutablePath names the environment variable holding the builder path
const EnvExecutablePath = "TREEFILEBUILDER_PATH"

// DefaultExecutableNames are searched on PATH and next to the running binary
var DefaultExecutableNames = []string{"TreeFileBuilder", "TreeFileBuilder.exe"}

// Locate resolves the builder executable. An explicit override must exist.
// Otherwise TREEFILEBUILDER_PATH, PATH and the directory of the running
// binary are tried in that order.
func Locate(override string) (string, error) {
	if override != "" {
		path, ok := existing(override)
		if !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrBuilderNotFound, utils.ExpandPath(override))
		}
		return path, nil
	}

	if env := os.Getenv(EnvExecutablePath); env != "" {
		if path, ok := existing(env); ok {
			return path, nil
		}
	}

	for _, name := range DefaultExecutableNames {
		if found, err := exec.LookPath(name); err == nil {
			if path, ok := existing(found); ok {
				return path, nil
			}
		}
	}

	if self, err := os.Executable(); err == nil {
		dir := filepath.Dir(self)
		for _, name := range DefaultExecutableNames {
			if path, ok := existing(filepath.Join(dir, name)); ok {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%w: set %s or provide --builder", domain.ErrBuilderNotFound, EnvExecutablePath)
}

func existing(path string) (string, bool) {
	abs, err := utils.AbsPath(path)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}
