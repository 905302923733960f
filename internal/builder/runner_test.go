package builder

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunner_Run(t *testing.T) {
	sh := requireShell(t)

	t.Run("collects output and exit code", func(t *testing.T) {
		result, err := ExecRunner{}.Run(context.Background(), Command{
			Path: sh,
			Args: []string{"-c", "echo one; echo two; echo oops 1>&2; exit 3"},
		})
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", result.Stdout)
		assert.Equal(t, "oops\n", result.Stderr)
		assert.Equal(t, 3, result.ExitCode)
		assert.Equal(t, sh, result.Command[0])
	})

	t.Run("streams lines to callbacks", func(t *testing.T) {
		var mu sync.Mutex
		var out, errLines []string

		result, err := ExecRunner{}.Run(context.Background(), Command{
			Path: sh,
			Args: []string{"-c", "printf 'a\\nb\\nc'; printf 'x\\n' 1>&2"},
			OnStdout: func(line string) {
				mu.Lock()
				out = append(out, line)
				mu.Unlock()
			},
			OnStderr: func(line string) {
				mu.Lock()
				errLines = append(errLines, line)
				mu.Unlock()
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, []string{"a\n", "b\n", "c"}, out)
		assert.Equal(t, []string{"x\n"}, errLines)
		assert.Equal(t, strings.Join(out, ""), result.Stdout)
	})

	t.Run("missing executable", func(t *testing.T) {
		_, err := ExecRunner{}.Run(context.Background(), Command{Path: "/nonexistent/TreeFileBuilder"})
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ExecRunner{}.Run(ctx, Command{Path: sh, Args: []string{"-c", "sleep 5"}})
		assert.Error(t, err)
	})
}
