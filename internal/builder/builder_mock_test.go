package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/treefile-go/internal/builder"
	"github.com/quantmind-br/treefile-go/internal/builder/mocks"
	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func writeExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TreeFileBuilder")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0755))
	return path
}

func helpCall(m *mocks.MockRunner, help string) *gomock.Call {
	return m.EXPECT().
		Run(gomock.Any(), gomock.Cond(func(x any) bool {
			cmd, ok := x.(builder.Command)
			return ok && len(cmd.Args) == 1 && cmd.Args[0] == "--help"
		})).
		Return(&builder.Result{Stdout: help}, nil)
}

func TestBuilder_WithMockRunner(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	exe := writeExecutable(t)

	helpCall(runner, "TreeFileBuilder version 2.0.0").Times(1)

	b, err := builder.New(context.Background(), builder.Options{Executable: exe, Runner: runner})
	require.NoError(t, err)
	assert.Equal(t, builder.AllCapabilities(), b.Capabilities())

	out := filepath.Join(t.TempDir(), "secure.tres")
	var streamed []string

	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cmd builder.Command) (*builder.Result, error) {
			assert.Equal(t, exe, cmd.Path)
			assert.Equal(t, []string{"--encrypt", "--passphrase", "s3cret", out}, cmd.Args[1:])
			cmd.OnStdout("packing 3 files\n")
			return &builder.Result{Command: cmd.Argv(), Stdout: "packing 3 files\n"}, nil
		})

	result, err := b.Build(context.Background(), "treebuilder.rsp", out, builder.BuildOptions{
		ForceEncrypt: true,
		Passphrase:   "s3cret",
		OnStdout:     func(line string) { streamed = append(streamed, line) },
	})
	require.NoError(t, err)
	assert.Equal(t, out, result.Output)
	assert.Equal(t, []string{"packing 3 files\n"}, streamed)
}

func TestBuilder_MockRunnerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)

	helpCall(runner, "version 2.0.0")
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(&builder.Result{ExitCode: 1, Stderr: "cannot open response file\n"}, nil)

	b, err := builder.New(context.Background(), builder.Options{Executable: writeExecutable(t), Runner: runner})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), "missing.rsp", filepath.Join(t.TempDir(), "x.tre"), builder.BuildOptions{})
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
}
