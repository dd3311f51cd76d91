package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "farmdash.db")

	got, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, path, got)

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "the file itself must not be created")
}

func TestEnsureParentDir_RelativeToWorkingDirectory(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	got, err := EnsureParentDir(filepath.Join("data", "farmdash.db"))
	require.NoError(t, err)

	want := filepath.Join(tmp, "data", "farmdash.db")
	wantResolved, _ := filepath.EvalSymlinks(filepath.Dir(want))
	gotResolved, _ := filepath.EvalSymlinks(filepath.Dir(got))
	require.Equal(t, wantResolved, gotResolved)
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x", "db")

	first, err := EnsureParentDir(path)
	require.NoError(t, err)
	second, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureParentDir_FailsIfFileBlocksDirectory(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "farmdash.db"))
	require.Error(t, err)
}
