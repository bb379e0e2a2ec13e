package accesslog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRotates(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2023, 6, 1, 23, 59, 0, 0, time.UTC)
	f := &File{
		Pattern: filepath.Join(dir, "logs", "access-20060102.log"),
		Now:     func() time.Time { return now },
	}

	fmt.Fprintln(f, "one")
	fmt.Fprintln(f, "two")
	now = now.Add(2 * time.Minute)
	fmt.Fprintln(f, "three")
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, "logs", "access-20230601.log"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "logs", "access-20230602.log"))
	require.NoError(t, err)
	assert.Equal(t, "three\n", string(data))
}

func TestFileAppends(t *testing.T) {
	name := filepath.Join(t.TempDir(), "access.log")
	require.NoError(t, os.WriteFile(name, []byte("old\n"), 0o644))

	f := &File{Pattern: name}
	_, err := f.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestFileBadDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "logs")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	f := &File{Pattern: filepath.Join(blocker, "access.log")}
	_, err := f.Write([]byte("line\n"))
	assert.Error(t, err)
	assert.NoError(t, f.Close())
}
