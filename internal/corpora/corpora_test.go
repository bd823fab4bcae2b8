package corpora

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExact(t *testing.T) {
	assert.Empty(t, Exact("a\nb\n", "a\nb\n"))
	diff := Exact("a\nc\n", "a\nb\n")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
}

func TestReadOptions(t *testing.T) {
	type options struct {
		Release  int      `yaml:"release"`
		Disabled []string `yaml:"disabled"`
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "a.java")

	opts := options{Release: 7}
	require.NoError(t, ReadOptions(path, &opts))
	assert.Equal(t, options{Release: 7}, opts)

	require.NoError(t, os.WriteFile(path+".yaml", []byte("release: 6\ndisabled: [Rethrow]\n"), 0o644))
	require.NoError(t, ReadOptions(path, &opts))
	assert.Equal(t, options{Release: 6, Disabled: []string{"Rethrow"}}, opts)

	require.NoError(t, os.WriteFile(path+".yaml", []byte("relase: 6\n"), 0o644))
	assert.Error(t, ReadOptions(path, &opts))
}

func TestWriteOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.java.out")
	require.NoError(t, writeOutput(file, "x\n"))
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(b))

	require.NoError(t, writeOutput(file, ""))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, writeOutput(file, ""))
}
