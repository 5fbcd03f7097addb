package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pokemonCSV = `Name,Type 1,Attack,Speed
Bulbasaur,Grass,49,45
Ivysaur,Grass,,60
Charmander,Fire,52,
Squirtle,Water,48,43
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Pokemons.csv")
	require.NoError(t, os.WriteFile(path, []byte(pokemonCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_DIR", filepath.Join(t.TempDir(), "objects"))
	t.Setenv("CHART_PATH", filepath.Join(t.TempDir(), "chart.png"))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescribeLocalFile(t *testing.T) {
	out, err := run(t, "--file", writeDataset(t), "describe")
	require.NoError(t, err)

	assert.Contains(t, out, "Attack")
	assert.Contains(t, out, "Speed")
	assert.Contains(t, out, "49.666667")
	assert.NotContains(t, out, "Type 1")
}

func TestMissingLocalFile(t *testing.T) {
	out, err := run(t, "--file", writeDataset(t), "missing")
	require.NoError(t, err)
	assert.Contains(t, out, "Missing Values")
	assert.Contains(t, out, "Type 1")
}

func TestCleanDropsSparseColumns(t *testing.T) {
	out, err := run(t, "--file", writeDataset(t), "clean", "--fill-method", "mode", "--drop-threshold", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Columns: 4 -> 2 (min required 4 of 4 rows)")
	assert.Contains(t, out, "No numeric columns.")
}

func TestCleanRejectsBadThreshold(t *testing.T) {
	_, err := run(t, "--file", writeDataset(t), "clean", "--drop-threshold", "150")
	assert.Error(t, err)
}

func TestPlotScatterMissingColumn(t *testing.T) {
	out, err := run(t, "--file", writeDataset(t), "plot", "--type", "scatter_plot", "-x", "Speed", "-y", "NotAColumn")
	require.NoError(t, err)
	assert.Equal(t, "Selected columns do not exist in the dataset.\n", out)
}

func TestPlotWritesPNGAndHTML(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "heatmap.png")
	out, err := run(t, "--file", writeDataset(t), "plot", "--type", "heatmap", "--output", png)
	require.NoError(t, err)
	assert.Contains(t, out, "Correlation Heatmap written to "+png)
	assert.FileExists(t, png)

	html := filepath.Join(dir, "bar.html")
	_, err = run(t, "--file", writeDataset(t), "plot", "--type", "bar_chart", "-x", "Type 1", "--html", html)
	require.NoError(t, err)
	assert.FileExists(t, html)
}

func TestUploadThenDescribeFromStore(t *testing.T) {
	t.Setenv("STORAGE_DIR", filepath.Join(t.TempDir(), "objects"))
	src := writeDataset(t)

	for _, args := range [][]string{{"upload", src}, {"describe"}} {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute(), args)
		if args[0] == "describe" {
			assert.Contains(t, out.String(), "Speed")
		}
	}
}
