package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Doctusoft/lombok-ds/internal/corpora"
	"github.com/Doctusoft/lombok-ds/javac"
	"github.com/Doctusoft/lombok-ds/parser"
	"github.com/Doctusoft/lombok-ds/processor"
)

// caseOptions are read from the optional <case>.java.yaml file.
type caseOptions struct {
	Enabled          []string `yaml:"enabled"`
	Disabled         []string `yaml:"disabled"`
	Release          int      `yaml:"release"`
	WarningsAsErrors bool     `yaml:"warnings-as-errors"`
}

// TestCorpus runs the handlers over testdata/corpus/*.java. The expected
// output of a case is in <case>.java.out, empty when processing fails, and
// its diagnostics in <case>.java.stderr. Run with
// LOMBOK_REFRESH='**' to rewrite the expected files.
func TestCorpus(t *testing.T) {
	corpora.Corpus{
		Root:      "testdata/corpus",
		Refresh:   "LOMBOK_REFRESH",
		Extension: "java",
		Outputs: []corpora.Output{
			{Extension: "out"},
			{Extension: "stderr"},
		},
		Test: func(t *testing.T, path, text string) []string {
			opts := caseOptions{Release: processor.DefaultConfig().Release}
			require.NoError(t, corpora.ReadOptions(path, &opts))
			cfg := processor.Config{
				Enabled:          opts.Enabled,
				Disabled:         opts.Disabled,
				Release:          opts.Release,
				WarningsAsErrors: opts.WarningsAsErrors,
			}
			require.NoError(t, cfg.Validate())

			cu, err := parser.Parse(filepath.Base(path), strings.NewReader(text))
			require.NoError(t, err)
			u, err := javac.NewUnit(cu, cfg.Release)
			require.NoError(t, err)
			diags := processor.Collector{WarningsAsErrors: cfg.WarningsAsErrors}
			_ = processor.Process(u, cfg, &diags)

			var stderr strings.Builder
			for _, d := range diags.Diagnostics() {
				fmt.Fprintf(&stderr, "%s: %v\n", d.Severity(), d.Underlying())
			}
			if diags.Err() != nil {
				return []string{"", stderr.String()}
			}
			return []string{u.String(), stderr.String()}
		},
	}.Run(t)
}
