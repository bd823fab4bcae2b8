// Package corpora runs table-driven tests whose table lives in the file
// system: every source file under a root directory is a case, and its
// expected outputs sit next to it in files named after it.
package corpora

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Corpus describes a directory of test cases.
type Corpus struct {
	// Root is the directory holding the cases, relative to the directory of
	// the test file that calls Run.
	Root string
	// Refresh names an environment variable holding a glob. Cases whose
	// path, relative to the test directory, matches it have their expected
	// outputs rewritten instead of compared.
	Refresh string
	// Extension of the files that define cases, without the dot.
	Extension string
	// Outputs are the outputs of each case. The expected value of output i
	// for case "x.java" is the content of "x.java.<Outputs[i].Extension>",
	// or "" if that file does not exist.
	Outputs []Output
	// Test runs one case and returns one string per element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one output of a case.
type Output struct {
	Extension string
	// Compare defaults to an exact comparison.
	Compare Compare
}

// Compare returns "" if got matches want, and a description of the
// difference otherwise.
type Compare func(got, want string) string

// Run runs every case of the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("corpora: walking %s: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no *.%s cases under %s", c.Extension, root)
	}
	sort.Strings(cases)

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: %s=%q is not a valid glob", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// a refreshed corpus must be reviewed before the test can pass
		t.Logf("corpora: refreshing cases matching %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range cases {
		name, _ := filepath.Rel(testDir, path)
		t.Run(filepath.ToSlash(name), func(t *testing.T) {
			text, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: reading case: %v", err)
			}
			results := c.Test(t, path, string(text))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}
			rewrite := refresh != "" && matches(refresh, filepath.ToSlash(name))
			for i, out := range c.Outputs {
				file := path + "." + out.Extension
				if rewrite {
					if err := writeOutput(file, results[i]); err != nil {
						t.Errorf("corpora: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(file)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: reading %s: %v", file, err)
					continue
				}
				cmp := out.Compare
				if cmp == nil {
					cmp = Exact
				}
				if diff := cmp(results[i], string(want)); diff != "" {
					t.Errorf("output mismatch for %s:\n%s", filepath.Base(file), diff)
				}
			}
		})
	}
}

func matches(pattern, name string) bool {
	ok, _ := doublestar.Match(pattern, name)
	return ok
}

// writeOutput stores an expected output, removing the file when it is
// empty.
func writeOutput(file, content string) error {
	if content == "" {
		if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(err, "removing %s", file)
		}
		return nil
	}
	return errors.Wrapf(os.WriteFile(file, []byte(content), 0o644), "writing %s", file)
}

// Exact compares byte for byte and describes a mismatch as a colored
// unified diff.
func Exact(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+"):
			lines[i] = "\033[1;92m" + l + "\033[0m"
		case strings.HasPrefix(l, "-"):
			lines[i] = "\033[1;91m" + l + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

// ReadOptions decodes the YAML file next to the case at path, named
// "<path>.yaml", into v. It leaves v alone and returns nil if there is no
// such file. Unknown keys are errors.
func ReadOptions(path string, v any) error {
	b, err := os.ReadFile(path + ".yaml")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "reading options")
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %s.yaml", filepath.Base(path))
	}
	return nil
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the test file's directory")
	}
	return filepath.Dir(file)
}
