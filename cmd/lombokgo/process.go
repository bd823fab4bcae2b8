package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Doctusoft/lombok-ds/javac"
	"github.com/Doctusoft/lombok-ds/logger"
	"github.com/Doctusoft/lombok-ds/parser"
	"github.com/Doctusoft/lombok-ds/processor"
)

type processOptions struct {
	write      bool
	diff       bool
	watch      bool
	jobs       int
	configFile string
}

func newProcessCmd() *cobra.Command {
	var opts processOptions
	cmd := &cobra.Command{
		Use:   "process [flags] <file|dir|glob>...",
		Short: "Run the handlers over Java sources",
		Long: `Run the handlers over Java sources.

Arguments are files, directories (searched for *.java recursively) or
doublestar globs such as 'src/**/*.java'. By default the transformed sources
are printed; --write replaces the files and --diff prints unified diffs.
Files with errors are left alone, and the command fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			r := &runner{cfg: cfg, opts: opts, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), multi: len(files) > 1}
			failed, err := r.run(cmd.Context(), files)
			if err != nil {
				return err
			}
			if opts.watch {
				return r.watch(cmd.Context(), args)
			}
			if failed > 0 {
				return errors.Newf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "Write the transformed sources back to their files")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "Print unified diffs instead of the transformed sources")
	flags.BoolVar(&opts.watch, "watch", false, "Keep running and process files again when they change")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Number of files processed concurrently")
	flags.StringVar(&opts.configFile, "config", "", "Configuration file (default: "+configName+" in the working directory or a parent)")
	flags.StringSlice("enable", nil, "Run only these handlers")
	flags.StringSlice("disable", nil, "Never run these handlers")
	flags.Int("release", 0, "Host release, 6 or 7")
	flags.Bool("warnings-as-errors", false, "Fail on warnings")
	cmd.MarkFlagsMutuallyExclusive("write", "diff")
	return cmd
}

// expandInputs turns the arguments into a sorted list of distinct files.
func expandInputs(args []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, arg := range args {
		pattern := arg
		if fi, err := os.Stat(arg); err == nil {
			if !fi.IsDir() {
				add(arg)
				continue
			}
			pattern = filepath.Join(arg, "**", "*.java")
		} else if !strings.ContainsAny(arg, "*?[{") {
			return nil, errors.Wrapf(err, "reading %s", arg)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %q", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}
	if len(files) == 0 {
		return nil, errors.WithHint(errors.Newf("no Java sources match %s", strings.Join(args, " ")),
			"quote globs such as 'src/**/*.java' so the shell does not expand them")
	}
	sort.Strings(files)
	return files, nil
}

// result is the outcome of processing one file.
type result struct {
	path   string
	before string
	after  string
	diags  *processor.Collector
	// err is set when the file could not be read or parsed.
	err error
}

func (r *result) failed() bool {
	return r.err != nil || r.diags.Err() != nil
}

// transformFile parses and processes one file.
func transformFile(path string, cfg processor.Config) *result {
	res := &result{path: path, diags: &processor.Collector{WarningsAsErrors: cfg.WarningsAsErrors}}
	src, err := os.ReadFile(path)
	if err != nil {
		res.err = errors.Wrap(err, "reading source")
		return res
	}
	res.before = string(src)
	cu, err := parser.Parse(path, strings.NewReader(res.before))
	if err != nil {
		res.err = err
		return res
	}
	u, err := javac.NewUnit(cu, cfg.Release)
	if err != nil {
		res.err = err
		return res
	}
	// failures are reported through the collector
	_ = processor.Process(u, cfg, res.diags)
	res.after = u.String()
	return res
}

type runner struct {
	cfg    processor.Config
	opts   processOptions
	out    io.Writer
	errOut io.Writer
	// multi is set when more than one file is printed.
	multi bool
}

// run processes files concurrently and reports the results in order. It
// returns the number of files that failed.
func (r *runner) run(ctx context.Context, files []string) (int, error) {
	results := make([]*result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.opts.jobs, 1))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = transformFile(f, r.cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	for _, res := range results {
		if err := r.report(res); err != nil {
			return failed, err
		}
		if res.failed() {
			failed++
		}
	}
	return failed, nil
}

// report prints the diagnostics of res and then its output, as selected by
// the options.
func (r *runner) report(res *result) error {
	if res.err != nil {
		fmt.Fprintf(r.errOut, "%s: %v\n", res.path, res.err)
		logger.Logger.Warnw("could not process file", logger.FieldFile, res.path, logger.FieldError, res.err)
		return nil
	}
	for _, d := range res.diags.Diagnostics() {
		fmt.Fprintln(r.errOut, d.Error())
	}
	logger.Logger.Infow("processed file", logger.FieldFile, res.path, logger.FieldDiagnostics, len(res.diags.Diagnostics()))
	if res.failed() {
		return nil
	}

	switch {
	case r.opts.write:
		if res.after == res.before {
			return nil
		}
		fi, err := os.Stat(res.path)
		if err != nil {
			return errors.Wrapf(err, "writing %s", res.path)
		}
		if err := os.WriteFile(res.path, []byte(res.after), fi.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "writing %s", res.path)
		}
		logger.Logger.Infow("rewrote file", logger.FieldFile, res.path)
	case r.opts.diff:
		diff, err := unifiedDiff(res.path, res.before, res.after)
		if err != nil {
			return err
		}
		fmt.Fprint(r.out, diff)
	default:
		if r.multi {
			fmt.Fprintf(r.out, "// %s\n", res.path)
		}
		fmt.Fprint(r.out, res.after)
		if !strings.HasSuffix(res.after, "\n") {
			fmt.Fprintln(r.out)
		}
	}
	return nil
}

// unifiedDiff returns the diff from before to after, "" if they are equal.
func unifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  3,
	})
	return diff, errors.Wrapf(err, "diffing %s", path)
}
