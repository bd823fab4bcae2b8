// Command astgen generates the Kind name table of the ast package.
//
// It loads the package in the working directory, finds the constants of type
// Kind and writes an init function that registers their names:
//
//	//go:generate go run github.com/Doctusoft/lombok-ds/internal/cmd/astgen -o kind_string.go
package main

import (
	"flag"
	"fmt"
	"go/types"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jhump/gopoet"
	"golang.org/x/tools/go/packages"

	"github.com/Doctusoft/lombok-ds/logger"
)

const kindType = "Kind"

func main() {
	output := flag.String("o", "kind_string.go", "Output file")
	flag.Parse()
	pattern := "."
	if flag.NArg() > 0 {
		pattern = flag.Arg(0)
	}
	if err := logger.Initialize(false, logger.VerbosityToLevel(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(pattern, *output); err != nil {
		logger.Logger.Errorw("generation failed", logger.FieldError, err)
		os.Exit(1)
	}
}

func run(pattern, output string) error {
	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName | packages.NeedTypes}, pattern)
	if err != nil {
		return errors.Wrap(err, "loading package")
	}
	if len(pkgs) != 1 {
		return errors.Newf("pattern %q matched %d packages, want 1", pattern, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return errors.Wrapf(pkg.Errors[0], "loading %s", pkg.PkgPath)
	}
	names, err := kindConstants(pkg.Types)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	defer out.Close()
	if err := generate(out, pkg.PkgPath, pkg.Name, names); err != nil {
		return err
	}
	logger.Logger.Infow("generated kind names", logger.FieldFile, output, "kinds", len(names))
	return out.Close()
}

// kindConstants returns the names of the package-level constants of type
// Kind in pkg, sorted.
func kindConstants(pkg *types.Package) ([]string, error) {
	obj := pkg.Scope().Lookup(kindType)
	if obj == nil {
		return nil, errors.Newf("%s has no type %s", pkg.Path(), kindType)
	}
	kind := obj.Type()
	var names []string
	for _, n := range pkg.Scope().Names() {
		c, ok := pkg.Scope().Lookup(n).(*types.Const)
		if ok && types.Identical(c.Type(), kind) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, errors.Newf("%s declares no %s constants", pkg.Path(), kindType)
	}
	sort.Strings(names)
	return names, nil
}

// generate writes a file that registers the name of each constant in
// kindNames. A constant's name is its identifier without the Kind prefix.
func generate(w io.Writer, pkgPath, pkgName string, names []string) error {
	file := gopoet.NewGoFile("kind_string.go", pkgPath, pkgName)
	initFunc := gopoet.NewFunc("init")
	for _, n := range names {
		initFunc.Printlnf("kindNames[%s] = %q", n, strings.TrimPrefix(n, kindType))
	}
	file.AddElement(initFunc)

	if _, err := fmt.Fprint(w, "// Code generated by astgen. DO NOT EDIT.\n\n"); err != nil {
		return err
	}
	return gopoet.WriteGoFile(w, file)
}
