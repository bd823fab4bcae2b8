package main

import (
	"bytes"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindConstants(t *testing.T) {
	pkg := types.NewPackage("example.com/ast", "ast")
	kind := types.NewNamed(types.NewTypeName(0, pkg, kindType, nil), types.Typ[types.Int], nil)
	pkg.Scope().Insert(kind.Obj())
	for _, n := range []string{"KindWhile", "KindBlock"} {
		pkg.Scope().Insert(types.NewConst(0, pkg, n, kind, nil))
	}
	pkg.Scope().Insert(types.NewConst(0, pkg, "maxDepth", types.Typ[types.Int], nil))

	names, err := kindConstants(pkg)
	require.NoError(t, err)
	assert.Equal(t, []string{"KindBlock", "KindWhile"}, names)

	_, err = kindConstants(types.NewPackage("example.com/empty", "empty"))
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, generate(&buf, "example.com/ast", "ast", []string{"KindBlock", "KindWhile"}))
	out := buf.String()
	assert.Regexp(t, `^// Code generated by astgen\. DO NOT EDIT\.\n`, out)
	assert.Contains(t, out, "package ast")
	assert.Contains(t, out, `kindNames[KindBlock] = "Block"`)
	assert.Contains(t, out, `kindNames[KindWhile] = "While"`)
}
