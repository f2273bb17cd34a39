package types

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	gotypes "go/types"
	"testing"

	"github.com/pablor21/magnet/config"
	"github.com/pablor21/magnet/logger"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/tools/go/packages"
)

const testPkgPath = "example.com/models"

// loadSource type-checks src as a single file package, the way go/packages
// would load it.
func loadSource(t *testing.T, src string) *packages.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "models.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &gotypes.Info{
		Types: map[ast.Expr]gotypes.TypeAndValue{},
		Defs:  map[*ast.Ident]gotypes.Object{},
		Uses:  map[*ast.Ident]gotypes.Object{},
	}
	conf := gotypes.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	tpkg, err := conf.Check(testPkgPath, fset, []*ast.File{file}, info)
	require.NoError(t, err)

	return &packages.Package{
		ID:        testPkgPath,
		Name:      tpkg.Name(),
		PkgPath:   testPkgPath,
		Fset:      fset,
		Syntax:    []*ast.File{file},
		Types:     tpkg,
		TypesInfo: info,
	}
}

func testContext(cfg *config.Config, log logger.Logger) *ProcessContext {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return NewProcessContext(cfg, log)
}

// process scans and derives src.
func process(t *testing.T, ctx *ProcessContext, src string) *ProcessResult {
	t.Helper()
	pr := NewParseResult()
	require.NoError(t, pr.ParsePackage(ctx, loadSource(t, src)))
	pr.Derive(ctx)
	return pr
}

func schemaOf(t *testing.T, pr *ProcessResult, name string) *SchemaResult {
	t.Helper()
	for _, s := range pr.Schemas {
		if s.Type.Name == name {
			return s
		}
	}
	require.Failf(t, "missing schema", "no result for %s", name)
	return nil
}

func object(required bson.A, props bson.D) bson.D {
	return bson.D{
		{Key: "type", Value: "object"},
		{Key: "additionalProperties", Value: false},
		{Key: "required", Value: required},
		{Key: "properties", Value: props},
	}
}

func enumOf(v string) bson.D {
	return bson.D{{Key: "enum", Value: bson.A{v}}}
}
