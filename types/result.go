package types

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/pablor21/magnet/annotations"
	"github.com/pablor21/magnet/schema"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/tools/go/packages"
)

// ProcessResult holds the scanned types and the schemas derived from them.
type ProcessResult struct {
	Elements map[string]*TypeInfo // keyed by CanonicalName
	Schemas  []*SchemaResult      // one per @BsonSchema type, in scan order

	order   []*TypeInfo
	checked map[string]bool // annotation sites already checked
}

// SchemaResult is the outcome of deriving one annotated type.
type SchemaResult struct {
	Type        *TypeInfo
	Declaration schema.Declaration
	Schema      bson.D
	Err         error
}

func NewParseResult() *ProcessResult {
	return &ProcessResult{
		Elements: make(map[string]*TypeInfo),
	}
}

// ParsePackage indexes the named types of pkg.
func (pr *ProcessResult) ParsePackage(ctx *ProcessContext, pkg *packages.Package) error {
	if pkg.TypesInfo == nil {
		return fmt.Errorf("package %s was loaded without type information", pkg.PkgPath)
	}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			d, ok := decl.(*ast.GenDecl)
			if !ok || d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				if s, ok := spec.(*ast.TypeSpec); ok {
					pr.AddTypeSpec(ctx, s, d, file, pkg)
				}
			}
		}
	}
	return nil
}

// AddTypeSpec indexes one type declaration. It reports whether it was added.
func (pr *ProcessResult) AddTypeSpec(ctx *ProcessContext, spec *ast.TypeSpec, genDecl *ast.GenDecl, file *ast.File, pkg *packages.Package) bool {
	ti := NewTypeInfoFromAst(spec, genDecl, file, pkg)
	if ti == nil {
		return false
	}
	if _, exists := pr.Elements[ti.CanonicalName]; exists {
		// test variants of a package declare the same types again
		return false
	}
	pr.Elements[ti.CanonicalName] = ti
	pr.order = append(pr.order, ti)

	if ti.Opted() {
		pr.checkAnnotations(ctx, ti.Annotations, ti.ValidOn(), ti.Position())
	}
	return true
}

// checkAnnotations logs the problems of the magnet and bson annotations in
// anns, once per site.
func (pr *ProcessResult) checkAnnotations(ctx *ProcessContext, anns []annotations.Annotation, on annotations.AnnotationValidOn, pos token.Position) {
	if ctx == nil || ctx.Config == nil || !ctx.Config.Schema.CheckAnnotations || len(anns) == 0 {
		return
	}
	if pr.checked == nil {
		pr.checked = map[string]bool{}
	}
	if pr.checked[pos.String()] {
		return
	}
	pr.checked[pos.String()] = true
	defs := annotations.GetDefinitions()
	for _, ann := range anns {
		spec := defs.GetAnnotationSpecByName(ann.Name)
		if spec == nil {
			continue
		}
		for _, problem := range spec.Check(ann, on) {
			ctx.Logger.Warn(problem, "annotation", ann.RawText, "at", pos.String())
		}
	}
}

// Types returns the indexed types in scan order.
func (pr *ProcessResult) Types() []*TypeInfo {
	return slices.Clone(pr.order)
}

// PackageTypes returns the types declared in pkgPath in declaration order.
func (pr *ProcessResult) PackageTypes(pkgPath string) []*TypeInfo {
	var out []*TypeInfo
	for _, ti := range pr.order {
		if ti.PkgPath == pkgPath {
			out = append(out, ti)
		}
	}
	return out
}

// Derive computes the schema of every @BsonSchema type. Failures are kept on
// the SchemaResult; use Err to collect them.
func (pr *ProcessResult) Derive(ctx *ProcessContext) {
	r := NewResolver(ctx, pr)
	pr.Schemas = pr.Schemas[:0]
	for _, ti := range pr.order {
		if !ti.Opted() {
			continue
		}
		if ti.Kind == TypeKindAlias {
			ctx.Logger.Warn("aliases cannot carry a BsonSchema, skipping", "type", ti.CanonicalName)
			continue
		}
		if ti.IsGeneric {
			ctx.Logger.Warn("generic types are not supported, skipping", "type", ti.CanonicalName)
			continue
		}

		res := &SchemaResult{Type: ti}
		res.Declaration, res.Err = r.Declaration(ti)
		if res.Err == nil {
			res.Schema, res.Err = r.derive(ti, res.Declaration)
		}
		if res.Err != nil {
			ctx.Logger.Error("failed to derive schema", "type", ti.CanonicalName, "at", ti.Position().String(), "error", res.Err)
		} else {
			ctx.Logger.Debug("derived schema", "type", ti.CanonicalName, "kind", res.Declaration.Kind.String())
		}
		pr.Schemas = append(pr.Schemas, res)
	}
}

// Err joins the derivation errors.
func (pr *ProcessResult) Err() error {
	var errs []error
	for _, s := range pr.Schemas {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Type.Position(), s.Err))
		}
	}
	return errors.Join(errs...)
}

// PackageSchemas groups the successful results of one package.
type PackageSchemas struct {
	Package *packages.Package
	Schemas []*SchemaResult
}

// ByPackage groups the derived schemas per package, sorted by package path.
func (pr *ProcessResult) ByPackage() []PackageSchemas {
	index := map[string]int{}
	var out []PackageSchemas
	for _, s := range pr.Schemas {
		if s.Err != nil {
			continue
		}
		i, ok := index[s.Type.PkgPath]
		if !ok {
			i = len(out)
			index[s.Type.PkgPath] = i
			out = append(out, PackageSchemas{Package: s.Type.Package})
		}
		out[i].Schemas = append(out[i].Schemas, s)
	}
	slices.SortFunc(out, func(a, b PackageSchemas) int {
		return strings.Compare(a.Package.PkgPath, b.Package.PkgPath)
	})
	return out
}
