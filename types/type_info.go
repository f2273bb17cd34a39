package types

import (
	"go/ast"
	"go/token"
	gotypes "go/types"

	"github.com/pablor21/magnet/annotations"
	"github.com/pablor21/magnet/utils"
	"golang.org/x/tools/go/packages"
)

type TypeKind string

const (
	TypeKindStruct    TypeKind = "struct"
	TypeKindInterface TypeKind = "interface"
	TypeKindDefined   TypeKind = "defined" // type X <non-struct type>
	TypeKindAlias     TypeKind = "alias"
)

// TypeInfo is one named type declared in a scanned package.
type TypeInfo struct {
	Package       *packages.Package
	File          *ast.File
	GenDecl       *ast.GenDecl
	TypeSpec      *ast.TypeSpec
	Object        *gotypes.TypeName
	Kind          TypeKind
	Name          string
	PkgName       string
	PkgPath       string
	CanonicalName string // PkgPath + "." + Name
	Comment       string // doc comment text without annotations
	IsGeneric     bool
	Annotations   []annotations.Annotation
}

// NewTypeInfoFromAst builds the TypeInfo of spec. It returns nil when the
// type checker has no object for it.
func NewTypeInfoFromAst(spec *ast.TypeSpec, genDecl *ast.GenDecl, file *ast.File, pkg *packages.Package) *TypeInfo {
	obj, ok := pkg.TypesInfo.Defs[spec.Name].(*gotypes.TypeName)
	if !ok || obj == nil {
		return nil
	}

	// a lone spec carries its doc on the GenDecl
	comments := []*ast.CommentGroup{spec.Doc, spec.Comment}
	if spec.Doc == nil && len(genDecl.Specs) == 1 {
		comments = []*ast.CommentGroup{genDecl.Doc, spec.Comment}
	}

	ti := &TypeInfo{
		Package:       pkg,
		File:          file,
		GenDecl:       genDecl,
		TypeSpec:      spec,
		Object:        obj,
		Name:          spec.Name.Name,
		PkgName:       pkg.Name,
		PkgPath:       utils.GetPackageFullPath(pkg),
		CanonicalName: utils.QualifiedName(obj),
		Comment:       utils.ExtractCommentText(comments),
		IsGeneric:     spec.TypeParams != nil && len(spec.TypeParams.List) > 0,
		Annotations:   annotations.ParseAnnotations(comments),
	}

	switch {
	case spec.Assign.IsValid():
		ti.Kind = TypeKindAlias
	case isStructLit(spec.Type):
		ti.Kind = TypeKindStruct
	case isInterfaceLit(spec.Type):
		ti.Kind = TypeKindInterface
	default:
		ti.Kind = TypeKindDefined
	}
	return ti
}

func isStructLit(e ast.Expr) bool {
	_, ok := e.(*ast.StructType)
	return ok
}

func isInterfaceLit(e ast.Expr) bool {
	_, ok := e.(*ast.InterfaceType)
	return ok
}

// Opted reports whether the type carries the @BsonSchema marker.
func (ti *TypeInfo) Opted() bool {
	return annotations.Has(ti.Annotations, annotations.MarkerName)
}

// Position is where the type name is declared.
func (ti *TypeInfo) Position() token.Position {
	if ti.Package == nil || ti.Package.Fset == nil {
		return token.Position{}
	}
	return ti.Package.Fset.Position(ti.TypeSpec.Name.Pos())
}

// ValidOn is the annotation site of the type.
func (ti *TypeInfo) ValidOn() annotations.AnnotationValidOn {
	switch ti.Kind {
	case TypeKindStruct:
		return annotations.AnnotationValidOnStruct
	case TypeKindInterface:
		return annotations.AnnotationValidOnInterface
	default:
		return annotations.AnnotationValidOnType
	}
}
