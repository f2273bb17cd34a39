// Package generator writes the BsonSchema accessors of scanned packages as Go
// source files.
package generator

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	magnettypes "github.com/pablor21/magnet/types"
	"github.com/pablor21/magnet/utils"
)

// RuntimePath is the import path of the runtime registry used by generated code.
const RuntimePath = "github.com/pablor21/magnet/bsonschema"

// DefaultSuffix is appended to the package name to form the output file name.
const DefaultSuffix = "_bsonschema.go"

//go:embed templates/schema.go.tmpl
var templatesFS embed.FS

var fileTemplate = template.Must(
	template.New("schema.go.tmpl").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templatesFS, "templates/schema.go.tmpl"),
)

// GeneratedFile represents a single generated output file
type GeneratedFile struct {
	// Path is where the file is written, next to the package sources
	Path string

	// Content is the formatted file content
	Content []byte

	// Metadata holds additional information about the file
	Metadata map[string]any
}

// Generator renders ProcessResults.
type Generator struct {
	ctx    *magnettypes.ProcessContext
	suffix string
}

func New(ctx *magnettypes.ProcessContext) *Generator {
	suffix := ctx.Config.Output.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Generator{ctx: ctx, suffix: suffix}
}

type fileData struct {
	Package     string
	Names       []string
	Types       []typeData
	Registered  []typeData
	RuntimePath string
	RuntimeName string
}

type typeData struct {
	Name    string
	Func    bool // no methods allowed, emit <Name>BsonSchema instead
	Literal string
}

// Generate renders one file per package. Any derivation error aborts
// generation.
func (g *Generator) Generate(ctx context.Context, pr *magnettypes.ProcessResult) ([]*GeneratedFile, error) {
	if err := pr.Err(); err != nil {
		return nil, fmt.Errorf("schema derivation failed: %w", err)
	}

	var groups []magnettypes.PackageSchemas
	for _, pkg := range pr.ByPackage() {
		if !utils.InModule(pkg.Package.PkgPath, g.ctx.ModulePath) {
			g.ctx.Logger.Warn("skipping package outside the main module", "package", pkg.Package.PkgPath, "module", g.ctx.ModulePath)
			continue
		}
		groups = append(groups, pkg)
	}
	files := make([]*GeneratedFile, len(groups))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range groups {
		group.Go(func() error {
			f, err := g.renderPackage(pkg)
			if err != nil {
				return fmt.Errorf("failed to generate package %s: %w", pkg.Package.PkgPath, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := files[:0]
	for _, f := range files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func (g *Generator) renderPackage(pkg magnettypes.PackageSchemas) (*GeneratedFile, error) {
	data := fileData{
		Package:     pkg.Package.Name,
		RuntimePath: RuntimePath,
		RuntimeName: filepath.Base(RuntimePath),
	}
	dir := ""
	for _, s := range pkg.Schemas {
		pos := s.Type.Position()
		if strings.HasSuffix(pos.Filename, "_test.go") {
			g.ctx.Logger.Warn("types declared in test files are not generated", "type", s.Type.CanonicalName)
			continue
		}
		if dir == "" {
			dir = filepath.Dir(pos.Filename)
		}
		lit, err := Literal(s.Schema)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Type.Name, err)
		}
		td := typeData{Name: s.Type.Name, Func: !canHaveMethods(s.Type), Literal: lit}
		data.Names = append(data.Names, td.Name)
		data.Types = append(data.Types, td)
		if td.Func {
			data.Registered = append(data.Registered, td)
		}
	}
	if len(data.Types) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	path := filepath.Join(dir, pkg.Package.Name+g.suffix)
	src, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w\n%s", err, buf.String())
	}
	return &GeneratedFile{
		Path:    path,
		Content: src,
		Metadata: map[string]any{
			"package": pkg.Package.PkgPath,
			"types":   data.Names,
		},
	}, nil
}

// canHaveMethods reports whether Go allows declaring BsonSchema on the type.
func canHaveMethods(ti *magnettypes.TypeInfo) bool {
	switch ti.Object.Type().Underlying().(type) {
	case *types.Interface, *types.Pointer:
		return false
	}
	return true
}

// Write stores the files, or only logs them in dry-run mode.
func (g *Generator) Write(files []*GeneratedFile) error {
	for _, f := range files {
		if g.ctx.Config.Output.DryRun {
			g.ctx.Logger.Info("would write", "file", f.Path, "bytes", len(f.Content))
			continue
		}
		if err := utils.EnsureDir(filepath.Dir(f.Path)); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		g.ctx.Logger.Info("generated", "file", f.Path, "types", len(f.Metadata["types"].([]string)))
	}
	return nil
}
