// Package utils holds package loading and file helpers shared by the scanner
// and the generator.
package utils

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is what the scanner needs from go/packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// LoadOptions tunes LoadPackages.
type LoadOptions struct {
	Dir   string // working directory, defaults to the process one
	Tests bool   // include _test.go files
}

// EnsureDir makes sure a directory exists
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ExpandGlobs expands patterns including negations. Results are sorted.
// Example:
//
//	"./models/*.go", "!./models/*_test.go"
func ExpandGlobs(patterns ...string) ([]string, error) {
	include := []string{}
	exclude := []string{}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if after, ok := strings.CutPrefix(p, "!"); ok {
			exclude = append(exclude, after)
		} else {
			include = append(include, p)
		}
	}

	results := map[string]struct{}{}

	for _, pattern := range include {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			results[m] = struct{}{}
		}
	}

	for _, pattern := range exclude {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			delete(results, m)
		}
	}

	out := make([]string, 0, len(results))
	for k := range results {
		out = append(out, k)
	}
	slices.Sort(out)
	return out, nil
}

// UniqueDirs converts file paths to their sorted unique directories
func UniqueDirs(files []string) []string {
	dirs := map[string]struct{}{}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		dir := f
		if !info.IsDir() {
			dir = filepath.Dir(f)
		}
		dirs[dir] = struct{}{}
	}

	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// LoadPackages loads Go packages from import path patterns ("./...",
// "example.com/models") or file globs with exclusions.
func LoadPackages(opts LoadOptions, patterns ...string) ([]*packages.Package, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	targets := patterns
	if !allPatternsAreImportPaths(patterns) {
		files, err := ExpandGlobs(absPatterns(dir, patterns)...)
		if err != nil {
			return nil, err
		}
		targets = UniqueDirs(files)
		if len(targets) == 0 {
			return nil, fmt.Errorf("no directories found from patterns %v", patterns)
		}
	}

	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   dir,
		Tests: opts.Tests,
	}
	pkgs, err := packages.Load(cfg, targets...)
	if err != nil {
		return nil, err
	}
	return pkgs, PackageErrors(pkgs)
}

// allPatternsAreImportPaths checks if all patterns look like Go import paths
// or go tool patterns such as ./...
func allPatternsAreImportPaths(patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if strings.HasPrefix(pattern, "!") ||
			strings.HasSuffix(pattern, ".go") ||
			strings.Contains(pattern, "*") {
			return false
		}
	}
	return true
}

func absPatterns(dir string, patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		neg := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if neg {
			p = "!" + p
		}
		out[i] = p
	}
	return out
}

// PackageErrors joins the load and type errors of pkgs.
func PackageErrors(pkgs []*packages.Package) error {
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Errorf("%s: %s", pkg.PkgPath, e.Msg))
		}
	}
	return errors.Join(errs...)
}

// MainModule returns the path of the main module the packages were loaded
// from, or "" when they carry no module information.
func MainModule(pkgs []*packages.Package) string {
	for _, pkg := range pkgs {
		if pkg.Module != nil && pkg.Module.Main {
			return pkg.Module.Path
		}
	}
	return ""
}

// InModule reports whether pkgPath is modulePath or one of its packages. An
// empty modulePath contains every package.
func InModule(pkgPath, modulePath string) bool {
	if modulePath == "" {
		return true
	}
	return pkgPath == modulePath || strings.HasPrefix(pkgPath, modulePath+"/")
}

// GetPackageFullPath attempts to get the full import path for a package
// If pkg.PkgPath is empty or just the package name, it tries to construct it
func GetPackageFullPath(pkg *packages.Package) string {
	if pkg.PkgPath != "" && pkg.PkgPath != pkg.Name {
		return pkg.PkgPath
	}

	if pkg.Module != nil {
		for _, file := range pkg.GoFiles {
			relPath, err := filepath.Rel(pkg.Module.Dir, filepath.Dir(file))
			if err == nil && relPath != "." {
				return pkg.Module.Path + "/" + filepath.ToSlash(relPath)
			}
		}
		return pkg.Module.Path
	}

	return pkg.Name
}

// QualifiedName returns "<import path>.<name>" for a package level object and
// the bare name for universe objects.
func QualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// ExtractCommentText extracts plain text from comment groups, removing comment
// markers and annotation lines
func ExtractCommentText(commentGroups []*ast.CommentGroup) string {
	var parts []string
	for _, group := range commentGroups {
		if group == nil {
			continue
		}
		for _, comment := range group.List {
			text := comment.Text
			if strings.HasPrefix(text, "//") {
				text = strings.TrimPrefix(text, "//")
			} else if strings.HasPrefix(text, "/*") && strings.HasSuffix(text, "*/") {
				text = strings.TrimPrefix(text, "/*")
				text = strings.TrimSuffix(text, "*/")
			}
			for _, line := range strings.Split(text, "\n") {
				line = strings.TrimSpace(line)
				line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
				// skip annotations and empty lines
				if line == "" || strings.HasPrefix(line, "@") {
					continue
				}
				parts = append(parts, line)
			}
		}
	}
	return strings.Join(parts, "\n")
}
