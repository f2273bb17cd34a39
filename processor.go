// Package magnet derives MongoDB $jsonSchema documents from annotated Go
// declarations and writes them as BsonSchema accessors.
package magnet

import (
	"context"
	"fmt"

	"github.com/pablor21/magnet/config"
	"github.com/pablor21/magnet/generator"
	"github.com/pablor21/magnet/types"
	"github.com/pablor21/magnet/utils"
	"golang.org/x/tools/go/packages"
)

// Process scans and derives the packages of the default configuration
func Process() (*types.ProcessResult, error) {
	defaultConfig := config.NewDefaultConfig()
	return ProcessWithConfig(defaultConfig)
}

// ProcessWithConfig scans and derives with the provided configuration
func ProcessWithConfig(cfg *config.Config) (*types.ProcessResult, error) {
	return ProcessWithContext(types.NewProcessContext(cfg, nil))
}

// ProcessWithContext loads the configured packages, indexes their types and
// derives the schema of every @BsonSchema type. Derivation failures are kept
// on the result; see ProcessResult.Err.
func ProcessWithContext(ctx *types.ProcessContext) (*types.ProcessResult, error) {
	pkgs, err := loadPackages(ctx)
	if err != nil {
		return nil, err
	}
	if ctx.ModulePath == "" {
		ctx.ModulePath = utils.MainModule(pkgs)
	}
	res, err := parsePackages(ctx, pkgs)
	if err != nil {
		return nil, err
	}
	res.Derive(ctx)
	return res, nil
}

// Generate runs the whole pipeline and writes one file per package. It fails
// when any annotated type cannot be derived.
func Generate(ctx context.Context, pctx *types.ProcessContext) ([]*generator.GeneratedFile, error) {
	res, err := ProcessWithContext(pctx)
	if err != nil {
		return nil, err
	}
	gen := generator.New(pctx)
	files, err := gen.Generate(ctx, res)
	if err != nil {
		return nil, err
	}
	return files, gen.Write(files)
}

// loadPackages loads the packages specified in the configuration
func loadPackages(ctx *types.ProcessContext) ([]*packages.Package, error) {
	patterns := ctx.Config.Scanning.Packages
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := utils.LoadPackages(utils.LoadOptions{Tests: ctx.Config.Scanning.Tests}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	ctx.Logger.Debug("loaded packages", "count", len(pkgs), "patterns", patterns)
	return pkgs, nil
}

// parsePackages indexes all loaded packages
func parsePackages(ctx *types.ProcessContext, pkgs []*packages.Package) (*types.ProcessResult, error) {
	res := types.NewParseResult()
	for _, pkg := range pkgs {
		if err := res.ParsePackage(ctx, pkg); err != nil {
			return nil, fmt.Errorf("failed to parse package %s: %w", pkg.PkgPath, err)
		}
	}
	return res, nil
}
