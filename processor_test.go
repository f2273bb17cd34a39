package magnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/magnet/config"
	"github.com/pablor21/magnet/logger"
	"github.com/pablor21/magnet/types"
)

func TestProcessSetsModulePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shop\n\ngo 1.25\n"), 0o600))
	sub := filepath.Join(dir, "models")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	src := "package models\n\n// @BsonSchema\ntype Order struct{ Total float64 }\n"
	require.NoError(t, os.WriteFile(filepath.Join(sub, "models.go"), []byte(src), 0o600))
	t.Chdir(dir)

	ctx := types.NewProcessContext(config.NewDefaultConfig(), logger.NewLogger(logger.TestConfig()))
	res, err := ProcessWithContext(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, "example.com/shop", ctx.ModulePath)
	require.Len(t, res.Schemas, 1)
	assert.Equal(t, "example.com/shop/models", res.Schemas[0].Type.PkgPath)
}
