package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const models = `package models

// @BsonSchema
// @bson(rename_all="snake_case")
type Contact struct {
	FullName string
	// @magnet(min_incl=0)
	Age int32
}
`

func setupModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/tmp\n\ngo 1.25\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), []byte(models), 0o600))
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := RootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "magnet "))
}

func TestPrintCmd(t *testing.T) {
	setupModule(t)

	out, err := run(t, "print", "--log-level", "disabled", "./...")
	require.NoError(t, err)
	assert.Contains(t, out, "// example.com/tmp.Contact")
	assert.Contains(t, out, `"full_name"`)
	assert.Contains(t, out, `"required"`)

	out, err = run(t, "print", "--log-level", "disabled", "--validator", "-t", "Missing", "./...")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerateCmd(t *testing.T) {
	dir := setupModule(t)
	target := filepath.Join(dir, "models_bsonschema.go")

	_, err := run(t, "generate", "--log-level", "disabled", "--dry-run", "./...")
	require.NoError(t, err)
	assert.NoFileExists(t, target)

	_, err = run(t, "generate", "--log-level", "disabled", "./...")
	require.NoError(t, err)
	code, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(code), "func (Contact) BsonSchema() bson.D {")
}

func TestGenerateCmdFailsOnBadSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/tmp\n\ngo 1.25\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), []byte("package models\n\n// @BsonSchema\ntype P struct{ C chan int }\n"), 0o600))
	t.Chdir(dir)

	_, err := run(t, "generate", "--log-level", "disabled", "./...")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "models_bsonschema.go"))
}

func TestConfigLoadErrors(t *testing.T) {
	dir := setupModule(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "magnet.yml"), []byte("scanning: [\n"), 0o600))

	_, err := run(t, "print", "./...")
	assert.ErrorContains(t, err, "failed to load config magnet.yml")

	_, err = run(t, "print", "--config", "missing.json", "./...")
	assert.ErrorContains(t, err, "failed to load config missing.json")
}
