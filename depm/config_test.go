package depm

import (
	"os"
	"path/filepath"
	"testing"

	"pyrite/omp"

	"github.com/stretchr/testify/assert"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(contents), 0o644)
	assert.Nil(t, err)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeManifest(t, "name = \"euler\"\n")

	cfg, err := LoadConfig(dir)
	assert.Nil(t, err)
	assert.Equal(t, "euler", cfg.Name)
	assert.Equal(t, TargetPython, cfg.Target)
	assert.Equal(t, omp.V45, cfg.OmpVersion)
	assert.Equal(t, filepath.Join(dir, "euler.py"), cfg.OutputPath)
}

func TestLoadConfigExplicitFields(t *testing.T) {
	dir := writeManifest(t,
		"name = \"euler\"\ntarget = \"c\"\nomp-version = \"5.0\"\noutput = \"out/euler_gen.c\"\n")

	cfg, err := LoadConfig(dir)
	assert.Nil(t, err)
	assert.Equal(t, TargetC, cfg.Target)
	assert.Equal(t, omp.V50, cfg.OmpVersion)
	assert.Equal(t, filepath.Join(dir, "out", "euler_gen.c"), cfg.OutputPath)
}

func TestLoadConfigMissingName(t *testing.T) {
	dir := writeManifest(t, "target = \"python\"\n")

	_, err := LoadConfig(dir)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "missing a unit name")
}

func TestLoadConfigInvalidName(t *testing.T) {
	dir := writeManifest(t, "name = \"2fast\"\n")

	_, err := LoadConfig(dir)
	assert.NotNil(t, err)
}

func TestLoadConfigUnknownTarget(t *testing.T) {
	dir := writeManifest(t, "name = \"euler\"\ntarget = \"fortran\"\n")

	_, err := LoadConfig(dir)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestLoadConfigUnknownDirectiveRevision(t *testing.T) {
	dir := writeManifest(t, "name = \"euler\"\nomp-version = \"3.1\"\n")

	_, err := LoadConfig(dir)
	assert.NotNil(t, err)
}

func TestLoadConfigMissingManifest(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.NotNil(t, err)
}

func TestIsValidIdentifier(t *testing.T) {
	assert.True(t, IsValidIdentifier("euler"))
	assert.True(t, IsValidIdentifier("_hidden2"))
	assert.False(t, IsValidIdentifier(""))
	assert.False(t, IsValidIdentifier("2fast"))
	assert.False(t, IsValidIdentifier("has space"))
}
