package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlang/lumen/internal/config"
)

func writeScript(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lumen")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunFileExitsOKOnSuccess(t *testing.T) {
	path := writeScript(t, `let x = 1 + 2;`)
	assert.Equal(t, config.ExitOK, runFile(path))
}

func TestRunFileExitsCompileErrorOnBadSyntax(t *testing.T) {
	path := writeScript(t, `let x = ;`)
	assert.Equal(t, config.ExitCompileError, runFile(path))
}

func TestRunFileExitsRuntimeErrorOnTypeMismatch(t *testing.T) {
	path := writeScript(t, `dump 1 + "a";`)
	assert.Equal(t, config.ExitRuntimeError, runFile(path))
}

func TestRunFileExitsRuntimeErrorOnMissingFile(t *testing.T) {
	assert.Equal(t, config.ExitRuntimeError, runFile(filepath.Join(t.TempDir(), "does-not-exist.lumen")))
}

func TestNewInterpreterHasNativesInstalled(t *testing.T) {
	m := newInterpreter()
	_, ok := m.GetGlobal("print")
	assert.True(t, ok, "expected print to be registered as a global")
	_, ok = m.GetGlobal("module")
	assert.True(t, ok, "expected module to be registered as a global")
}
