package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEditor clears every editor variable and sets name to value.
func setEditor(t *testing.T, name, value string) {
	t.Helper()
	for _, n := range editorEnv {
		t.Setenv(n, "")
	}
	if name != "" {
		t.Setenv(name, value)
	}
}

func TestGetEditor(t *testing.T) {
	setEditor(t, "", "")
	assert.Equal(t, "", getEditor())

	t.Setenv("EDITOR", "vim")
	assert.Equal(t, "vim", getEditor())

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, "code --wait", getEditor())

	t.Setenv("SNIP_EDITOR", "nano")
	assert.Equal(t, "nano", getEditor())

	t.Setenv("SNIP_EDITOR", "   ")
	assert.Equal(t, "code --wait", getEditor())
}

func TestEditInEditorNoEditor(t *testing.T) {
	setEditor(t, "", "")

	_, err := EditInEditor(context.Background(), []byte("test"), ".yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EDITOR not set")
}

func TestEditInEditorUnchanged(t *testing.T) {
	setEditor(t, "EDITOR", "true")

	content := []byte("name: greet\n")
	result, err := EditInEditor(context.Background(), content, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, content, result)
}

func TestEditInEditorNonZeroExit(t *testing.T) {
	setEditor(t, "EDITOR", "false")

	_, err := EditInEditor(context.Background(), []byte("test"), ".yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor exited with status 1")
}

func TestEditInEditorContentModified(t *testing.T) {
	script := filepath.Join(t.TempDir(), "editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'modified' > \"$1\"\n"), 0o755))
	setEditor(t, "SNIP_EDITOR", script)

	result, err := EditInEditor(context.Background(), []byte("original"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "modified\n", string(result))
}

func TestRunEditorErrors(t *testing.T) {
	err := runEditor(context.Background(), "  ", "/tmp/test.yaml")
	assert.EqualError(t, err, "empty editor command")

	err = runEditor(context.Background(), "nonexistent-editor-command-12345", "/tmp/test.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run editor")
}
