package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidate(t *testing.T, content string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"validate", path}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		validateLevels = 3
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := runValidate(t, `{"root":{"items":[{"id":"1","name":"Asia","childs":[{"id":"2","name":"Japan"},{"id":"4","name":"Korea"}]},{"id":"5","name":"Europe"}]}}`)
	require.NoError(t, err)
	assert.Contains(t, out, "ok, 2 levels, 2 roots, 3 selectable leaves")
}

func TestValidateCommandRejectsDeepTree(t *testing.T) {
	_, err := runValidate(t, `{"root":{"items":[{"id":"1","name":"A","childs":[{"id":"2","name":"B"}]}]}}`, "--levels", "1")
	assert.Error(t, err)
}

func TestValidateCommandRejectsMalformed(t *testing.T) {
	_, err := runValidate(t, `{"items":[]}`)
	assert.ErrorContains(t, err, "invalid JSON structure")
}
