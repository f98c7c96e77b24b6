package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--sqlite", ":memory:"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestInitDBReportsLibrarySchemaVersion(t *testing.T) {
	out, _, err := runCmd(t, "init-db")
	require.NoError(t, err)
	assert.Contains(t, out, "metadata schema ready at version")
}

func TestSchemaVersionJSONFormat(t *testing.T) {
	out, _, err := runCmd(t, "--format", "json", "schema-version")
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
	assert.True(t, strings.Contains(out, `"schema_version"`))
}

func TestMigrateDownRequiresTargetVersion(t *testing.T) {
	_, _, err := runCmd(t, "migrate-down")
	require.Error(t, err)
}

func TestRejectsMissingConnectionFlags(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"schema-version"})
	err := root.Execute()
	require.Error(t, err)
}

func TestRejectsUnknownFormat(t *testing.T) {
	_, _, err := runCmd(t, "--format", "xml", "schema-version")
	require.Error(t, err)
}
