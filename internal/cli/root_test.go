package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	names := map[string]string{}
	for _, c := range root.Commands() {
		names[c.Name()] = c.GroupID
	}
	assert.Equal(t, "main", names["resolve"])
	assert.Equal(t, "main", names["list"])
	assert.Equal(t, "main", names["quorum"])
	assert.Equal(t, "main", names["serve"])
	assert.Equal(t, "management", names["tenants"])
	assert.Equal(t, "management", names["import"])
	assert.Contains(t, names, "version")

	for _, flag := range []string{"tenant", "debug", "json", "non-interactive", "data-dir", "redis-url"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionSkipsAppInit(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agora version dev")
}

func TestImportThenListTenants(t *testing.T) {
	dataDir := t.TempDir()
	bundle := filepath.Join("..", "adapters", "repository", "file", "testdata", "ens.yaml")

	out, err := run(t, "import", bundle, "--data-dir", dataDir, "--non-interactive", "--json")
	require.NoError(t, err)

	var imported struct {
		Tenant    string
		Proposals int
		Votes     int
		DryRun    bool
	}
	require.NoError(t, json.Unmarshal([]byte(out), &imported))
	assert.Equal(t, "ens", imported.Tenant)
	assert.Equal(t, 2, imported.Proposals)
	assert.Equal(t, 3, imported.Votes)
	assert.False(t, imported.DryRun)
	assert.FileExists(t, filepath.Join(dataDir, "agora.sqlite"))

	out, err = run(t, "tenants", "-t", "ens", "--data-dir", dataDir, "--json")
	require.NoError(t, err)
	var tenants struct {
		Current string
		Source  string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tenants))
	assert.Equal(t, "ens", tenants.Current)
	assert.Equal(t, "defaults", tenants.Source)
}

func TestUnknownTenant(t *testing.T) {
	_, err := run(t, "tenants", "-t", "nouns", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nouns")
}

func TestListRejectsBadStatus(t *testing.T) {
	_, err := run(t, "list", "-t", "ens", "--status", "passed", "--data-dir", t.TempDir(), "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown proposal status")
}
