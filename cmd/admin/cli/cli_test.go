package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAdmin(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCommand.SetOut(&out)
	rootCommand.SetErr(&out)
	rootCommand.SetArgs(args)
	t.Cleanup(func() { rootCommand.SetArgs(nil) })
	err := rootCommand.Execute()
	return out.String(), err
}

func writeAppEnv(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))
	return dir
}

func TestMigrate_SQLite(t *testing.T) {
	dir := writeAppEnv(t, "DB_DRIVER=sqlite\nLOG_LEVEL=error\n")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "users.db"))

	out, err := runAdmin(t, "migrate", "--config", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "migration completed!")
	assert.FileExists(t, filepath.Join(dir, "users.db"))
}

func TestCheckConfig(t *testing.T) {
	dir := writeAppEnv(t, "DB_DRIVER=sqlite\nHTTP_PORT=9090\n")

	out, err := runAdmin(t, "check-config", "--config", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "database:    sqlite")
	assert.Contains(t, out, "http:        :9090")
	assert.Contains(t, out, "configuration is valid")
}

func TestCheckConfig_Invalid(t *testing.T) {
	dir := writeAppEnv(t, "DB_DRIVER=oracle\n")

	_, err := runAdmin(t, "check-config", "--config", dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
