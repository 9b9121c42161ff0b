package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/benford/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.SetDefaultCLILogger("error")
	os.Exit(m.Run())
}

// runApp executes the CLI with an isolated config dir and returns stdout.
func runApp(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(context.Background(), append([]string{appName, "--config", dir}, args...))
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
}

func TestApp_CreatesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	_, err := runApp(t, dir, "score")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestApp_InvalidFormat(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "--format", "xml", "score")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	v := map[string]int{"score": 7}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, "json", v))
	assert.JSONEq(t, `{"score": 7}`, buf.String())

	buf.Reset()
	require.NoError(t, encode(&buf, "yaml", v))
	assert.YAMLEq(t, "score: 7\n", buf.String())
}
