package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntime(t *testing.T) {
	dir := t.TempDir()
	secretsPath := filepath.Join(dir, "secrets.yaml")
	require.NoError(t, os.WriteFile(secretsPath, []byte(`
snowflake:
  user: alice
  password: hunter2
  account: acme-xy12345
`), 0600))

	rt, err := NewRuntime(Options{Port: "0", SecretsPath: secretsPath})
	require.NoError(t, err)
	assert.NotNil(t, rt.Executor())
}

func TestNewRuntime_MissingSecretsFile(t *testing.T) {
	// Only the environment tier remains; the server must still start so
	// the page can surface the configuration error.
	rt, err := NewRuntime(Options{Port: "0", SecretsPath: filepath.Join(t.TempDir(), "absent.yaml")})
	require.NoError(t, err)
	assert.NotNil(t, rt)
}

func TestNewRuntime_UnsupportedDriver(t *testing.T) {
	_, err := NewRuntime(Options{Port: "0", Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestNewRuntime_MalformedSecretsFile(t *testing.T) {
	dir := t.TempDir()
	secretsPath := filepath.Join(dir, "secrets.yaml")
	require.NoError(t, os.WriteFile(secretsPath, []byte("- a\n- b\n"), 0600))

	_, err := NewRuntime(Options{Port: "0", SecretsPath: secretsPath})
	assert.Error(t, err)
}
