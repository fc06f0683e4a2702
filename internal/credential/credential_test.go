package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaultChain_Precedence(t *testing.T) {
	dir := t.TempDir()
	secrets := filepath.Join(dir, "secrets")
	require.NoError(t, os.Mkdir(secrets, 0o700))
	keyFile := filepath.Join(dir, "api_key")
	dotenv := filepath.Join(dir, ".env")

	writeFile(t, filepath.Join(secrets, KeyName), "from-secret\n")
	writeFile(t, keyFile, "from-file\nsecond line\n")
	writeFile(t, dotenv, "# comment\nOTHER=x\nAPIKEY=from-dotenv\n")
	t.Setenv(KeyName, "from-env")

	key, from, err := Resolve(DefaultChain("from-flag", secrets, keyFile, dotenv)...)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", key)
	assert.Equal(t, "override", from)

	key, _, err = Resolve(DefaultChain("", secrets, keyFile, dotenv)...)
	require.NoError(t, err)
	assert.Equal(t, "from-secret", key)

	require.NoError(t, os.Remove(filepath.Join(secrets, KeyName)))
	key, _, err = Resolve(DefaultChain("", secrets, keyFile, dotenv)...)
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	t.Setenv(KeyName, "")
	key, _, err = Resolve(DefaultChain("", secrets, keyFile, dotenv)...)
	require.NoError(t, err)
	assert.Equal(t, "from-file", key, "only the first line is used")

	require.NoError(t, os.Remove(keyFile))
	key, from, err = Resolve(DefaultChain("", secrets, keyFile, dotenv)...)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", key)
	assert.Equal(t, "dotenv:"+dotenv, from)

	require.NoError(t, os.Remove(dotenv))
	_, _, err = Resolve(DefaultChain("", secrets, keyFile, dotenv)...)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDotEnv_DoesNotSetEnvironment(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	writeFile(t, dotenv, "APIKEY=abc\n")
	t.Setenv(KeyName, "")

	key, err := DotEnv(dotenv).Lookup()

	require.NoError(t, err)
	assert.Equal(t, "abc", key)
	assert.Empty(t, os.Getenv(KeyName))
}

func TestResolve_WhitespaceIsEmpty(t *testing.T) {
	key, _, err := Resolve(Override("   "), Override(" real "))

	require.NoError(t, err)
	assert.Equal(t, "real", key)
}

func TestResolve_SourceError(t *testing.T) {
	boom := errors.New("permission denied")
	failing := Source{Name: "broken", Lookup: func() (string, error) { return "", boom }}

	_, _, err := Resolve(failing, Override("never reached"))

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestEnv_UsesGetenv(t *testing.T) {
	key, err := Env(func(name string) string {
		assert.Equal(t, KeyName, name)
		return "injected"
	}).Lookup()

	require.NoError(t, err)
	assert.Equal(t, "injected", key)
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("secret")

	assert.Len(t, fp, 12)
	assert.Equal(t, "2bb80d537b1d", fp)
	assert.Equal(t, fp, Fingerprint("  secret\n"))
	assert.NotEqual(t, fp, Fingerprint("secret2"))
}
