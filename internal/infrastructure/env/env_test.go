package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_LoadsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PFW_TEST_URL=http://base\nPFW_TEST_ONLY_BASE=yes\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("PFW_TEST_URL=http://ci\n"), 0o644))

	t.Setenv("APP_ENV", "ci")
	t.Setenv("PFW_TEST_URL", "")
	t.Setenv("PFW_TEST_ONLY_BASE", "")
	os.Unsetenv("PFW_TEST_URL")
	os.Unsetenv("PFW_TEST_ONLY_BASE")

	svc := NewEnvServiceFrom(dir)

	assert.Equal(t, "http://ci", svc.Get("PFW_TEST_URL"))
	assert.Equal(t, "yes", svc.Get("PFW_TEST_ONLY_BASE"))
}

func TestEnvService_TypedGetters(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("PFW_TEST_BOOL", "true")
	t.Setenv("PFW_TEST_BAD_BOOL", "maybe")
	t.Setenv("PFW_TEST_INT", "42")
	t.Setenv("PFW_TEST_DURATION", "1500ms")
	t.Setenv("PFW_TEST_BAD_DURATION", "soon")

	assert.True(t, svc.GetBool("PFW_TEST_BOOL", false))
	assert.False(t, svc.GetBool("PFW_TEST_BAD_BOOL", false))
	assert.True(t, svc.GetBool("PFW_TEST_UNSET", true))
	assert.Equal(t, 42, svc.GetInt("PFW_TEST_INT", 0))
	assert.Equal(t, 7, svc.GetInt("PFW_TEST_UNSET", 7))
	assert.Equal(t, 1500*time.Millisecond, svc.GetDuration("PFW_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, svc.GetDuration("PFW_TEST_BAD_DURATION", time.Second))
	assert.Equal(t, "fallback", svc.GetWithDefault("PFW_TEST_UNSET", "fallback"))
}
