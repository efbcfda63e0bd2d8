package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pfwidgets/internal/infrastructure/browser/htmldom"
	"pfwidgets/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PFW_URL", "https://manageiq.example.com")
	t.Setenv("PFW_HEADLESS", "false")
	t.Setenv("PFW_TIMEOUT", "3s")

	cfg := ConfigFromEnv(&env.EnvService{})
	assert.Equal(t, "https://manageiq.example.com", cfg.URL)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "pfwidgets", cfg.LogName)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "no target", cfg: Config{Timeout: time.Second}, wantErr: "one of url or file is required"},
		{name: "both targets", cfg: Config{URL: "u", File: "f", Timeout: time.Second}, wantErr: "mutually exclusive"},
		{name: "no timeout", cfg: Config{File: "f"}, wantErr: "timeout must be positive"},
		{name: "ok", cfg: Config{File: "f", Timeout: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewContainer_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><body><p id="x">hi</p></body></html>`), 0o644))

	ctx := context.Background()
	c, err := NewContainer(ctx, Config{File: page, Timeout: 2 * time.Second, LogName: "test"})
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &htmldom.Document{}, c.Browser)
	assert.Equal(t, 2*time.Second, c.Page.Timing().Timeout)

	path, err := c.SaveFailure(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, path, "no screenshots without a browser")

	logs, err := os.ReadDir(filepath.Join(dir, "log"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestNewContainer_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := NewContainer(context.Background(), Config{File: "missing.html", Timeout: time.Second, LogName: "test"})
	assert.ErrorContains(t, err, "failed to load page")
}

func TestContainer_Snapshot(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><body><p id="x" onclick="go()">hi</p><script>1</script></body></html>`), 0o644))

	ctx := context.Background()
	c, err := NewContainer(ctx, Config{File: page, Timeout: time.Second, LogName: "test"})
	require.NoError(t, err)
	defer c.Close()

	src, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, src, `<p id="x">hi</p>`)
	assert.NotContains(t, src, "<script")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
