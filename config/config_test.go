package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"OPENAI_BASE_URL", "OPENAI_API_KEY", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"AWS_ENDPOINT", "AWS_REGION", "AWS_BUCKET", "STORAGE_SUPPLIER", "URL_EXPIRES", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadLayers(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(yml, []byte(`
storage_supplier: ali_oss
url_expires: 30m
openai:
  base_url: http://yaml/v1
storage:
  bucket: from-yaml
  directory: draw/
`), 0644))
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("AWS_BUCKET=from-env\n"), 0644))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := Load(yml, env)
	require.NoError(t, err)
	require.Equal(t, "ali_oss", c.StorageSupplier)
	require.Equal(t, "http://yaml/v1", c.OpenAI.BaseURL)
	require.Equal(t, "sk-test", c.OpenAI.APIKey)
	require.Equal(t, "from-env", c.Storage.Bucket)
	require.Equal(t, "draw/", c.Storage.Directory)
	require.Equal(t, 30*time.Minute, c.URLExpiry())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_BUCKET", "bucket")
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	require.Equal(t, "s3", c.StorageSupplier)
	require.Equal(t, "http://localhost:5005/v1", c.OpenAI.BaseURL)
	require.Equal(t, time.Hour, c.URLExpiry())
}

func TestVerify(t *testing.T) {
	c := Default()
	require.Error(t, c.Verify())

	c.Storage.Bucket = "b"
	require.NoError(t, c.Verify())

	c.StorageSupplier = "gcs"
	require.Error(t, c.Verify())

	c.StorageSupplier = "s3"
	c.URLExpires = "-1s"
	require.Error(t, c.Verify())

	c.URLExpires = "soon"
	require.Error(t, c.Verify())
}
