package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plantimals/eqtlift/liftover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "eqtlift.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadApply(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	p := writeConfig(t, `
source: s3://eqtl/gtex_v8.GRCh37.mt
destination: s3://eqtl/gtex_v8.GRCh38.mt
partitions: 64
overwrite: false
log_level: debug
storage:
  s3_endpoint: http://127.0.0.1:9000
  s3_access_key: minio
  s3_secret_key: minio123
  retries: 3
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)

	lc := liftover.DefaultConfig()
	c.Apply(&lc)
	assert.Equal(t, "s3://eqtl/gtex_v8.GRCh37.mt", lc.Source)
	assert.Equal(t, "s3://eqtl/gtex_v8.GRCh38.mt", lc.Destination)
	assert.Equal(t, "gs://hail-common/references/grch37_to_grch38.over.chain.gz", lc.Chain)
	assert.Equal(t, "GRCh37", lc.SourceReference)
	assert.Equal(t, 64, lc.Partitions)
	assert.Equal(t, 8, lc.Workers)
	assert.False(t, lc.Overwrite)
	assert.Equal(t, "http://127.0.0.1:9000", lc.Store.S3Endpoint)
	assert.Equal(t, "minio", lc.Store.S3AccessKey)
	assert.Equal(t, uint64(3), lc.Store.Retries)
}

func TestOverwriteDefaultKept(t *testing.T) {
	c, err := Load(writeConfig(t, "workers: 2\n"))
	require.NoError(t, err)
	lc := liftover.DefaultConfig()
	c.Apply(&lc)
	assert.True(t, lc.Overwrite)
	assert.Equal(t, 2, lc.Workers)
}

func TestStorageFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	o := StorageConfig{}.Options()
	assert.Equal(t, "/secrets/sa.json", o.GCSCredentialsFile)
	assert.Empty(t, o.S3AccessKey)

	o = StorageConfig{GCSCredentialsFile: "key.json"}.Options()
	assert.Equal(t, "key.json", o.GCSCredentialsFile)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "partitions: [1\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "workers: -1\n"))
	assert.Error(t, err)
}
