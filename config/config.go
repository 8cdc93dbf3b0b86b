// Package config loads eqtlift settings from a YAML file. Settings left out
// of the file keep the defaults of the liftover they are applied to.
package config

import (
	"fmt"
	"os"

	"github.com/plantimals/eqtlift/liftover"
	"github.com/plantimals/eqtlift/store"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Source          string        `yaml:"source"`
	Destination     string        `yaml:"destination"`
	Chain           string        `yaml:"chain"`
	SourceReference string        `yaml:"source_reference"`
	DestReference   string        `yaml:"dest_reference"`
	Partitions      int           `yaml:"partitions"`
	Workers         int           `yaml:"workers"`
	Overwrite       *bool         `yaml:"overwrite"`
	LogLevel        string        `yaml:"log_level"`
	MetricsTextfile string        `yaml:"metrics_textfile"`
	Storage         StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`
	S3Region           string `yaml:"s3_region"`
	S3Endpoint         string `yaml:"s3_endpoint"`
	S3AccessKey        string `yaml:"s3_access_key"`
	S3SecretKey        string `yaml:"s3_secret_key"`
	Retries            uint64 `yaml:"retries"`
}

// Load reads the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if c.Partitions < 0 || c.Workers < 0 {
		return nil, fmt.Errorf("config %s: partitions and workers must not be negative", path)
	}
	return &c, nil
}

// Apply copies the settings present in c over lc.
func (c *Config) Apply(lc *liftover.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&lc.Source, c.Source)
	set(&lc.Destination, c.Destination)
	set(&lc.Chain, c.Chain)
	set(&lc.SourceReference, c.SourceReference)
	set(&lc.DestReference, c.DestReference)
	if c.Partitions > 0 {
		lc.Partitions = c.Partitions
	}
	if c.Workers > 0 {
		lc.Workers = c.Workers
	}
	if c.Overwrite != nil {
		lc.Overwrite = *c.Overwrite
	}
	lc.Store = c.Storage.Options()
}

// Options returns the storage options. GCS credentials fall back to
// GOOGLE_APPLICATION_CREDENTIALS; S3 leaves unset keys to the SDK chain.
func (s StorageConfig) Options() store.Options {
	o := store.Options{
		GCSCredentialsFile: s.GCSCredentialsFile,
		S3Region:           s.S3Region,
		S3Endpoint:         s.S3Endpoint,
		S3AccessKey:        s.S3AccessKey,
		S3SecretKey:        s.S3SecretKey,
		Retries:            s.Retries,
	}
	if o.GCSCredentialsFile == "" {
		o.GCSCredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	return o
}
