package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"srv",
		"-a", ":9000",
		"-d", "postgres://u:p@db:5432/snapshare",
		"-s", "real-secret",
		"-t", "30",
		"-f", "s3",
		"-b", "photos",
	}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, c.EndpointAddr, ":9000")
	assert.Equal(t, c.DatabaseDSN, "postgres://u:p@db:5432/snapshare")
	assert.Equal(t, c.SecretKey, "real-secret")
	assert.Equal(t, c.TokenValidityDuration, 30*time.Minute)
	assert.Equal(t, c.FileStore, FileStoreS3)
	assert.Equal(t, c.S3Bucket, "photos")
}

func TestParseFlags_KeepsDefaultsWhenAbsent(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"srv"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, c.EndpointAddr, ":8000")
	assert.Equal(t, c.TokenValidityDuration, 1*time.Hour)
}
