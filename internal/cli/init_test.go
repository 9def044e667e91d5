package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_NonInteractive_Defaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)

	var out bytes.Buffer
	err := Init(InitOptions{Path: configPath, NonInteractive: true}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Created "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.SourceHTTP, cfg.Source)
	assert.Equal(t, config.DefaultConfig().Backend.URL, cfg.Backend.URL)
	assert.Equal(t, 1, cfg.Dashboard.Range)
}

func TestInit_NonInteractive_BackendURL(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)

	err := Init(InitOptions{
		Path:           configPath,
		BackendURL:     "http://growbox.local:5000/",
		Range:          7,
		NonInteractive: true,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# growdash configuration")
	assert.Contains(t, string(content), "url: http://growbox.local:5000/")

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "http://growbox.local:5000/", cfg.Backend.URL)
	assert.Equal(t, 7, cfg.Dashboard.Range)
}

func TestInit_NonInteractive_Influx(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)

	err := Init(InitOptions{
		Path:           configPath,
		Source:         "INFLUX",
		InfluxURL:      "http://influx.local:8086",
		InfluxOrg:      "home",
		InfluxBucket:   "growbox",
		NonInteractive: true,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.SourceInflux, cfg.Source)
	assert.Equal(t, "http://influx.local:8086", cfg.Influx.URL)
	assert.Equal(t, "home", cfg.Influx.Org)
	assert.Equal(t, "growbox", cfg.Influx.Bucket)
}

func TestInit_NonInteractive_InvalidConfigNotWritten(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)

	// Influx without an organization
	err := Init(InitOptions{
		Path:           configPath,
		Source:         config.SourceInflux,
		NonInteractive: true,
	}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, statErr := os.Stat(configPath)
	assert.True(t, os.IsNotExist(statErr), "invalid config must not be written")
}

func TestInit_NonInteractive_ConfigExists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0644))

	err := Init(InitOptions{Path: configPath, NonInteractive: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a config file")

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(content), "existing config must be left alone")
}

func TestInit_NonInteractive_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0644))

	err := Init(InitOptions{
		Path:           configPath,
		BackendURL:     "https://sensors.example.com/api/",
		Overwrite:      true,
		NonInteractive: true,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "https://sensors.example.com/api/")
}

func TestCheckExistingConfig_NoConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)

	proceed, err := checkExistingConfig(configPath, InitOptions{})
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestCheckExistingConfig_WithOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("existing: config"), 0644))

	proceed, err := checkExistingConfig(configPath, InitOptions{Overwrite: true})
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestCheckExistingConfig_NonInteractive_NoOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("existing: config"), 0644))

	proceed, err := checkExistingConfig(configPath, InitOptions{NonInteractive: true})
	require.Error(t, err)
	assert.False(t, proceed)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestApplyInitOptions(t *testing.T) {
	t.Run("empty options keep defaults", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyInitOptions(cfg, InitOptions{})
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("values override defaults", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyInitOptions(cfg, InitOptions{
			Source:       "Influx",
			BackendURL:   "http://a:1/",
			InfluxURL:    "http://b:2",
			InfluxOrg:    "org",
			InfluxBucket: "bucket",
			Range:        30,
		})
		assert.Equal(t, config.SourceInflux, cfg.Source)
		assert.Equal(t, "http://a:1/", cfg.Backend.URL)
		assert.Equal(t, "http://b:2", cfg.Influx.URL)
		assert.Equal(t, "org", cfg.Influx.Org)
		assert.Equal(t, "bucket", cfg.Influx.Bucket)
		assert.Equal(t, 30, cfg.Dashboard.Range)
	})
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"http://localhost:5000/", false},
		{"https://sensors.example.com", false},
		{"  http://growbox.local/  ", false},
		{"", true},
		{"localhost:5000", true},
		{"ftp://example.com", true},
		{"http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateHTTPURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	validate := required("bucket")
	assert.NoError(t, validate("sensordata"))
	err := validate("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}
