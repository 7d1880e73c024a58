package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

func env(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func full() map[string]string {
	return map[string]string{
		EnvAccountURL:  "https://acct.blob.core.windows.net/",
		EnvContainer:   "scans",
		EnvSASToken:    "?sv=2022&sig=abc",
		EnvBlobName:    "1/Screenshot (2357).png",
		EnvDocEndpoint: "https://docs.cognitiveservices.azure.com/",
		EnvDocKey:      "secret",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(env(full()))
	require.NoError(t, err)

	assert.Equal(t, "scans", cfg.Storage.Container)
	assert.Equal(t, "1/Screenshot (2357).png", cfg.Storage.BlobName)
	assert.Equal(t, DefaultModel, cfg.DocIntel.Model)
	assert.Equal(t, DefaultAPIVersion, cfg.DocIntel.APIVersion)
	assert.Equal(t, DefaultPollInterval, cfg.DocIntel.PollInterval)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultGRPCAddr, cfg.GRPCAddr)
}

func TestLoad_Overrides(t *testing.T) {
	m := full()
	m[EnvDocModel] = "prebuilt-layout"
	m[EnvPollInterval] = "3s"
	m[EnvLogLevel] = "debug"

	cfg, err := Load(env(m))
	require.NoError(t, err)
	assert.Equal(t, "prebuilt-layout", cfg.DocIntel.Model)
	assert.Equal(t, 3*time.Second, cfg.DocIntel.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingStorageValue(t *testing.T) {
	for _, key := range []string{EnvAccountURL, EnvContainer, EnvSASToken, EnvBlobName} {
		t.Run(key, func(t *testing.T) {
			m := full()
			delete(m, key)

			_, err := Load(env(m))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfig))
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_BlankCountsAsMissing(t *testing.T) {
	m := full()
	m[EnvContainer] = "   "

	_, err := Load(env(m))
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestLoad_MissingDocIntel(t *testing.T) {
	for _, key := range []string{EnvDocEndpoint, EnvDocKey} {
		m := full()
		delete(m, key)

		_, err := Load(env(m))
		require.ErrorIs(t, err, domain.ErrConfig, key)
		assert.Contains(t, err.Error(), EnvDocEndpoint)
	}
}

func TestLoadMode_ServeSkipsStorage(t *testing.T) {
	m := map[string]string{
		EnvDocEndpoint: "https://docs.example",
		EnvDocKey:      "k",
		EnvGRPCAddr:    ":9000",
	}

	cfg, err := LoadMode(env(m), ModeServe)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.GRPCAddr)

	_, err = LoadMode(env(m), ModeRun)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestLoad_BadPollInterval(t *testing.T) {
	for _, raw := range []string{"soon", "-1s", "0", "500ms"} {
		m := full()
		m[EnvPollInterval] = raw

		_, err := Load(env(m))
		assert.ErrorIs(t, err, domain.ErrConfig, raw)
	}
}

func TestLoad_KeepsValuesAsGiven(t *testing.T) {
	m := full()
	m[EnvBlobName] = " scan 1.png "
	m[EnvSASToken] = "sv=1&sig=a b "

	cfg, err := Load(env(m))
	require.NoError(t, err)
	assert.Equal(t, " scan 1.png ", cfg.Storage.BlobName)
	assert.Equal(t, "sv=1&sig=a b ", cfg.Storage.SASToken)
}
