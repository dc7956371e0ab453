package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredEnv = map[string]string{
	EnvSearchEndpoint:   "https://demo.search.windows.net",
	EnvSearchAdminKey:   "admin-key",
	EnvOpenAIEndpoint:   "https://demo.openai.azure.com/",
	EnvOpenAIAPIKey:     "openai-key",
	EnvOpenAIDeployment: "gpt-4o",
	EnvOpenAIAPIVersion: "2024-06-01",
}

func setEnv(t *testing.T, skip string) {
	t.Helper()
	for k, v := range requiredEnv {
		if k == skip {
			v = ""
		}
		t.Setenv(k, v)
	}
	t.Setenv(EnvSearchIndexName, "")
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultIndexName, cfg.Search.IndexName)
	assert.Equal(t, "2024-07-01", cfg.Search.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Search.ReadyTimeout)
	assert.Equal(t, "0.0.0.0:8000", cfg.Address())
	assert.Equal(t, "./pdfs", cfg.Storage.PDFDir)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Deployment)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_IndexNameFromEnv(t *testing.T) {
	setEnv(t, "")
	t.Setenv(EnvSearchIndexName, "manuals")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "manuals", cfg.Search.IndexName)
}

func TestLoad_ConfigFile(t *testing.T) {
	setEnv(t, "")
	t.Setenv("AZRAG_SERVER_PORT", "")

	path := filepath.Join(t.TempDir(), "azrag.yaml")
	content := "server:\n  port: 9100\nsearch:\n  ready_timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Search.ReadyTimeout)
	// environment still wins over the file for bound keys
	assert.Equal(t, "admin-key", cfg.Search.AdminKey)
}

func TestValidate_NamesEachMissingVariable(t *testing.T) {
	for env := range requiredEnv {
		t.Run(env, func(t *testing.T) {
			setEnv(t, env)

			cfg, err := Load("")
			require.NoError(t, err)

			err = cfg.Validate()
			var missing *MissingError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, []string{env}, missing.Vars)
			assert.Contains(t, err.Error(), env)
		})
	}
}

func TestValidateSearch_EndpointShape(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		valid    bool
	}{
		{"valid", "https://demo.search.windows.net", true},
		{"http scheme", "http://demo.search.windows.net", false},
		{"trailing slash", "https://demo.search.windows.net/", false},
		{"wrong host", "https://demo.example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Search: SearchConfig{Endpoint: tc.endpoint, AdminKey: "k", IndexName: "i"}}
			err := cfg.ValidateSearch()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var endpointErr *EndpointError
			require.ErrorAs(t, err, &endpointErr)
			assert.Equal(t, EnvSearchEndpoint, endpointErr.Var)
			assert.Equal(t, tc.endpoint, endpointErr.Value)
		})
	}
}

func TestValidateOpenAI_EndpointShape(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		valid    bool
	}{
		{"valid", "https://demo.openai.azure.com/", true},
		{"missing trailing slash", "https://demo.openai.azure.com", false},
		{"http scheme", "http://demo.openai.azure.com/", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{OpenAI: OpenAIConfig{Endpoint: tc.endpoint, APIKey: "k", Deployment: "d", APIVersion: "v"}}
			err := cfg.ValidateOpenAI()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var endpointErr *EndpointError
			require.ErrorAs(t, err, &endpointErr)
			assert.Contains(t, endpointErr.Error(), "openai.azure.com/")
		})
	}
}

func TestValidate_MergesMissingAcrossServices(t *testing.T) {
	cfg := &Config{Search: SearchConfig{IndexName: DefaultIndexName}}

	var missing *MissingError
	require.ErrorAs(t, cfg.Validate(), &missing)
	assert.Equal(t, []string{
		EnvSearchEndpoint,
		EnvSearchAdminKey,
		EnvOpenAIEndpoint,
		EnvOpenAIAPIKey,
		EnvOpenAIDeployment,
		EnvOpenAIAPIVersion,
	}, missing.Vars)
}
