package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/azrag/internal/config"
	"github.com/liliang-cn/azrag/internal/search"
	"github.com/liliang-cn/azrag/internal/service"
)

type fakeCompleter struct {
	prompt    string
	maxTokens int
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.prompt = prompt
	f.maxTokens = maxTokens
	return "Hi", f.err
}

func validConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			Endpoint:  "https://demo.search.windows.net",
			AdminKey:  "admin-key",
			IndexName: config.DefaultIndexName,
		},
		OpenAI: config.OpenAIConfig{
			Endpoint:   "https://demo.openai.azure.com/",
			APIKey:     "key",
			Deployment: "gpt-4o",
			APIVersion: "2024-06-01",
		},
	}
}

// newSearchChecker points the search check at a local server
func newSearchChecker(t *testing.T, out *bytes.Buffer, status int, body any) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin-key", r.Header.Get("api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	c := NewChecker(out)
	c.newSearch = func(cfg *config.Config) (IndexLister, error) {
		client, err := search.NewClient(srv.URL, cfg.Search.AdminKey, nil)
		if err != nil {
			return nil, err
		}
		return service.NewIndexService(client, cfg, nil), nil
	}
	return c
}

func TestCheckSearch_Success(t *testing.T) {
	out := &bytes.Buffer{}
	c := newSearchChecker(t, out, http.StatusOK, map[string]any{
		"value": []map[string]string{{"name": "documents-index"}, {"name": "other"}},
	})

	require.NoError(t, c.CheckSearch(context.Background(), validConfig()))
	assert.Contains(t, out.String(), "✅ Successfully connected to Azure Search")
	assert.Contains(t, out.String(), "Found 2 existing indexes:")
	assert.Contains(t, out.String(), "  - documents-index\n")
}

func TestCheckSearch_Forbidden(t *testing.T) {
	out := &bytes.Buffer{}
	c := newSearchChecker(t, out, http.StatusForbidden, map[string]any{
		"error": map[string]string{"code": "Forbidden", "message": "Authorization failed."},
	})

	err := c.CheckSearch(context.Background(), validConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.True(t, search.IsForbidden(err))
	assert.Contains(t, out.String(), "Permission denied.")
	assert.Contains(t, out.String(), "4. Copy the 'Primary admin key' (not the query key)")
}

func TestCheckSearch_OtherError(t *testing.T) {
	out := &bytes.Buffer{}
	c := newSearchChecker(t, out, http.StatusInternalServerError, map[string]any{
		"error": map[string]string{"code": "InternalError", "message": "boom"},
	})

	err := c.CheckSearch(context.Background(), validConfig())
	require.Error(t, err)
	assert.Contains(t, out.String(), "Error details:")
	assert.NotContains(t, out.String(), "Permission denied.")
}

func TestCheckSearch_MissingVariables(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewChecker(out)
	c.newSearch = func(*config.Config) (IndexLister, error) {
		t.Fatal("client must not be created")
		return nil, nil
	}

	cfg := validConfig()
	cfg.Search.AdminKey = ""

	err := c.CheckSearch(context.Background(), cfg)
	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, out.String(), "❌ AZURE_SEARCH_ADMIN_KEY not found")
}

func TestCheckSearch_InvalidEndpoint(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewChecker(out)

	cfg := validConfig()
	cfg.Search.Endpoint = "https://demo.example.com"

	require.Error(t, c.CheckSearch(context.Background(), cfg))
	assert.Contains(t, out.String(), "Invalid endpoint format.")
	assert.Contains(t, out.String(), "Current value: https://demo.example.com")
}

func TestCheckOpenAI_Success(t *testing.T) {
	out := &bytes.Buffer{}
	fake := &fakeCompleter{}
	c := NewChecker(out)
	c.newChat = func(*config.Config) (Completer, error) { return fake, nil }

	require.NoError(t, c.CheckOpenAI(context.Background(), validConfig()))
	assert.Equal(t, "Hello", fake.prompt)
	assert.Equal(t, 5, fake.maxTokens)
	assert.Contains(t, out.String(), "✅ Deployment 'gpt-4o' is working")
}

func TestCheckOpenAI_Failure(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewChecker(out)
	c.newChat = func(*config.Config) (Completer, error) {
		return &fakeCompleter{err: errors.New("401 Unauthorized")}, nil
	}

	err := c.CheckOpenAI(context.Background(), validConfig())
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out.String(), "Error details: 401 Unauthorized")
}

func TestCheckOpenAI_MissingVariables(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewChecker(out)

	cfg := validConfig()
	cfg.OpenAI.Deployment = ""
	cfg.OpenAI.APIVersion = ""

	err := c.CheckOpenAI(context.Background(), cfg)
	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{config.EnvOpenAIDeployment, config.EnvOpenAIAPIVersion}, missing.Vars)
	assert.Contains(t, out.String(), "  - AZURE_DEPLOYMENT_NAME\n")
}
