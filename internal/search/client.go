// Package search is a small Azure AI Search REST client covering index
// management, document upload and full-text queries.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/liliang-cn/azrag/internal/domain"
)

const (
	moduleName    = "azrag/search"
	moduleVersion = "v0.1.0"

	// DefaultAPIVersion is the Azure AI Search REST API version
	DefaultAPIVersion = "2024-07-01"

	// MaxBatchSize is the service ceiling for documents per indexing request
	MaxBatchSize = 1000
)

// ClientOptions configures a Client
type ClientOptions struct {
	azcore.ClientOptions

	// APIVersion overrides DefaultAPIVersion
	APIVersion string
}

// Client talks to one Azure AI Search service
type Client struct {
	endpoint   string
	apiVersion string
	pl         runtime.Pipeline
}

// NewClient creates a client authenticated with an admin API key.
// Retries are disabled unless the caller configures them.
func NewClient(endpoint, adminKey string, opts *ClientOptions) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("search endpoint is required")
	}
	if adminKey == "" {
		return nil, errors.New("search admin key is required")
	}

	var o ClientOptions
	if opts != nil {
		o = *opts
	}
	if o.APIVersion == "" {
		o.APIVersion = DefaultAPIVersion
	}
	if o.Retry.MaxRetries == 0 {
		o.Retry.MaxRetries = -1
	}

	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerCall: []policy.Policy{&apiKeyPolicy{key: adminKey}},
	}, &o.ClientOptions)

	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		apiVersion: o.APIVersion,
		pl:         pl,
	}, nil
}

type apiKeyPolicy struct {
	key string
}

func (p *apiKeyPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set("api-key", p.key)
	return req.Next()
}

// ListIndexes returns the names of all indexes on the service
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/indexes", url.Values{"$select": {"name"}}, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var out struct {
		Value []struct {
			Name string `json:"name"`
		} `json:"value"`
	}
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("decode index list: %w", err)
	}
	names := make([]string, len(out.Value))
	for i, v := range out.Value {
		names[i] = v.Name
	}
	return names, nil
}

// GetIndex fetches an index definition
func (c *Client) GetIndex(ctx context.Context, name string) (*domain.Index, error) {
	req, err := c.newRequest(ctx, http.MethodGet, indexPath(name), nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var index domain.Index
	if err := runtime.UnmarshalAsJSON(resp, &index); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &index, nil
}

// CreateIndex creates a new index
func (c *Client) CreateIndex(ctx context.Context, index domain.Index) (*domain.Index, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/indexes", nil, index)
	if err != nil {
		return nil, err
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusCreated, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var created domain.Index
	if err := runtime.UnmarshalAsJSON(resp, &created); err != nil {
		return nil, fmt.Errorf("decode created index: %w", err)
	}
	return &created, nil
}

// DeleteIndex deletes an index. A missing index surfaces as an error for
// which IsNotFound reports true.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, indexPath(name), nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !runtime.HasStatusCode(resp, http.StatusNoContent, http.StatusOK) {
		return runtime.NewResponseError(resp)
	}
	return nil
}

type indexAction struct {
	Action string `json:"@search.action"`
	domain.SearchDocument
}

// UploadDocuments uploads one batch of documents and returns the per-item
// results. Batches larger than MaxBatchSize are rejected locally.
func (c *Client) UploadDocuments(ctx context.Context, indexName string, docs []domain.SearchDocument) ([]domain.IndexingResult, error) {
	if len(docs) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds limit of %d documents", len(docs), MaxBatchSize)
	}

	actions := make([]indexAction, len(docs))
	for i, d := range docs {
		actions[i] = indexAction{Action: "upload", SearchDocument: d}
	}
	body := struct {
		Value []indexAction `json:"value"`
	}{Value: actions}

	req, err := c.newRequest(ctx, http.MethodPost, indexPath(indexName)+"/docs/index", nil, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusMultiStatus) {
		return nil, runtime.NewResponseError(resp)
	}

	var out struct {
		Value []domain.IndexingResult `json:"value"`
	}
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("decode indexing results: %w", err)
	}
	return out.Value, nil
}

// Query is a full-text search request
type Query struct {
	Search     string `json:"search"`
	Top        int    `json:"top,omitempty"`
	Count      bool   `json:"count,omitempty"`
	Select     string `json:"select,omitempty"`
	SearchMode string `json:"searchMode,omitempty"`
}

// Result is one search hit
type Result struct {
	Score   float64 `json:"@search.score"`
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
}

// Results is a page of search hits in service relevance order
type Results struct {
	Count *int64   `json:"@odata.count"`
	Value []Result `json:"value"`
}

// Search runs a full-text query against an index
func (c *Client) Search(ctx context.Context, indexName string, q Query) (*Results, error) {
	req, err := c.newRequest(ctx, http.MethodPost, indexPath(indexName)+"/docs/search", nil, q)
	if err != nil {
		return nil, err
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var out Results
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	if q.Top > 0 && len(out.Value) > q.Top {
		out.Value = out.Value[:q.Top]
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, method, c.endpoint+path)
	if err != nil {
		return nil, err
	}

	q := req.Raw().URL.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api-version", c.apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	return req, nil
}

func indexPath(name string) string {
	return "/indexes/" + url.PathEscape(name)
}
