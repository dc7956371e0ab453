package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/liliang-cn/azrag/internal/domain"
	"github.com/liliang-cn/azrag/internal/search"
)

func responseError(status int) error {
	req := httptest.NewRequest(http.MethodGet, "https://demo.search.windows.net/indexes", nil)
	return &azcore.ResponseError{
		StatusCode:  status,
		ErrorCode:   http.StatusText(status),
		RawResponse: &http.Response{StatusCode: status, Status: http.StatusText(status), Request: req},
	}
}

// fakeSearch is an in-memory stand-in for the Azure AI Search service
type fakeSearch struct {
	mu      sync.Mutex
	indexes map[string]*domain.Index
	docs    map[string][]domain.SearchDocument

	// batches records the size of every upload call
	batches [][]domain.SearchDocument
	// failBatch makes the n-th (1-based) upload call return a transport error
	failBatch int
	// rejectKeys marks document keys the service reports as failed
	rejectKeys map[string]bool
	// deleteErr is returned by DeleteIndex when set
	deleteErr error
	// staleReads makes GetIndex report the previous state this many times
	staleReads int
	calls      []string
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{
		indexes: make(map[string]*domain.Index),
		docs:    make(map[string][]domain.SearchDocument),
	}
}

func (f *fakeSearch) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeSearch) ListIndexes(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")

	var names []string
	for name := range f.indexes {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeSearch) GetIndex(ctx context.Context, name string) (*domain.Index, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get")

	idx, ok := f.indexes[name]
	if f.staleReads > 0 {
		f.staleReads--
		ok = !ok
	}
	if !ok {
		return nil, responseError(http.StatusNotFound)
	}
	if idx == nil {
		return &domain.Index{Name: name}, nil
	}
	copied := *idx
	return &copied, nil
}

func (f *fakeSearch) CreateIndex(ctx context.Context, index domain.Index) (*domain.Index, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")

	f.indexes[index.Name] = &index
	f.docs[index.Name] = nil
	return &index, nil
}

func (f *fakeSearch) DeleteIndex(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.indexes[name]; !ok {
		return responseError(http.StatusNotFound)
	}
	delete(f.indexes, name)
	delete(f.docs, name)
	return nil
}

func (f *fakeSearch) UploadDocuments(ctx context.Context, indexName string, docs []domain.SearchDocument) ([]domain.IndexingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("upload")

	f.batches = append(f.batches, docs)
	if f.failBatch == len(f.batches) {
		return nil, responseError(http.StatusServiceUnavailable)
	}

	results := make([]domain.IndexingResult, len(docs))
	for i, d := range docs {
		ok := !f.rejectKeys[d.ID]
		results[i] = domain.IndexingResult{Key: d.ID, Succeeded: ok}
		if ok {
			f.docs[indexName] = append(f.docs[indexName], d)
		}
	}
	return results, nil
}

func (f *fakeSearch) Search(ctx context.Context, indexName string, q search.Query) (*search.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("search")

	if _, ok := f.indexes[indexName]; !ok {
		return nil, responseError(http.StatusNotFound)
	}

	var hits []search.Result
	for _, d := range f.docs[indexName] {
		if q.Search == "*" || strings.Contains(d.Content, q.Search) {
			hits = append(hits, search.Result{ID: d.ID, Content: d.Content, Source: d.Source})
		}
	}

	out := &search.Results{}
	if q.Count {
		n := int64(len(hits))
		out.Count = &n
	}
	out.Value = hits
	return out, nil
}
