package domain

import "time"

// UnknownSource is recorded when a chunk has no originating file
const UnknownSource = "unknown"

// Chunk is a bounded slice of extracted document text
type Chunk struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
}

// SearchDocument is the shape of a chunk stored in the search index.
// ID is the chunk's position within one upload run and is not stable
// across re-ingestion.
type SearchDocument struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// IndexingResult is the per-document outcome reported by the search service
type IndexingResult struct {
	Key          string `json:"key"`
	Succeeded    bool   `json:"status"`
	StatusCode   int    `json:"statusCode"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// BatchResult summarizes one upload batch
type BatchResult struct {
	Number    int `json:"number"`
	Size      int `json:"size"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// UploadSummary summarizes a full upload run
type UploadSummary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Batches   []BatchResult `json:"batches"`
}

// Setup run status constants
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusEmpty     = "empty"
	RunStatusFailed    = "failed"
)

// SetupRun records one index setup run in the local ledger
type SetupRun struct {
	ID         string     `json:"id"`
	IndexName  string     `json:"index_name"`
	Status     string     `json:"status"`
	Files      int        `json:"files"`
	Chunks     int        `json:"chunks"`
	Uploaded   int        `json:"uploaded"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
