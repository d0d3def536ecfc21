package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// SyncRequest triggers a run against one source
type SyncRequest struct {
	Source  string            `json:"source" binding:"required"`
	Filters SyncFilterRequest `json:"filters"`
}

// SyncFilterRequest narrows a run to a subset of the source's products
type SyncFilterRequest struct {
	Status       string            `json:"status"`
	Search       string            `json:"search"`
	UpdatedSince *time.Time        `json:"updated_since"`
	Raw          map[string]string `json:"raw"`
}

// ToFilters converts to domain filters
func (r SyncFilterRequest) ToFilters() sync.Filters {
	return sync.Filters{
		Status:       r.Status,
		Search:       r.Search,
		UpdatedSince: r.UpdatedSince,
		Raw:          r.Raw,
	}
}

// TestConnectionResponse reports a handshake attempt
type TestConnectionResponse struct {
	Source    string `json:"source"`
	Connected bool   `json:"connected"`
	Class     string `json:"class,omitempty"`
	Message   string `json:"message,omitempty"`
}

// RunResponse is a run record in API form
type RunResponse struct {
	ID           uuid.UUID  `json:"id"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	SyncedCount  int        `json:"synced_count"`
	CreatedCount int        `json:"created_count"`
	UpdatedCount int        `json:"updated_count"`
	ErrorCount   int        `json:"error_count"`
	Errors       []string   `json:"errors,omitempty"`
	TriggeredBy  string     `json:"triggered_by,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// ToRunResponse converts a run record to its API form
func ToRunResponse(run *sync.Run) *RunResponse {
	return &RunResponse{
		ID:           run.ID,
		Source:       run.Source.String(),
		Status:       string(run.Status),
		SyncedCount:  run.SyncedCount,
		CreatedCount: run.CreatedCount,
		UpdatedCount: run.UpdatedCount,
		ErrorCount:   run.ErrorCount,
		Errors:       run.Errors,
		TriggeredBy:  run.TriggeredBy,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}

// ToRunResponses converts a slice of run records
func ToRunResponses(runs []sync.Run) []RunResponse {
	responses := make([]RunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, *ToRunResponse(&runs[i]))
	}
	return responses
}
