package sync

import "time"

// ItemEffect is the branch the reconciler took for one item
type ItemEffect string

const (
	EffectCreated ItemEffect = "created"
	EffectUpdated ItemEffect = "updated"
)

// ItemOutcome is the explicit per-item result collected by the batch
// processor: either an effect or an item-fatal error, never a panic.
type ItemOutcome struct {
	Ref    string
	Effect ItemEffect
	Err    *ItemError
}

// OkOutcome creates a successful item outcome
func OkOutcome(ref string, effect ItemEffect) ItemOutcome {
	return ItemOutcome{Ref: ref, Effect: effect}
}

// ErrOutcome creates a failed item outcome
func ErrOutcome(err *ItemError) ItemOutcome {
	return ItemOutcome{Ref: err.Ref, Err: err}
}

// Ok reports whether the item was synced
func (o ItemOutcome) Ok() bool {
	return o.Err == nil
}

// SyncResult is the single reported artifact of a batch run.
// Created and updated counts reflect the branch actually taken for
// each item, never an estimate.
type SyncResult struct {
	Source       SourceCode `json:"source"`
	Success      bool       `json:"success"`
	SyncedCount  int        `json:"synced_count"`
	CreatedCount int        `json:"created_count"`
	UpdatedCount int        `json:"updated_count"`
	ErrorCount   int        `json:"error_count"`
	Errors       []string   `json:"errors,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   time.Time  `json:"finished_at"`
}

// NewSyncResult starts a result for a run against the given source
func NewSyncResult(source SourceCode) *SyncResult {
	return &SyncResult{
		Source:    source,
		Errors:    make([]string, 0),
		StartedAt: time.Now(),
	}
}

// Record folds one item outcome into the result
func (r *SyncResult) Record(outcome ItemOutcome) {
	if !outcome.Ok() {
		r.ErrorCount++
		r.Errors = append(r.Errors, outcome.Err.Error())
		return
	}
	r.SyncedCount++
	switch outcome.Effect {
	case EffectCreated:
		r.CreatedCount++
	case EffectUpdated:
		r.UpdatedCount++
	}
}

// Abort marks the run batch-fatal: no items processed, a single
// top-level error.
func (r *SyncResult) Abort(err error) *SyncResult {
	r.Success = false
	r.SyncedCount = 0
	r.CreatedCount = 0
	r.UpdatedCount = 0
	r.ErrorCount = 1
	r.Errors = []string{err.Error()}
	r.FinishedAt = time.Now()
	return r
}

// Finish closes the run. Success requires zero item errors.
func (r *SyncResult) Finish() *SyncResult {
	r.Success = r.ErrorCount == 0
	r.FinishedAt = time.Now()
	return r
}

// Total returns the number of items the run attempted
func (r *SyncResult) Total() int {
	return r.SyncedCount + r.ErrorCount
}
