package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// DefaultPageSize is the page size used when none is configured
const DefaultPageSize = 100

// Service orchestrates one synchronization run: acquire the per-tenant
// per-source run lock, connect a session, sweep the source page by
// page, reconcile each record in isolation, and always report a
// SyncResult instead of failing — connection-level failures abort the
// batch, item-level failures cost exactly one item.
type Service struct {
	registry   sync.SourceRegistry
	reconciler *Reconciler
	runRepo    sync.RunRepository
	runLock    sync.RunLock
	logger     *zap.Logger
	pageSize   int
}

// NewService creates a new sync Service
func NewService(
	registry sync.SourceRegistry,
	reconciler *Reconciler,
	runRepo sync.RunRepository,
	runLock sync.RunLock,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:   registry,
		reconciler: reconciler,
		runRepo:    runRepo,
		runLock:    runLock,
		logger:     logger,
		pageSize:   DefaultPageSize,
	}
}

// WithPageSize overrides the fetch page size. Values outside the
// source page bounds are clamped per page at fetch time.
func (s *Service) WithPageSize(size int) *Service {
	if size > 0 {
		s.pageSize = size
	}
	return s
}

// SyncAll synchronizes every product the source exposes for the tenant
func (s *Service) SyncAll(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode, creds sync.Credentials, triggeredBy string) *sync.SyncResult {
	return s.run(ctx, tenantID, source, creds, sync.Filters{}, triggeredBy)
}

// SyncFiltered synchronizes the subset of the source's products that
// match the filters; filter interpretation is source-specific.
func (s *Service) SyncFiltered(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode, creds sync.Credentials, filters sync.Filters, triggeredBy string) *sync.SyncResult {
	return s.run(ctx, tenantID, source, creds, filters, triggeredBy)
}

// TestSource performs a connection handshake without syncing anything.
// A nil return means the credentials work; any failure is a
// *sync.ConnectionError carrying the failure class.
func (s *Service) TestSource(ctx context.Context, source sync.SourceCode, creds sync.Credentials) error {
	adapter, err := s.registry.GetAdapter(source)
	if err != nil {
		return err
	}
	session := sync.NewSession(source)
	defer session.Release()
	return session.Connect(ctx, adapter, creds)
}

// GetRun returns one run record for the tenant
func (s *Service) GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*RunResponse, error) {
	run, err := s.runRepo.FindByIDForTenant(ctx, tenantID, runID)
	if err != nil {
		return nil, err
	}
	return ToRunResponse(run), nil
}

// ListRuns lists run history for the tenant, newest first. A non-empty
// source narrows the list to that source.
func (s *Service) ListRuns(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode, filter shared.Filter) (*shared.Paginated[RunResponse], error) {
	var (
		runs []sync.Run
		err  error
	)
	if source != "" {
		if !source.IsValid() {
			return nil, sync.ErrUnknownSource
		}
		runs, err = s.runRepo.FindBySource(ctx, tenantID, source, filter)
	} else {
		runs, err = s.runRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.runRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToRunResponses(runs), total, filter.Page, filter.Limit())
	return &paginated, nil
}

func (s *Service) run(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode, creds sync.Credentials, filters sync.Filters, triggeredBy string) *sync.SyncResult {
	result := sync.NewSyncResult(source)

	adapter, err := s.registry.GetAdapter(source)
	if err != nil {
		return result.Abort(err)
	}

	acquired, err := s.runLock.TryAcquire(ctx, tenantID, source)
	if err != nil {
		return result.Abort(fmt.Errorf("acquire run lock: %w", err))
	}
	if !acquired {
		return result.Abort(sync.ErrSyncInProgress)
	}
	defer func() {
		// release must survive a cancelled request context
		if err := s.runLock.Release(context.WithoutCancel(ctx), tenantID, source); err != nil {
			s.logger.Warn("failed to release run lock",
				zap.String("tenant_id", tenantID.String()),
				zap.String("source", source.String()),
				zap.Error(err))
		}
	}()

	run, err := sync.NewRun(tenantID, source, triggeredBy)
	if err != nil {
		return result.Abort(err)
	}

	session := sync.NewSession(source)
	if err := session.Connect(ctx, adapter, creds); err != nil {
		result.Abort(err)
		s.saveRun(ctx, run, result)
		return result
	}
	defer session.Release()

	s.logger.Info("sync started",
		zap.String("tenant_id", tenantID.String()),
		zap.String("source", source.String()))

	s.sweep(ctx, adapter, creds, filters, tenantID, result)

	result.Finish()
	s.saveRun(ctx, run, result)

	s.logger.Info("sync finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("source", source.String()),
		zap.Bool("success", result.Success),
		zap.Int("created", result.CreatedCount),
		zap.Int("updated", result.UpdatedCount),
		zap.Int("errors", result.ErrorCount))
	return result
}

// sweep walks the source page by page, reconciling each record. A
// fetch failure before any item was processed aborts the batch; one
// mid-sweep stops it but keeps the counts accumulated so far.
// Cancellation is checked before each item so at most the in-flight
// record is persisted after the caller gives up.
func (s *Service) sweep(ctx context.Context, adapter sync.SourceAdapter, creds sync.Credentials, filters sync.Filters, tenantID uuid.UUID, result *sync.SyncResult) {
	page := sync.Page{Number: 1, Size: s.pageSize}
	for {
		fetched, err := adapter.FetchPage(ctx, creds, filters, page)
		if err != nil {
			if result.Total() == 0 {
				result.Abort(err)
				return
			}
			result.Record(sync.ErrOutcome(sync.NewPersistenceError(
				fmt.Sprintf("page %d", page.Number), err)))
			return
		}

		for _, record := range fetched.Items {
			if err := ctx.Err(); err != nil {
				result.Record(sync.ErrOutcome(sync.NewPersistenceError(record.Ref(), err)))
				return
			}
			result.Record(s.processRecord(ctx, adapter, tenantID, record))
		}

		if !fetched.HasMore {
			return
		}
		page.Number++
	}
}

func (s *Service) processRecord(ctx context.Context, adapter sync.SourceAdapter, tenantID uuid.UUID, record sync.NativeRecord) sync.ItemOutcome {
	normalized, err := adapter.Normalize(record)
	if err != nil {
		return sync.ErrOutcome(asItemError(record.Ref(), sync.ItemErrorMapping, err))
	}

	effect, err := s.reconciler.Reconcile(ctx, tenantID, normalized)
	if err != nil {
		s.logger.Debug("record rejected",
			zap.String("tenant_id", tenantID.String()),
			zap.String("ref", record.Ref()),
			zap.Error(err))
		return sync.ErrOutcome(asItemError(record.Ref(), sync.ItemErrorValidation, err))
	}
	return sync.OkOutcome(record.Ref(), effect)
}

// asItemError keeps an *sync.ItemError as-is and wraps anything else
// under the given kind so no bare error reaches the batch result.
func asItemError(ref string, kind sync.ItemErrorKind, err error) *sync.ItemError {
	var itemErr *sync.ItemError
	if errors.As(err, &itemErr) {
		return itemErr
	}
	return &sync.ItemError{Kind: kind, Ref: ref, Err: err}
}

// saveRun persists the run record; a storage failure here is logged
// but never surfaced, the SyncResult is the caller's artifact.
func (s *Service) saveRun(ctx context.Context, run *sync.Run, result *sync.SyncResult) {
	run.Complete(result)
	if err := s.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("failed to persist sync run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
	}
}
