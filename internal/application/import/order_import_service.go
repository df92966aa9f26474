package importapp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/sellerdesk/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Limits bounds a single import run
type Limits struct {
	MaxRows   int
	MaxErrors int
	BatchSize int
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{
		MaxRows:   50000,
		MaxErrors: 100,
		BatchSize: 500,
	}
}

func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MaxRows <= 0 {
		l.MaxRows = d.MaxRows
	}
	if l.MaxErrors <= 0 {
		l.MaxErrors = d.MaxErrors
	}
	if l.BatchSize <= 0 {
		l.BatchSize = d.BatchSize
	}
	return l
}

// saleDateFormats are tried in order when parsing the optional Sale Date
// column. Marketplace exports are inconsistent about time components.
var saleDateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// OrderImportService runs order file imports: parse, deduplicate, insert in
// batches, and record the run. Submit returns immediately; the import runs in
// the background and progress is observed through the tracker.
type OrderImportService struct {
	accountRepo account.Repository
	orderRepo   order.Repository
	historyRepo bulk.ImportHistoryRepository
	tracker     *csvimport.Tracker
	archiver    storage.Archiver
	logger      *zap.Logger
	limits      Limits
}

// NewOrderImportService creates a new OrderImportService
func NewOrderImportService(
	accountRepo account.Repository,
	orderRepo order.Repository,
	historyRepo bulk.ImportHistoryRepository,
	tracker *csvimport.Tracker,
	archiver storage.Archiver,
	logger *zap.Logger,
	limits Limits,
) *OrderImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderImportService{
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		tracker:     tracker,
		archiver:    archiver,
		logger:      logger,
		limits:      limits.normalized(),
	}
}

// Submit validates the target account, registers an upload session and kicks
// off the import in the background. The returned id is the handle for
// progress polling.
func (s *OrderImportService) Submit(ctx context.Context, accountID uuid.UUID, fileName string, data []byte) (uuid.UUID, error) {
	acc, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	if !acc.Active {
		return uuid.Nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot import into an inactive account")
	}

	uploadID := s.tracker.Begin(accountID, csvimport.KindOrder, fileName, int64(len(data)))
	go s.run(uploadID, accountID, fileName, data)
	return uploadID, nil
}

// run executes the import. It owns its context: the request that submitted
// the upload is long gone by the time batches land.
func (s *OrderImportService) run(uploadID, accountID uuid.UUID, fileName string, data []byte) {
	ctx := context.Background()
	log := s.logger.With(
		zap.String("upload_id", uploadID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("file_name", fileName),
	)

	history, err := bulk.NewImportHistory(accountID, bulk.ImportKindOrders, fileName, int64(len(data)))
	if err != nil {
		s.tracker.Fail(uploadID, err.Error())
		return
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		log.Error("failed to create import history", zap.Error(err))
		s.tracker.Fail(uploadID, "failed to record import")
		return
	}

	// Best effort; a missing archive copy never fails the import
	key := storage.ArchiveKey(accountID, uploadID, fileName)
	if err := s.archiver.Archive(ctx, key, data, "text/csv"); err != nil {
		log.Warn("failed to archive import file", zap.Error(err))
	}

	s.tracker.Update(uploadID, csvimport.StateParsing, 5, "parsing file")

	reader, err := csvimport.NewRecordReaderFromBytes(data, csvimport.KindOrder)
	if err != nil {
		s.failRun(ctx, log, uploadID, history, nil, err.Error())
		return
	}

	records, rowErrs, total, err := reader.ReadAll(s.limits.MaxErrors)
	if err != nil {
		s.failRun(ctx, log, uploadID, history, rowErrs, err.Error())
		return
	}
	if total > s.limits.MaxRows {
		s.failRun(ctx, log, uploadID, history, rowErrs,
			fmt.Sprintf("file has %d rows, limit is %d", total, s.limits.MaxRows))
		return
	}

	s.tracker.Update(uploadID, csvimport.StateImporting, 20, "checking for duplicates")

	detector := NewDuplicateDetector(func(ctx context.Context, keys []string) (map[string]struct{}, error) {
		return s.orderRepo.ExistingNumbers(ctx, accountID, keys)
	})
	fresh, dups, err := detector.Partition(ctx, records)
	if err != nil {
		s.failRun(ctx, log, uploadID, history, rowErrs, "duplicate check failed: "+err.Error())
		return
	}

	orders := make([]*order.Order, 0, len(fresh))
	for _, rec := range fresh {
		o, rowErr := buildOrder(accountID, rec)
		if rowErr != nil {
			rowErrs.Add(*rowErr)
			continue
		}
		orders = append(orders, o)
	}

	imported, conflicts, err := s.insertBatches(ctx, uploadID, orders)
	if err != nil {
		s.failRun(ctx, log, uploadID, history, rowErrs, "insert failed: "+err.Error())
		return
	}

	duplicates := len(dups) + conflicts
	skipped := total - imported - duplicates

	summary := csvimport.ImportSummary{
		TotalRows:     total,
		ImportedRows:  imported,
		DuplicateRows: duplicates,
		SkippedRows:   skipped,
		Errors:        rowErrs.Errors(),
		ErrorCount:    rowErrs.TotalCount(),
	}
	if err := history.Complete(total, imported, duplicates, skipped, errorDetails(rowErrs)); err != nil {
		log.Error("failed to complete import history", zap.Error(err))
	} else if err := s.historyRepo.Save(ctx, history); err != nil {
		log.Error("failed to save import history", zap.Error(err))
	}
	s.tracker.Complete(uploadID, summary)

	log.Info("order import finished",
		zap.Int("total_rows", total),
		zap.Int("imported_rows", imported),
		zap.Int("duplicate_rows", duplicates),
		zap.Int("skipped_rows", skipped),
	)
}

// insertBatches persists the orders in fixed-size batches, advancing progress
// between 20 and 95 percent
func (s *OrderImportService) insertBatches(ctx context.Context, uploadID uuid.UUID, orders []*order.Order) (int, int, error) {
	imported, conflicts := 0, 0
	for start := 0; start < len(orders); start += s.limits.BatchSize {
		end := start + s.limits.BatchSize
		if end > len(orders) {
			end = len(orders)
		}
		ins, conf, err := s.orderRepo.InsertBatch(ctx, orders[start:end])
		if err != nil {
			return imported, conflicts, err
		}
		imported += ins
		conflicts += conf

		percent := 20 + (75*end)/len(orders)
		s.tracker.Update(uploadID, csvimport.StateImporting, percent,
			fmt.Sprintf("imported %d of %d rows", end, len(orders)))
	}
	return imported, conflicts, nil
}

func (s *OrderImportService) failRun(
	ctx context.Context,
	log *zap.Logger,
	uploadID uuid.UUID,
	history *bulk.ImportHistory,
	rowErrs *csvimport.ErrorCollection,
	message string,
) {
	if err := history.Fail(errorDetails(rowErrs)); err != nil {
		log.Error("failed to mark import history failed", zap.Error(err))
	} else if err := s.historyRepo.Save(ctx, history); err != nil {
		log.Error("failed to save import history", zap.Error(err))
	}
	s.tracker.Fail(uploadID, message)
	log.Warn("order import failed", zap.String("reason", message))
}

// buildOrder maps a parsed record onto a domain order. Optional columns are
// applied when present; a domain rejection skips the row with a reported
// error instead of aborting the run.
func buildOrder(accountID uuid.UUID, rec *csvimport.NormalizedRecord) (*order.Order, *csvimport.RowError) {
	o, err := order.NewOrder(accountID, rec.Get("Order Number"), rec.Get("Item Id"), rec.Get("Buyer"))
	if err != nil {
		rowErr := csvimport.NewRowError(rec.RowIndex, "", csvimport.ErrCodeImportInvalidRow, err.Error())
		return nil, &rowErr
	}

	if qty := rec.Get("Quantity"); qty != "" {
		n, err := parsePositiveInt(qty)
		if err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Quantity", csvimport.ErrCodeImportInvalidRow, err.Error())
			return nil, &rowErr
		}
		if err := o.SetQuantity(n); err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Quantity", csvimport.ErrCodeImportInvalidRow, err.Error())
			return nil, &rowErr
		}
	}

	if totalStr := rec.Get("Total"); totalStr != "" {
		amount, err := decimal.NewFromString(totalStr)
		if err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Total", csvimport.ErrCodeImportInvalidRow, "invalid decimal value")
			return nil, &rowErr
		}
		if err := o.SetAmount(amount, rec.Get("Currency")); err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Total", csvimport.ErrCodeImportInvalidRow, err.Error())
			return nil, &rowErr
		}
	}

	if dateStr := rec.Get("Sale Date"); dateStr != "" {
		if ts, ok := parseSaleDate(dateStr); ok {
			o.SetOrderedAt(ts)
		}
		// An unparseable date is dropped, not fatal; the order itself is fine
	}

	return o, nil
}

func parseSaleDate(value string) (time.Time, bool) {
	for _, layout := range saleDateFormats {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value")
	}
	return n, nil
}

// errorDetails converts accumulated row errors into the history record shape
func errorDetails(rowErrs *csvimport.ErrorCollection) []bulk.ImportErrorDetail {
	if rowErrs == nil {
		return nil
	}
	errs := rowErrs.Errors()
	details := make([]bulk.ImportErrorDetail, len(errs))
	for i, e := range errs {
		details[i] = bulk.ImportErrorDetail{
			Row:     e.Row,
			Column:  e.Column,
			Code:    e.Code,
			Message: e.Message,
		}
	}
	return details
}
