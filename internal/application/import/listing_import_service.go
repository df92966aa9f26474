package importapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/listing"
	"github.com/sellerdesk/backend/internal/domain/shared"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/sellerdesk/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListingImportService runs listing file imports with the same pipeline as
// order imports: parse, deduplicate by item id, insert in batches, record.
type ListingImportService struct {
	accountRepo account.Repository
	listingRepo listing.Repository
	historyRepo bulk.ImportHistoryRepository
	tracker     *csvimport.Tracker
	archiver    storage.Archiver
	logger      *zap.Logger
	limits      Limits
}

// NewListingImportService creates a new ListingImportService
func NewListingImportService(
	accountRepo account.Repository,
	listingRepo listing.Repository,
	historyRepo bulk.ImportHistoryRepository,
	tracker *csvimport.Tracker,
	archiver storage.Archiver,
	logger *zap.Logger,
	limits Limits,
) *ListingImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingImportService{
		accountRepo: accountRepo,
		listingRepo: listingRepo,
		historyRepo: historyRepo,
		tracker:     tracker,
		archiver:    archiver,
		logger:      logger,
		limits:      limits.normalized(),
	}
}

// Submit validates the target account, registers an upload session and kicks
// off the import in the background
func (s *ListingImportService) Submit(ctx context.Context, accountID uuid.UUID, fileName string, data []byte) (uuid.UUID, error) {
	acc, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	if !acc.Active {
		return uuid.Nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot import into an inactive account")
	}

	uploadID := s.tracker.Begin(accountID, csvimport.KindListing, fileName, int64(len(data)))
	go s.run(uploadID, accountID, fileName, data)
	return uploadID, nil
}

func (s *ListingImportService) run(uploadID, accountID uuid.UUID, fileName string, data []byte) {
	ctx := context.Background()
	log := s.logger.With(
		zap.String("upload_id", uploadID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("file_name", fileName),
	)

	history, err := bulk.NewImportHistory(accountID, bulk.ImportKindListings, fileName, int64(len(data)))
	if err != nil {
		s.tracker.Fail(uploadID, err.Error())
		return
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		log.Error("failed to create import history", zap.Error(err))
		s.tracker.Fail(uploadID, "failed to record import")
		return
	}

	key := storage.ArchiveKey(accountID, uploadID, fileName)
	if err := s.archiver.Archive(ctx, key, data, "text/csv"); err != nil {
		log.Warn("failed to archive import file", zap.Error(err))
	}

	s.tracker.Update(uploadID, csvimport.StateParsing, 5, "parsing file")

	reader, err := csvimport.NewRecordReaderFromBytes(data, csvimport.KindListing)
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
		return s.listingRepo.ExistingItemIDs(ctx, accountID, keys)
	})
	fresh, dups, err := detector.Partition(ctx, records)
	if err != nil {
		s.failRun(ctx, log, uploadID, history, rowErrs, "duplicate check failed: "+err.Error())
		return
	}

	listings := make([]*listing.Listing, 0, len(fresh))
	for _, rec := range fresh {
		l, rowErr := buildListing(accountID, rec)
		if rowErr != nil {
			rowErrs.Add(*rowErr)
			continue
		}
		listings = append(listings, l)
	}

	imported, conflicts, err := s.insertBatches(ctx, uploadID, listings)
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

	log.Info("listing import finished",
		zap.Int("total_rows", total),
		zap.Int("imported_rows", imported),
		zap.Int("duplicate_rows", duplicates),
		zap.Int("skipped_rows", skipped),
	)
}

func (s *ListingImportService) insertBatches(ctx context.Context, uploadID uuid.UUID, listings []*listing.Listing) (int, int, error) {
	imported, conflicts := 0, 0
	for start := 0; start < len(listings); start += s.limits.BatchSize {
		end := start + s.limits.BatchSize
		if end > len(listings) {
			end = len(listings)
		}
		ins, conf, err := s.listingRepo.InsertBatch(ctx, listings[start:end])
		if err != nil {
			return imported, conflicts, err
		}
		imported += ins
		conflicts += conf

		percent := 20 + (75*end)/len(listings)
		s.tracker.Update(uploadID, csvimport.StateImporting, percent,
			fmt.Sprintf("imported %d of %d rows", end, len(listings)))
	}
	return imported, conflicts, nil
}

func (s *ListingImportService) failRun(
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
	log.Warn("listing import failed", zap.String("reason", message))
}

// buildListing maps a parsed record onto a domain listing
func buildListing(accountID uuid.UUID, rec *csvimport.NormalizedRecord) (*listing.Listing, *csvimport.RowError) {
	l, err := listing.NewListing(accountID, rec.Get("Item Id"), rec.Get("Title"))
	if err != nil {
		rowErr := csvimport.NewRowError(rec.RowIndex, "", csvimport.ErrCodeImportInvalidRow, err.Error())
		return nil, &rowErr
	}

	if sku := rec.Get("SKU"); sku != "" {
		l.SetSKU(sku)
	}

	if priceStr := rec.Get("Price"); priceStr != "" {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Price", csvimport.ErrCodeImportInvalidRow, "invalid decimal value")
			return nil, &rowErr
		}
		if err := l.SetPrice(price, rec.Get("Currency")); err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Price", csvimport.ErrCodeImportInvalidRow, err.Error())
			return nil, &rowErr
		}
	}

	if qty := rec.Get("Quantity"); qty != "" {
		n, err := parsePositiveInt(qty)
		if err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Quantity", csvimport.ErrCodeImportInvalidRow, err.Error())
			return nil, &rowErr
		}
		if err := l.SetQuantity(n); err != nil {
			rowErr := csvimport.NewRowError(rec.RowIndex, "Quantity", csvimport.ErrCodeImportInvalidRow, err.Error())
			return nil, &rowErr
		}
	}

	return l, nil
}
