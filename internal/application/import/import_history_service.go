package importapp

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/bulk"
)

// ImportHistoryService exposes the durable record of past import runs
type ImportHistoryService struct {
	historyRepo bulk.ImportHistoryRepository
}

// NewImportHistoryService creates a new ImportHistoryService
func NewImportHistoryService(historyRepo bulk.ImportHistoryRepository) *ImportHistoryService {
	return &ImportHistoryService{
		historyRepo: historyRepo,
	}
}

// GetHistory retrieves a specific import history by ID
func (s *ImportHistoryService) GetHistory(ctx context.Context, historyID uuid.UUID) (*bulk.ImportHistory, error) {
	return s.historyRepo.FindByID(ctx, historyID)
}

// ListHistoryFilter defines the filter options for listing import histories
type ListHistoryFilter struct {
	AccountID *uuid.UUID
	Kind      string
	Status    string
}

// ListHistory retrieves import history with pagination and filtering.
// Unknown kind or status values are ignored rather than rejected.
func (s *ImportHistoryService) ListHistory(
	ctx context.Context,
	filter ListHistoryFilter,
	page, pageSize int,
) ([]*bulk.ImportHistory, int64, error) {
	repoFilter := bulk.ImportHistoryFilter{
		AccountID: filter.AccountID,
	}

	if filter.Kind != "" {
		kind := bulk.ImportKind(filter.Kind)
		if kind.IsValid() {
			repoFilter.Kind = &kind
		}
	}

	if filter.Status != "" {
		status := bulk.ImportStatus(filter.Status)
		switch status {
		case bulk.ImportStatusProcessing, bulk.ImportStatusCompleted, bulk.ImportStatusFailed:
			repoFilter.Status = &status
		}
	}

	return s.historyRepo.FindAll(ctx, repoFilter, page, pageSize)
}

// GetErrorsCSV generates a CSV of a run's error details for download.
// Returns the content and a suggested filename.
func (s *ImportHistoryService) GetErrorsCSV(ctx context.Context, historyID uuid.UUID) (string, string, error) {
	history, err := s.historyRepo.FindByID(ctx, historyID)
	if err != nil {
		return "", "", err
	}

	if len(history.ErrorDetails) == 0 {
		return "", "", fmt.Errorf("no errors to export")
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"Row", "Column", "Error Code", "Error Message"}); err != nil {
		return "", "", fmt.Errorf("failed to write error CSV: %w", err)
	}
	for _, e := range history.ErrorDetails {
		row := []string{strconv.Itoa(e.Row), e.Column, e.Code, e.Message}
		if err := w.Write(row); err != nil {
			return "", "", fmt.Errorf("failed to write error CSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", "", fmt.Errorf("failed to write error CSV: %w", err)
	}

	fileName := fmt.Sprintf("import_errors_%s_%s.csv",
		history.Kind,
		history.ID.String()[:8],
	)

	return sb.String(), fileName, nil
}
