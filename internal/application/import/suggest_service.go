package importapp

import (
	"bytes"
	"context"
	"io"

	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/sellerdesk/backend/internal/infrastructure/cache"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// tokenScanRows bounds how many data rows are inspected for a seller token.
// Exports carry the seller column on every row, so a handful is plenty.
const tokenScanRows = 20

// SuggestService proposes which seller account an uploaded file belongs to,
// based on seller-username tokens found in the file's metadata columns.
type SuggestService struct {
	accountRepo account.Repository
	accounts    cache.AccountCache
	matcher     *account.Matcher
	logger      *zap.Logger
}

// NewSuggestService creates a new SuggestService
func NewSuggestService(
	accountRepo account.Repository,
	accounts cache.AccountCache,
	matcher *account.Matcher,
	logger *zap.Logger,
) *SuggestService {
	if matcher == nil {
		matcher = account.NewMatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestService{
		accountRepo: accountRepo,
		accounts:    accounts,
		matcher:     matcher,
		logger:      logger,
	}
}

// SuggestForFile parses the head of an uploaded file, extracts a seller
// token and ranks the active accounts against it. It returns the detected
// token alongside the candidates. No token or no match yields an empty
// slice, never an error; only a structurally invalid file fails.
func (s *SuggestService) SuggestForFile(ctx context.Context, kind csvimport.RecordKind, data []byte) (string, []account.MatchCandidate, error) {
	token, err := extractSellerToken(data, kind)
	if err != nil {
		return "", nil, err
	}
	candidates, err := s.Suggest(ctx, token)
	if err != nil {
		return "", nil, err
	}
	return token, candidates, nil
}

// Suggest ranks the active accounts against a seller username token
func (s *SuggestService) Suggest(ctx context.Context, token string) ([]account.MatchCandidate, error) {
	if token == "" {
		return []account.MatchCandidate{}, nil
	}

	accounts, err := s.activeAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Suggest(token, accounts), nil
}

// activeAccounts returns the active account set, cache first
func (s *SuggestService) activeAccounts(ctx context.Context) ([]account.Account, error) {
	if s.accounts != nil {
		cached, ok, err := s.accounts.GetActiveAccounts(ctx)
		if err != nil {
			s.logger.Warn("account cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.Filters = map[string]interface{}{"active": true}
	accounts, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.accounts != nil {
		if err := s.accounts.SetActiveAccounts(ctx, accounts); err != nil {
			s.logger.Warn("account cache write failed", zap.Error(err))
		}
	}
	return accounts, nil
}

// extractSellerToken scans the file head for the first non-empty seller
// username token
func extractSellerToken(data []byte, kind csvimport.RecordKind) (string, error) {
	reader, err := csvimport.NewRecordReader(bytes.NewReader(data), kind)
	if err != nil {
		return "", err
	}

	schema := reader.Schema()
	for i := 0; i < tokenScanRows; i++ {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skipped rows cannot carry a usable token; keep scanning
			continue
		}
		if token := schema.SellerToken(rec); token != "" {
			return token, nil
		}
	}
	return "", nil
}
