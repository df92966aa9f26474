package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	importapp "github.com/sellerdesk/backend/internal/application/import"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Fallback upload size ceiling when no limit is configured (10MB)
	defaultMaxImportFileSize = 10 * 1024 * 1024
)

// ImportHandler handles marketplace export upload endpoints
type ImportHandler struct {
	BaseHandler
	orders      *importapp.OrderImportService
	listings    *importapp.ListingImportService
	suggest     *importapp.SuggestService
	history     *importapp.ImportHistoryService
	tracker     *csvimport.Tracker
	maxFileSize int64
}

// NewImportHandler creates a new ImportHandler. maxFileSize caps accepted
// uploads in bytes; zero or negative falls back to the default.
func NewImportHandler(
	orders *importapp.OrderImportService,
	listings *importapp.ListingImportService,
	suggest *importapp.SuggestService,
	history *importapp.ImportHistoryService,
	tracker *csvimport.Tracker,
	maxFileSize int64,
) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxImportFileSize
	}
	return &ImportHandler{
		orders:      orders,
		listings:    listings,
		suggest:     suggest,
		history:     history,
		tracker:     tracker,
		maxFileSize: maxFileSize,
	}
}

// readUploadedFile pulls the "file" multipart part into memory, enforcing
// the size cap and content type before any parsing happens
func (h *ImportHandler) readUploadedFile(c *gin.Context) ([]byte, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return nil, nil, false
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxFileSize))
		return nil, nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "text/tab-separated-values" &&
		contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV or TSV export")
		return nil, nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return nil, nil, false
	}
	if int64(len(data)) > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxFileSize))
		return nil, nil, false
	}
	if len(data) == 0 {
		h.BadRequest(c, "file is empty")
		return nil, nil, false
	}
	return data, header, true
}

// Submit accepts a marketplace export for import. With an account_id the
// import is queued and runs in the background; without one, no import starts
// and the response carries account suggestions for the detected seller token.
func (h *ImportHandler) Submit(c *gin.Context) {
	var req dto.ImportSubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "kind is required and must be one of: order, listing")
		return
	}
	kind := csvimport.RecordKind(req.Kind)

	data, header, ok := h.readUploadedFile(c)
	if !ok {
		return
	}

	if req.AccountID == "" {
		token, candidates, err := h.suggest.SuggestForFile(c.Request.Context(), kind, data)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, dto.SuggestAccountResponse{DetectedToken: token, Candidates: candidates})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var uploadID uuid.UUID
	switch kind {
	case csvimport.KindOrder:
		uploadID, err = h.orders.Submit(c.Request.Context(), accountID, header.Filename, data)
	case csvimport.KindListing:
		uploadID, err = h.listings.Submit(c.Request.Context(), accountID, header.Filename, data)
	default:
		h.BadRequest(c, "kind must be one of: order, listing")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, dto.ImportAcceptedResponse{UploadID: uploadID})
}

// GetSession returns the progress snapshot for an in-flight or recent upload.
// Expired and unknown sessions both read as not found.
func (h *ImportHandler) GetSession(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid upload ID")
		return
	}

	session, ok := h.tracker.Get(uploadID)
	if !ok {
		h.NotFound(c, "Upload session not found or expired")
		return
	}

	h.Success(c, session)
}

// SuggestAccount detects the seller token in an uploaded file and returns
// the accounts it may belong to, without starting an import
func (h *ImportHandler) SuggestAccount(c *gin.Context) {
	kind := c.PostForm("kind")
	if !csvimport.IsValidRecordKind(kind) {
		h.BadRequest(c, "kind is required and must be one of: order, listing")
		return
	}

	data, _, ok := h.readUploadedFile(c)
	if !ok {
		return
	}

	token, candidates, err := h.suggest.SuggestForFile(c.Request.Context(), csvimport.RecordKind(kind), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.SuggestAccountResponse{DetectedToken: token, Candidates: candidates})
}

// ListHistory returns past import runs, newest first
func (h *ImportHandler) ListHistory(c *gin.Context) {
	var req dto.ImportHistoryListRequest
	req.ListRequest = dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := importapp.ListHistoryFilter{
		Kind:   req.Kind,
		Status: req.Status,
	}
	if req.AccountID != "" {
		accountID, err := uuid.Parse(req.AccountID)
		if err != nil {
			h.BadRequest(c, "Invalid account ID")
			return
		}
		filter.AccountID = &accountID
	}

	histories, total, err := h.history.ListHistory(c.Request.Context(), filter, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, histories, total, req.Page, req.PageSize)
}

// GetHistory returns one import run's record
func (h *ImportHandler) GetHistory(c *gin.Context) {
	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid history ID")
		return
	}

	history, err := h.history.GetHistory(c.Request.Context(), historyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// DownloadErrors streams one import run's row errors as a CSV attachment
func (h *ImportHandler) DownloadErrors(c *gin.Context) {
	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid history ID")
		return
	}

	content, fileName, err := h.history.GetErrorsCSV(c.Request.Context(), historyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/imports")
	{
		imports.POST("", h.Submit)
		imports.POST("/suggest-account", h.SuggestAccount)
		imports.GET("/history", h.ListHistory)
		imports.GET("/history/:id", h.GetHistory)
		imports.GET("/history/:id/errors", h.DownloadErrors)
		imports.GET("/:id", h.GetSession)
	}
}
