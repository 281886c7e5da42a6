package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/importer"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/spf13/afero"
)

const (
	uploadFormField     = "file"
	multipartMaxMemory  = 1 << 20
	msgUploadTooLarge   = "File too large"
	msgUnsupportedMedia = "Only Excel and CSV files are allowed"
)

type FileImporter interface {
	ImportFile(ctx context.Context, r io.Reader, format importer.Format) (*importer.Result, error)
}

// UploadStager persists uploads under a generated name until they are
// processed.
type UploadStager interface {
	Save(src io.Reader, originalName string) (string, error)
	Open(path string) (afero.File, error)
	Remove(path string) error
}

type ImportHandler struct {
	importer FileImporter
	staging  UploadStager
	logger   *slog.Logger
}

func NewImportHandler(imp FileImporter, staging UploadStager, l *slog.Logger) *ImportHandler {
	if imp == nil {
		panic("importer cannot be nil")
	}
	if staging == nil {
		panic("upload staging cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ImportHandler{
		importer: imp,
		staging:  staging,
		logger:   l.With("component", "ImportHandler"),
	}
}

// ImportCustomers handles POST /api/customer/import
// @Summary Bulk import customers
// @Description Imports customers from the first sheet of an .xlsx workbook or from a CSV file. The header row names the columns (account_no, name, address, sanction_amt, sanction_date, npa_date, comment). Row failures are reported without aborting the import.
// @Tags Customers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (.xlsx or .csv, at most 5 MB)"
// @Success 200 {object} dto.ImportResponse "Import report"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/import [post]
// @Security BearerAuth
func (h *ImportHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.WarnContext(ctx, "Upload exceeds size limit", slog.Int64("limit", maxErr.Limit))
			respondJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Message: msgUploadTooLarge, Error: err.Error()})
			return
		}
		h.logger.WarnContext(ctx, "Failed to parse multipart form", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: failed to parse multipart form: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		h.logger.WarnContext(ctx, "No file in upload", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: no file uploaded", apperrors.ErrInvalidArgument))
		return
	}
	defer file.Close()

	contentType := uploadContentType(header.Header.Get("Content-Type"))
	if !slices.Contains(importer.AllowedContentTypes, contentType) {
		h.logger.WarnContext(ctx, "Rejected upload content type", slog.String("contentType", contentType), slog.String("filename", header.Filename))
		respondJSON(w, http.StatusUnsupportedMediaType, dto.ErrorResponse{Message: msgUnsupportedMedia})
		return
	}

	format, err := importer.DetectFormat(header.Filename, contentType)
	if err != nil {
		h.logger.WarnContext(ctx, "Cannot determine spreadsheet format", slog.String("filename", header.Filename), slog.Any("error", err))
		respondError(w, err)
		return
	}

	stagedPath, err := h.staging.Save(file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to stage upload", slog.Any("error", err))
		respondError(w, err)
		return
	}
	defer func() {
		if rmErr := h.staging.Remove(stagedPath); rmErr != nil {
			h.logger.ErrorContext(ctx, "Failed to remove staged upload", slog.String("path", stagedPath), slog.Any("error", rmErr))
		}
	}()

	staged, err := h.staging.Open(stagedPath)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to open staged upload", slog.String("path", stagedPath), slog.Any("error", err))
		respondError(w, err)
		return
	}
	defer staged.Close()

	h.logger.InfoContext(ctx, "Processing customer import",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("format", string(format)),
	)

	result, err := h.importer.ImportFile(ctx, staged, format)
	if err != nil {
		h.logger.WarnContext(ctx, "Import file could not be read", slog.Any("error", err))
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Error processing file", Error: err.Error()})
		return
	}

	monitoring.RecordImportRows(result.ImportedCount, result.ErrorCount)
	respondJSON(w, http.StatusOK, dto.NewImportResponse(result))
}

// uploadContentType strips parameters such as charset from a part's
// Content-Type.
func uploadContentType(raw string) string {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mediaType
}
