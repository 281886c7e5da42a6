package dto

import "loan-ledger/internal/domain/importer"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string   `json:"message" example:"Customer not found"`
	Error   string   `json:"error,omitempty"`
	Field   string   `json:"field,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Comment updated successfully"`
}

type ImportResponse struct {
	Message       string   `json:"message" example:"Import completed"`
	ImportedCount int      `json:"importedCount" example:"10"`
	ErrorCount    int      `json:"errorCount" example:"2"`
	Errors        []string `json:"errors,omitempty"`
}

func NewImportResponse(result *importer.Result) ImportResponse {
	resp := ImportResponse{Message: "Import completed"}
	if result != nil {
		resp.ImportedCount = result.ImportedCount
		resp.ErrorCount = result.ErrorCount
		resp.Errors = result.Errors
	}
	return resp
}

type TokenRequest struct {
	Username string `json:"username" example:"ops-admin"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn" example:"86400"`
}
