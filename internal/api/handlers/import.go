package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Broker-Document-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Document-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
	"github.com/ndewijer/Broker-Document-Importer/internal/validation"
)

// ImportHandler handles HTTP requests for document detection, parsing and import.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler with the provided service dependency.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// decodeDocument parses and validates a single-document request body and
// writes the 400 response itself when that fails.
func decodeDocument(w http.ResponseWriter, r *http.Request) (request.ImportDocumentRequest, bool) {
	req, err := parseJSON[request.ImportDocumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return req, false
	}
	if err := validation.ValidateImportDocument(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return req, false
	}
	return req, true
}

// Detect handles POST requests that identify the broker and document variant.
// A document no parser recognises is not an error: canParse is false and
// error explains why.
//
// Endpoint: POST /api/import/detect
// Request Body: ImportDocumentRequest (text)
// Response: 200 OK with model.DetectResult
// Error: 400 Bad Request if the body is invalid or the text is empty
func (h *ImportHandler) Detect(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := h.importService.Detect(req.Text)
	if err != nil {
		response.RespondDocumentError(w, err, apperrors.ErrFailedToImportDocument)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Parse handles POST requests that extract the activity of a document without storing it.
//
// Endpoint: POST /api/import/parse
// Request Body: ImportDocumentRequest (text)
// Response: 200 OK with model.Activity
// Error: 400 Bad Request if the body is invalid or the text is empty
// Error: 422 Unprocessable Entity if the document is not recognised or a field cannot be extracted
func (h *ImportHandler) Parse(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	activity, err := h.importService.Parse(req.Text)
	if err != nil {
		response.RespondDocumentError(w, err, apperrors.ErrFailedToImportDocument)
		return
	}

	response.RespondJSON(w, http.StatusOK, activity)
}

// Import handles POST requests that parse a document and store its activity.
//
// Endpoint: POST /api/import
// Request Body: ImportDocumentRequest (name, text)
// Response: 201 Created with model.ImportedActivity
// Error: 400 Bad Request if the body is invalid or the text is empty
// Error: 409 Conflict with the previously imported activity if the document was imported before
// Error: 422 Unprocessable Entity if the document is not recognised or a field cannot be extracted
// Error: 500 Internal Server Error if storing fails
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	imported, err := h.importService.Import(r.Context(), model.Document{Name: req.Name, Text: req.Text})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateDocument) && imported != nil {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateDocument.Error(), imported)
			return
		}
		response.RespondDocumentError(w, err, apperrors.ErrFailedToImportDocument)
		return
	}

	response.RespondJSON(w, http.StatusCreated, imported)
}

// ImportBatch handles POST requests that import several documents in parallel.
// Failing documents do not fail the request; each has its own result.
//
// Endpoint: POST /api/import/batch
// Request Body: BatchImportRequest (documents)
// Response: 200 OK with model.BatchImportSummary
// Error: 400 Bad Request if the body is invalid
func (h *ImportHandler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.BatchImportRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateBatchImport(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	docs := make([]model.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = model.Document{Name: d.Name, Text: d.Text}
	}

	response.RespondJSON(w, http.StatusOK, h.importService.ImportBatch(r.Context(), docs))
}
