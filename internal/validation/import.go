package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Broker-Document-Importer/internal/api/request"
)

// MaxBatchDocuments bounds the number of documents in one batch request.
const MaxBatchDocuments = 100

// ValidateImportDocument validates a single-document request.
//
// Required fields:
//   - text: Must contain at least one non-blank line
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateImportDocument(req request.ImportDocumentRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return &Error{Fields: map[string]string{"text": "text is required"}}
	}
	return nil
}

// ValidateBatchImport validates a batch import request.
//
// Required fields:
//   - documents: 1 to MaxBatchDocuments entries, each with text and a unique name
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateBatchImport(req request.BatchImportRequest) error {
	errors := make(map[string]string)

	switch {
	case len(req.Documents) == 0:
		errors["documents"] = "at least one document is required"
	case len(req.Documents) > MaxBatchDocuments:
		errors["documents"] = fmt.Sprintf("at most %d documents per batch", MaxBatchDocuments)
	}

	seen := make(map[string]bool, len(req.Documents))
	for i, doc := range req.Documents {
		if strings.TrimSpace(doc.Text) == "" {
			errors[fmt.Sprintf("documents[%d].text", i)] = "text is required"
		}
		if doc.Name == "" {
			continue
		}
		if seen[doc.Name] {
			errors[fmt.Sprintf("documents[%d].name", i)] = fmt.Sprintf("duplicate name: %s", doc.Name)
		}
		seen[doc.Name] = true
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
