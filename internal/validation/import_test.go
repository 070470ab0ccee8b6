package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/ndewijer/Broker-Document-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
)

func TestValidateImportDocument(t *testing.T) {
	if err := ValidateImportDocument(request.ImportDocumentRequest{Text: "TRADE REPUBLIC"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	err := ValidateImportDocument(request.ImportDocumentRequest{Name: "a.txt", Text: " \n\t"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if verr.Fields["text"] == "" {
		t.Errorf("Expected text field error, got %v", verr.Fields)
	}
}

func TestValidateBatchImport(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		req := request.BatchImportRequest{Documents: []request.ImportDocumentRequest{
			{Name: "a.txt", Text: "a"}, {Name: "b.txt", Text: "b"}, {Text: "c"}, {Text: "d"},
		}}
		if err := ValidateBatchImport(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		err := ValidateBatchImport(request.BatchImportRequest{})
		if err == nil || !strings.Contains(err.Error(), "documents: at least one document is required") {
			t.Errorf("Expected documents error, got %v", err)
		}
	})

	t.Run("too many documents", func(t *testing.T) {
		docs := make([]request.ImportDocumentRequest, MaxBatchDocuments+1)
		for i := range docs {
			docs[i].Text = "x"
		}
		if err := ValidateBatchImport(request.BatchImportRequest{Documents: docs}); err == nil {
			t.Error("Expected error for oversized batch")
		}
	})

	t.Run("blank text and duplicate names", func(t *testing.T) {
		req := request.BatchImportRequest{Documents: []request.ImportDocumentRequest{
			{Name: "a.txt", Text: "a"}, {Name: "a.txt", Text: ""},
		}}
		err := ValidateBatchImport(req)
		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		if _, ok := verr.Fields["documents[1].text"]; !ok {
			t.Errorf("Expected documents[1].text error, got %v", verr.Fields)
		}
		if _, ok := verr.Fields["documents[1].name"]; !ok {
			t.Errorf("Expected documents[1].name error, got %v", verr.Fields)
		}
	})
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID("550e8400-e29b-41d4-a716-446655440000"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateUUID("not-a-uuid"); !errors.Is(err, apperrors.ErrInvalidUUID) {
		t.Errorf("Expected ErrInvalidUUID, got %v", err)
	}
}
