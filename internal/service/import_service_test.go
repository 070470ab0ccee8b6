package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
	"github.com/ndewijer/Broker-Document-Importer/internal/testutil"
)

func document(t *testing.T, name string) model.Document {
	t.Helper()
	return model.Document{Name: name, Text: testutil.LoadSample(t, name)}
}

func TestFingerprint(t *testing.T) {
	text := testutil.LoadSample(t, "buy_limit_order.txt")
	reformatted := strings.ReplaceAll(text, "\n", "\r\n  ")

	a := service.Fingerprint(parser.SplitLines(text))
	b := service.Fingerprint(parser.SplitLines(reformatted))

	if a != b {
		t.Errorf("Expected equal fingerprints for reformatted text, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected hex SHA-256, got %q", a)
	}
	if a == service.Fingerprint(parser.SplitLines(testutil.LoadSample(t, "buy_market_order.txt"))) {
		t.Error("Expected different documents to have different fingerprints")
	}
}

// TestImportService_Detect verifies that classification failures are reported
// in the result while only empty documents are rejected.
func TestImportService_Detect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestImportService(t, db)

	tests := []struct {
		sample   string
		canParse bool
		variant  string
	}{
		{"buy_limit_order.txt", true, "buy-limit"},
		{"buy_market_order.txt", true, "buy-market"},
		{"buy_savings_plan.txt", true, "buy-savings-plan"},
		{"sell_limit_order_tesla.txt", true, "sell"},
		{"dividend_ishares_euro_stoxx_select.txt", true, "dividend"},
		{"unrecognized_variant.txt", true, ""},
		{"other_broker.txt", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			result, err := svc.Detect(testutil.LoadSample(t, tt.sample))
			if err != nil {
				t.Fatalf("Detect() returned unexpected error: %v", err)
			}
			if result.CanParse != tt.canParse || result.Variant != tt.variant {
				t.Errorf("Expected canParse=%v variant=%q, got %+v", tt.canParse, tt.variant, result)
			}
			if tt.variant == "" && result.Error == "" {
				t.Error("Expected an error message for unclassified documents")
			}
		})
	}

	t.Run("empty document", func(t *testing.T) {
		if _, err := svc.Detect(" \n\t"); !errors.Is(err, apperrors.ErrEmptyDocument) {
			t.Errorf("Expected ErrEmptyDocument, got %v", err)
		}
	})
}

func TestImportService_Import(t *testing.T) {
	t.Run("stores activity and encrypted source", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		// Execute
		imported, err := svc.Import(context.Background(), document(t, "buy_savings_plan.txt"))

		// Assert
		if err != nil {
			t.Fatalf("Import() returned unexpected error: %v", err)
		}
		if !imported.HasSource || imported.Variant != "buy-savings-plan" || imported.SourceName != "buy_savings_plan.txt" {
			t.Errorf("Unexpected record %+v", imported)
		}

		stored, err := repository.NewActivityRepository(db).GetActivity(imported.ID)
		if err != nil {
			t.Fatalf("GetActivity() returned unexpected error: %v", err)
		}
		if !stored.Activity.Equal(imported.Activity) {
			t.Errorf("Stored %+v differs from imported %+v", stored.Activity, imported.Activity)
		}

		var source string
		if err := db.QueryRow(`SELECT source_encrypted FROM activity WHERE id = ?`, imported.ID).Scan(&source); err != nil {
			t.Fatalf("Failed to read source: %v", err)
		}
		if strings.Contains(source, "TRADE REPUBLIC") {
			t.Error("Expected the source to be stored encrypted")
		}
	})

	t.Run("without box no source is retained", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportServiceWithBox(t, db, nil)

		imported, err := svc.Import(context.Background(), document(t, "buy_market_order.txt"))
		if err != nil {
			t.Fatalf("Import() returned unexpected error: %v", err)
		}
		if imported.HasSource {
			t.Error("Expected no retained source")
		}
	})

	t.Run("duplicate returns the stored activity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		doc := document(t, "dividend_royal_dutch_shell.txt")

		first, err := svc.Import(context.Background(), doc)
		if err != nil {
			t.Fatalf("Import() returned unexpected error: %v", err)
		}

		// Same content with different line endings and spacing
		doc.Text = strings.ReplaceAll(doc.Text, "\n", "\r\n ")
		second, err := svc.Import(context.Background(), doc)
		if !errors.Is(err, apperrors.ErrDuplicateDocument) {
			t.Fatalf("Expected ErrDuplicateDocument, got %v", err)
		}
		if second == nil || second.ID != first.ID {
			t.Errorf("Expected stored activity %s, got %+v", first.ID, second)
		}
	})

	t.Run("extraction errors are returned unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		_, err := svc.Import(context.Background(), document(t, "unrecognized_variant.txt"))
		if !errors.Is(err, apperrors.ErrUnrecognizedVariant) {
			t.Errorf("Expected ErrUnrecognizedVariant, got %v", err)
		}

		activities, _ := repository.NewActivityRepository(db).ListActivities(model.ActivityFilter{})
		if len(activities) != 0 {
			t.Errorf("Expected nothing stored, got %d", len(activities))
		}
	})
}

func TestImportService_ImportBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestImportService(t, db)

	docs := []model.Document{
		document(t, "buy_limit_order.txt"),
		document(t, "garbled.txt"),
		document(t, "buy_limit_order.txt"),
		document(t, "dividend_ishares_developed_markets_property.txt"),
		{Name: "broken.txt", Text: strings.Replace(testutil.LoadSample(t, "sell_limit_order_tesla.txt"), "US88160R1014", "US88160R1015", 1)},
	}

	summary := svc.ImportBatch(context.Background(), docs)

	if summary.Total != 5 || summary.Imported != 2 || summary.Duplicate != 1 || summary.Failed != 2 {
		t.Errorf("Unexpected summary totals %+v", summary)
	}
	for i, r := range summary.Results {
		if r.Name != docs[i].Name {
			t.Errorf("Result %d: expected %s, got %s", i, docs[i].Name, r.Name)
		}
	}
	if summary.Results[1].Status != model.ImportStatusFailed {
		t.Errorf("Expected garbled document to fail, got %+v", summary.Results[1])
	}
	if summary.Results[4].Status != model.ImportStatusFailed || summary.Results[4].Field == "" {
		t.Errorf("Expected a field error for the broken document, got %+v", summary.Results[4])
	}
}

func TestImportService_ImportInbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestImportService(t, db)

	inbox := t.TempDir()
	testutil.CopySample(t, inbox, "buy_limit_order.txt")
	testutil.CopySample(t, inbox, "sell_limit_order_stryker.txt")
	testutil.CopySample(t, inbox, "other_broker.txt")
	if err := os.WriteFile(filepath.Join(inbox, "notes.md"), []byte("ignored"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	summary, err := svc.ImportInbox(context.Background(), inbox)
	if err != nil {
		t.Fatalf("ImportInbox() returned unexpected error: %v", err)
	}
	if summary.Total != 3 || summary.Imported != 2 || summary.Failed != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	wantFiles := map[string]bool{
		filepath.Join(inbox, service.InboxProcessedDir, "buy_limit_order.txt"):          true,
		filepath.Join(inbox, service.InboxProcessedDir, "sell_limit_order_stryker.txt"): true,
		filepath.Join(inbox, service.InboxFailedDir, "other_broker.txt"):                true,
		filepath.Join(inbox, "notes.md"):                                                true,
		filepath.Join(inbox, "buy_limit_order.txt"):                                     false,
	}
	for path, want := range wantFiles {
		_, err := os.Stat(path)
		if exists := err == nil; exists != want {
			t.Errorf("%s: expected exists=%v", path, want)
		}
	}

	t.Run("second run finds an empty inbox", func(t *testing.T) {
		summary, err := svc.ImportInbox(context.Background(), inbox)
		if err != nil {
			t.Fatalf("ImportInbox() returned unexpected error: %v", err)
		}
		if summary.Total != 0 {
			t.Errorf("Expected no documents, got %d", summary.Total)
		}
	})

	t.Run("missing inbox", func(t *testing.T) {
		if _, err := svc.ImportInbox(context.Background(), filepath.Join(inbox, "missing")); err == nil {
			t.Error("Expected an error for a missing inbox")
		}
	})
}
