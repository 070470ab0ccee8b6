package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser/traderepublic"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
)

// NewTestRegistry returns a registry with every supported broker.
func NewTestRegistry() *parser.Registry {
	return parser.NewRegistry(traderepublic.New())
}

// NewTestBox returns an encryption box with a fresh random key.
func NewTestBox(t *testing.T) *secret.Box {
	t.Helper()

	key, err := secret.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	box, err := secret.NewBox(key)
	if err != nil {
		t.Fatalf("Failed to create box: %v", err)
	}
	return box
}

// NewTestImportService creates an ImportService that retains encrypted sources.
func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return NewTestImportServiceWithBox(t, db, NewTestBox(t))
}

// NewTestImportServiceWithBox creates an ImportService with the given box; nil disables retention.
func NewTestImportServiceWithBox(t *testing.T, db *sql.DB, box *secret.Box) *service.ImportService {
	t.Helper()

	return service.NewImportService(
		NewTestRegistry(),
		repository.NewActivityRepository(db),
		box,
		4,
	)
}

func NewTestActivityService(t *testing.T, db *sql.DB, box *secret.Box) *service.ActivityService {
	t.Helper()

	return service.NewActivityService(
		repository.NewActivityRepository(db),
		NewTestRegistry(),
		box,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, NewTestRegistry(), map[string]bool{"source_retention": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// SampleDir is the directory holding the Trade Republic sample documents.
func SampleDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "parser", "traderepublic", "testdata")
}

// LoadSample returns the text of a sample document.
//
// Example usage:
//
//	text := testutil.LoadSample(t, "buy_limit_order.txt")
func LoadSample(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(SampleDir(), name))
	if err != nil {
		t.Fatalf("Failed to read sample %s: %v", name, err)
	}
	return string(data)
}

// CopySample copies a sample document into dir, e.g. an inbox directory.
func CopySample(t *testing.T, dir, name string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(LoadSample(t, name)), 0o600); err != nil {
		t.Fatalf("Failed to copy sample %s: %v", name, err)
	}
}
