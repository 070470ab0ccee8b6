package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
)

// Inbox subdirectories that handled files are moved to.
const (
	InboxProcessedDir = "processed"
	InboxFailedDir    = "failed"
)

// ImportService turns document text into stored activities.
// It routes documents through the parser registry, deduplicates them by
// content fingerprint and optionally retains the encrypted source.
type ImportService struct {
	registry     *parser.Registry
	activityRepo *repository.ActivityRepository
	box          *secret.Box
	workers      int
}

// NewImportService creates a new ImportService. box may be nil, in which case
// no source text is retained. workers bounds the parallelism of batch imports.
func NewImportService(
	registry *parser.Registry,
	activityRepo *repository.ActivityRepository,
	box *secret.Box,
	workers int,
) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{
		registry:     registry,
		activityRepo: activityRepo,
		box:          box,
		workers:      workers,
	}
}

// Fingerprint identifies a document by its normalised content, so that the
// same extraction with different line endings or spacing is still a duplicate.
func Fingerprint(lines []string) string {
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

func splitDocument(text string) ([]string, error) {
	lines := parser.SplitLines(text)
	if len(lines) == 0 {
		return nil, apperrors.ErrEmptyDocument
	}
	return lines, nil
}

// Detect reports which broker and variant a document belongs to.
// Classification failures are reported in the result, not as an error.
func (s *ImportService) Detect(text string) (model.DetectResult, error) {
	lines, err := splitDocument(text)
	if err != nil {
		return model.DetectResult{}, err
	}

	result, err := s.registry.Classify(lines)
	if err != nil {
		result.Error = err.Error()
	}
	return result, nil
}

// Parse extracts the activity of a document without storing it.
func (s *ImportService) Parse(text string) (model.Activity, error) {
	lines, err := splitDocument(text)
	if err != nil {
		return model.Activity{}, err
	}
	return s.registry.Parse(lines)
}

// Import parses a document and stores the resulting activity.
// If the same document was imported before, the stored activity is returned
// together with ErrDuplicateDocument.
func (s *ImportService) Import(ctx context.Context, doc model.Document) (*model.ImportedActivity, error) {
	lines, err := splitDocument(doc.Text)
	if err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(lines)
	existing, err := s.activityRepo.GetActivityByFingerprint(fingerprint)
	switch {
	case err == nil:
		return &existing, fmt.Errorf("%w: %s", apperrors.ErrDuplicateDocument, existing.ID)
	case !errors.Is(err, apperrors.ErrActivityNotFound):
		return nil, err
	}

	detected, err := s.registry.Classify(lines)
	if err != nil {
		return nil, err
	}
	activity, err := s.registry.Parse(lines)
	if err != nil {
		return nil, err
	}

	var sourceEncrypted string
	if s.box != nil {
		if sourceEncrypted, err = s.box.Encrypt(strings.Join(lines, "\n")); err != nil {
			return nil, err
		}
	}

	imported := &model.ImportedActivity{
		ID:          uuid.New().String(),
		Activity:    activity,
		Variant:     detected.Variant,
		Fingerprint: fingerprint,
		SourceName:  doc.Name,
		HasSource:   sourceEncrypted != "",
		ImportedAt:  time.Now().UTC(),
	}

	if err := s.activityRepo.InsertActivity(ctx, imported, sourceEncrypted); err != nil {
		return nil, err
	}

	log.Printf("imported %s %s %s %s from %q", activity.Broker, activity.Type, activity.Date, activity.ISIN, sanitize(doc.Name))
	return imported, nil
}

// ImportBatch imports documents in parallel. A failing document never fails
// the batch; every document gets its own result, in input order.
func (s *ImportService) ImportBatch(ctx context.Context, docs []model.Document) model.BatchImportSummary {
	results := make([]model.DocumentImportResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = documentResult(doc.Name, nil, err)
				return nil
			}
			imported, err := s.Import(gctx, doc)
			results[i] = documentResult(doc.Name, imported, err)
			return nil
		})
	}
	_ = g.Wait()

	summary := model.BatchImportSummary{Total: len(docs), Results: results}
	for _, r := range results {
		switch r.Status {
		case model.ImportStatusImported:
			summary.Imported++
		case model.ImportStatusDuplicate:
			summary.Duplicate++
		default:
			summary.Failed++
		}
	}
	return summary
}

// ImportInbox imports every .txt file of dir and moves each file into the
// processed or failed subdirectory afterwards. Duplicates count as processed.
func (s *ImportService) ImportInbox(ctx context.Context, dir string) (model.BatchImportSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.BatchImportSummary{}, fmt.Errorf("failed to read inbox: %w", err)
	}

	var docs []model.Document
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return model.BatchImportSummary{}, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		docs = append(docs, model.Document{Name: e.Name(), Text: string(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	summary := s.ImportBatch(ctx, docs)

	for _, r := range summary.Results {
		target := InboxProcessedDir
		if r.Status == model.ImportStatusFailed {
			target = InboxFailedDir
			log.Printf("inbox: %s failed: %s", sanitize(r.Name), r.Error)
		}
		if err := moveInto(dir, target, r.Name); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func moveInto(dir, sub, name string) error {
	targetDir := filepath.Join(dir, sub)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", targetDir, err)
	}
	if err := os.Rename(filepath.Join(dir, name), filepath.Join(targetDir, name)); err != nil {
		return fmt.Errorf("failed to move %s: %w", name, err)
	}
	return nil
}

// documentResult builds the per-document outcome of a batch import.
func documentResult(name string, imported *model.ImportedActivity, err error) model.DocumentImportResult {
	result := model.DocumentImportResult{Name: name}
	switch {
	case err == nil:
		result.Status = model.ImportStatusImported
		result.Activity = imported
	case errors.Is(err, apperrors.ErrDuplicateDocument):
		result.Status = model.ImportStatusDuplicate
		result.Activity = imported
		result.Error = err.Error()
	default:
		result.Status = model.ImportStatusFailed
		result.Error = err.Error()
		var fe *parser.FieldError
		if errors.As(err, &fe) {
			result.Field = fe.Field
		}
	}
	return result
}

var logSanitizer = strings.NewReplacer("\n", "", "\r", "")

// sanitize strips CR/LF from user-supplied values before they are logged.
func sanitize(s string) string {
	return logSanitizer.Replace(s)
}
