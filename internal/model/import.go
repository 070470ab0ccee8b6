package model

import "time"

// ImportedActivity is an Activity that has been persisted by the import service.
type ImportedActivity struct {
	ID          string    `json:"id"`
	Activity    Activity  `json:"activity"`
	Variant     string    `json:"variant"`
	Fingerprint string    `json:"fingerprint"`
	SourceName  string    `json:"sourceName,omitempty"`
	HasSource   bool      `json:"hasSource"`
	ImportedAt  time.Time `json:"importedAt"`
}

// DetectResult describes which broker and document variant a text belongs to.
type DetectResult struct {
	CanParse bool   `json:"canParse"`
	Broker   string `json:"broker,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DocumentImportResult reports the outcome of importing a single document in a batch.
// Imported results carry Activity, failed results carry Error, and duplicates
// carry both: the previously stored activity and the duplicate message.
type DocumentImportResult struct {
	Name     string            `json:"name"`
	Status   string            `json:"status"` // imported, duplicate, failed
	Activity *ImportedActivity `json:"activity,omitempty"`
	Error    string            `json:"error,omitempty"`
	Field    string            `json:"field,omitempty"`
}

// Import statuses reported per document.
const (
	ImportStatusImported  = "imported"
	ImportStatusDuplicate = "duplicate"
	ImportStatusFailed    = "failed"
)

// BatchImportSummary aggregates the per-document results of a batch import.
type BatchImportSummary struct {
	Total     int                    `json:"total"`
	Imported  int                    `json:"imported"`
	Duplicate int                    `json:"duplicate"`
	Failed    int                    `json:"failed"`
	Results   []DocumentImportResult `json:"results"`
}

// ActivityFilter narrows activity listings. Zero values mean "no filter".
type ActivityFilter struct {
	Type      ActivityType
	ISIN      string
	StartDate time.Time
	EndDate   time.Time
}

// Document is one extracted document text submitted for import.
type Document struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ReparseResult compares a stored activity with a fresh parse of its retained source.
type ReparseResult struct {
	ID      string   `json:"id"`
	Stored  Activity `json:"stored"`
	Current Activity `json:"current"`
	Changed bool     `json:"changed"`
}
