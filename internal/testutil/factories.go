package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
)

// ActivityBuilder provides a fluent interface for creating stored test activities.
//
// Example usage:
//
//	// Simple creation with defaults
//	a := testutil.NewActivity().Build(t, db)
//
//	// Customized activity
//	a := testutil.NewActivity().
//	    WithType(model.ActivityDividend).
//	    WithDate("2020-03-23").
//	    Build(t, db)
type ActivityBuilder struct {
	record model.ImportedActivity
	source string
}

// NewActivity creates an ActivityBuilder with the Tesla limit-order buy as defaults.
func NewActivity() *ActivityBuilder {
	return &ActivityBuilder{
		record: model.ImportedActivity{
			ID: MakeID(),
			Activity: model.Activity{
				Broker:  "traderepublic",
				Type:    model.ActivityBuy,
				Date:    "2020-02-24",
				ISIN:    "US88160R1014",
				Company: "Tesla Inc.",
				Shares:  decimal.NewFromInt(3),
				Price:   decimal.RequireFromString("768.10"),
				Amount:  decimal.RequireFromString("2304.30"),
				Fee:     decimal.NewFromInt(1),
				Tax:     decimal.Zero,
			},
			Variant:     "buy-limit",
			Fingerprint: randomFingerprint(),
			SourceName:  "test.txt",
			ImportedAt:  time.Now().UTC(),
		},
	}
}

// WithType sets the activity type.
func (b *ActivityBuilder) WithType(typ model.ActivityType) *ActivityBuilder {
	b.record.Activity.Type = typ
	return b
}

// WithDate sets the activity date (YYYY-MM-DD).
func (b *ActivityBuilder) WithDate(date string) *ActivityBuilder {
	b.record.Activity.Date = date
	return b
}

// WithISIN sets the security identifier.
func (b *ActivityBuilder) WithISIN(isin string) *ActivityBuilder {
	b.record.Activity.ISIN = isin
	return b
}

// WithSource stores an already encrypted source token with the activity.
func (b *ActivityBuilder) WithSource(token string) *ActivityBuilder {
	b.source = token
	b.record.HasSource = token != ""
	return b
}

// Build creates the activity in the database and returns it.
func (b *ActivityBuilder) Build(t *testing.T, db *sql.DB) model.ImportedActivity {
	t.Helper()

	repo := repository.NewActivityRepository(db)
	if err := repo.InsertActivity(context.Background(), &b.record, b.source); err != nil {
		t.Fatalf("Failed to create activity: %v", err)
	}
	return b.record
}

func randomFingerprint() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
