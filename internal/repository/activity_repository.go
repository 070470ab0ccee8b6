package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
)

// ActivityRepository provides data access methods for the activity table.
// It stores parsed broker documents together with their content fingerprint
// and, optionally, the encrypted source text.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `
	id, broker, type, variant, date, isin, company,
	shares, price, amount, fee, tax,
	fingerprint, source_name, source_encrypted IS NOT NULL, imported_at`

// InsertActivity stores an imported activity. sourceEncrypted may be empty,
// in which case no source text is retained.
// Returns ErrDuplicateDocument when the fingerprint is already stored.
func (r *ActivityRepository) InsertActivity(ctx context.Context, a *model.ImportedActivity, sourceEncrypted string) error {
	query := `
		INSERT INTO activity (
			id, broker, type, variant, date, isin, company,
			shares, price, amount, fee, tax,
			fingerprint, source_name, source_encrypted, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var source sql.NullString
	if sourceEncrypted != "" {
		source = sql.NullString{String: sourceEncrypted, Valid: true}
	}

	act := a.Activity
	_, err := r.db.ExecContext(ctx, query,
		a.ID, act.Broker, string(act.Type), a.Variant, act.Date, act.ISIN, act.Company,
		act.Shares.String(), act.Price.String(), act.Amount.String(), act.Fee.String(), act.Tax.String(),
		a.Fingerprint, a.SourceName, source, a.ImportedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: activity.fingerprint") {
			return fmt.Errorf("%w: fingerprint %s", apperrors.ErrDuplicateDocument, a.Fingerprint)
		}
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// GetActivity retrieves a single activity by ID.
// Returns ErrActivityNotFound if no row matches.
func (r *ActivityRepository) GetActivity(id string) (model.ImportedActivity, error) {
	row := r.db.QueryRow(`SELECT `+activityColumns+` FROM activity WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ImportedActivity{}, apperrors.ErrActivityNotFound
	}
	return a, err
}

// GetActivityByFingerprint retrieves the activity previously imported from
// the same document content. Returns ErrActivityNotFound if there is none.
func (r *ActivityRepository) GetActivityByFingerprint(fingerprint string) (model.ImportedActivity, error) {
	row := r.db.QueryRow(`SELECT `+activityColumns+` FROM activity WHERE fingerprint = ?`, fingerprint)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ImportedActivity{}, apperrors.ErrActivityNotFound
	}
	return a, err
}

// ListActivities retrieves activities matching the filter, newest first.
// Zero-valued filter fields are ignored. Always returns a non-nil slice.
func (r *ActivityRepository) ListActivities(filter model.ActivityFilter) ([]model.ImportedActivity, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.ISIN != "" {
		conditions = append(conditions, "isin = ?")
		args = append(args, filter.ISIN)
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}

	query := `SELECT ` + activityColumns + ` FROM activity`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY date DESC, imported_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity table: %w", err)
	}
	defer rows.Close()

	activities := []model.ImportedActivity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity table: %w", err)
	}

	return activities, nil
}

// GetSource returns the encrypted source text stored with an activity.
// Returns ErrActivityNotFound for an unknown ID and ErrSourceNotRetained
// when the activity was imported without its source.
func (r *ActivityRepository) GetSource(id string) (string, error) {
	var source sql.NullString
	err := r.db.QueryRow(`SELECT source_encrypted FROM activity WHERE id = ?`, id).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrActivityNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query activity source: %w", err)
	}
	if !source.Valid {
		return "", apperrors.ErrSourceNotRetained
	}
	return source.String, nil
}

// DeleteActivity removes an activity. Returns ErrActivityNotFound if no row was deleted.
func (r *ActivityRepository) DeleteActivity(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.ErrActivityNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (model.ImportedActivity, error) {
	var (
		a             model.ImportedActivity
		activityType  string
		importedAtStr string
	)
	act := &a.Activity
	err := row.Scan(
		&a.ID, &act.Broker, &activityType, &a.Variant, &act.Date, &act.ISIN, &act.Company,
		&act.Shares, &act.Price, &act.Amount, &act.Fee, &act.Tax,
		&a.Fingerprint, &a.SourceName, &a.HasSource, &importedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return a, err
	}
	if err != nil {
		return a, fmt.Errorf("failed to scan activity table results: %w", err)
	}
	act.Type = model.ActivityType(activityType)

	a.ImportedAt, err = ParseTime(importedAtStr)
	if err != nil {
		return a, fmt.Errorf("failed to parse imported_at: %w", err)
	}
	return a, nil
}
