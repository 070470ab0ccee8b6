package apperrors

import (
	"errors"
	"fmt"
)

// Document classification errors describe why a text could not be routed to a parser variant.
var (
	// ErrNotThisBroker indicates that the document lacks the structural markers of the broker.
	ErrNotThisBroker = errors.New("document not produced by this broker")

	// ErrAmbiguousBroker indicates that more than one registered parser claims the document.
	ErrAmbiguousBroker = errors.New("document claimed by multiple brokers")

	// ErrUnrecognizedVariant indicates broker markers are present but no known document type matched.
	ErrUnrecognizedVariant = errors.New("unrecognized document variant")
)

// Extraction errors are terminal for a single document; no partial activity is returned.
var (
	// ErrMissingRequiredField indicates that a mandatory anchor line could not be located.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMalformedNumber indicates a numeric field could not be parsed under the locale rules.
	ErrMalformedNumber = errors.New("malformed number")

	// ErrInvalidISIN indicates an extracted security identifier fails the ISIN format.
	ErrInvalidISIN = errors.New("invalid ISIN")

	// ErrInvalidISINCheckDigit indicates a well-formed ISIN whose trailing check digit does not match.
	// It wraps ErrInvalidISIN.
	ErrInvalidISINCheckDigit = fmt.Errorf("%w check digit", ErrInvalidISIN)

	// ErrInvalidDate indicates an extracted date is not a well-formed calendar date.
	ErrInvalidDate = errors.New("invalid date")
)

// Import errors represent failures of the persistence layer around the engine.
var (
	// ErrActivityNotFound indicates that an imported activity with the given ID does not exist.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrDuplicateDocument indicates the same document was already imported.
	ErrDuplicateDocument = errors.New("document already imported")

	// ErrEmptyDocument indicates the request carried no document text.
	ErrEmptyDocument = errors.New("document is empty")

	ErrSourceNotRetained = errors.New("document source not retained")

	ErrFailedToImportDocument     = errors.New("failed to import document")
	ErrFailedToRetrieveActivity   = errors.New("failed to retrieve activity")
	ErrFailedToRetrieveActivities = errors.New("failed to retrieve activities")
	ErrFailedToDeleteActivity     = errors.New("failed to delete activity")
	ErrFailedToGetVersionInfo     = errors.New("failed to get version information")
)

// Business logic errors represent validation failures on API input.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")
)
