package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
)

// ParseActivityFilters extracts and validates activity filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - type: Must be Buy, Sell or Dividend (case-insensitive)
//   - isin: Upper-cased; must be 12 characters
//   - startDate/endDate: Must be YYYY-MM-DD; startDate must not be after endDate
//
// Returns an error if any parameter fails validation.
func ParseActivityFilters(typeParam, isinParam, startDateParam, endDateParam string) (*model.ActivityFilter, error) {
	filters := &model.ActivityFilter{}

	if typeParam = strings.TrimSpace(typeParam); typeParam != "" {
		var found bool
		for t := range model.ValidActivityTypes {
			if strings.EqualFold(string(t), typeParam) {
				filters.Type, found = t, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("invalid activity type: %s", typeParam)
		}
	}

	if isinParam = strings.ToUpper(strings.TrimSpace(isinParam)); isinParam != "" {
		if len(isinParam) != 12 {
			return nil, fmt.Errorf("invalid isin: %s", isinParam)
		}
		filters.ISIN = isinParam
	}

	if startDateParam != "" {
		t, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		filters.StartDate = t
	}

	if endDateParam != "" {
		t, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		filters.EndDate = t
	}

	if !filters.StartDate.IsZero() && !filters.EndDate.IsZero() && filters.StartDate.After(filters.EndDate) {
		return nil, fmt.Errorf("%w: start_date %s is after end_date %s", apperrors.ErrInvalidDateRange, startDateParam, endDateParam)
	}

	return filters, nil
}
