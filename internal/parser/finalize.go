package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
)

// Draft is the unvalidated output of a variant extractor.
type Draft struct {
	Type    model.ActivityType
	Date    string // as printed, DD.MM.YYYY or YYYY-MM-DD
	ISIN    string
	Company string
	Shares  decimal.Decimal
	Price   decimal.Decimal
	Amount  decimal.Decimal
	Fee     decimal.Decimal
	Tax     decimal.Decimal
}

var isinFormat = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{10}$`)

// ISINToken finds an ISIN-shaped word, used when a document prints the
// identifier at the end of a description line instead of behind a label.
var ISINToken = regexp.MustCompile(`\b[A-Z]{2}[A-Z0-9]{9}[0-9]\b`)

var dateLayouts = []string{"02.01.2006", "2006-01-02"}

// ValidISIN checks the format (two letters, ten alphanumerics) and the
// trailing Luhn check digit.
func ValidISIN(isin string) bool {
	return isinFormat.MatchString(isin) && isinCheckDigitOK(isin)
}

// isinCheckDigitOK runs the Luhn check over the ISIN with letters expanded
// to two-digit numbers (A=10 ... Z=35).
func isinCheckDigitOK(isin string) bool {
	var digits strings.Builder
	for _, r := range isin {
		if r >= 'A' && r <= 'Z' {
			digits.WriteString(strconv.Itoa(int(r-'A') + 10))
			continue
		}
		digits.WriteRune(r)
	}

	s := digits.String()
	sum := 0
	for i := 0; i < len(s); i++ {
		n := int(s[len(s)-1-i] - '0')
		if i%2 == 1 {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
	}
	return sum%10 == 0
}

// ParseDate accepts the broker's DD.MM.YYYY and ISO dates and returns the ISO form.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", &FieldError{Field: "date", Raw: raw, Err: apperrors.ErrInvalidDate}
}

// Finalize validates a draft and turns it into the immutable Activity.
// Amount, fee and tax are rounded half-up to two decimals; shares and price
// keep full precision.
func Finalize(broker string, d Draft) (model.Activity, error) {
	if !model.ValidActivityTypes[d.Type] {
		return model.Activity{}, &FieldError{Field: "type", Raw: string(d.Type), Err: apperrors.ErrUnrecognizedVariant}
	}

	date, err := ParseDate(d.Date)
	if err != nil {
		return model.Activity{}, err
	}

	isin := strings.ToUpper(strings.TrimSpace(d.ISIN))
	if !isinFormat.MatchString(isin) {
		return model.Activity{}, &FieldError{Field: "isin", Raw: d.ISIN, Err: apperrors.ErrInvalidISIN}
	}
	if !isinCheckDigitOK(isin) {
		return model.Activity{}, &FieldError{Field: "isin", Raw: d.ISIN, Err: apperrors.ErrInvalidISINCheckDigit}
	}

	company := NormalizeLine(d.Company)
	if company == "" {
		return model.Activity{}, Missing("company")
	}

	if !d.Shares.IsPositive() {
		return model.Activity{}, &FieldError{Field: "shares", Raw: d.Shares.String(), Err: apperrors.ErrMalformedNumber}
	}
	money := []struct {
		field string
		value decimal.Decimal
	}{{"price", d.Price}, {"amount", d.Amount}, {"fee", d.Fee}, {"tax", d.Tax}}
	for _, m := range money {
		if m.value.IsNegative() {
			return model.Activity{}, &FieldError{Field: m.field, Raw: m.value.String(), Err: apperrors.ErrMalformedNumber}
		}
	}

	return model.Activity{
		Broker:  broker,
		Type:    d.Type,
		Date:    date,
		ISIN:    isin,
		Company: company,
		Shares:  d.Shares,
		Price:   d.Price,
		Amount:  RoundCurrency(d.Amount),
		Fee:     RoundCurrency(d.Fee),
		Tax:     RoundCurrency(d.Tax),
	}, nil
}

// RoundCurrency rounds to cents, half away from zero (half-up for the
// non-negative amounts an Activity carries).
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
