package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
)

// germanNumber accepts "1234", "1.234", "1.234,56", "1234,5678" and ",5" style
// numerals. Thousands groups must be complete when a separator is used.
var germanNumber = regexp.MustCompile(`^(?:\d{1,3}(?:\.\d{3})+|\d+)?(?:,\d+)?$`)

// currencySuffix and currencyPrefix match one currency code, symbol or percent
// sign at the edge of a value. Tokens inside the numeral are never stripped.
var (
	currencySuffix = regexp.MustCompile(`[\s\x{00a0}]*(?:EUR|USD|GBP|CHF|€|\$|£|%)$`)
	currencyPrefix = regexp.MustCompile(`^(?:EUR|USD|GBP|CHF|€|\$|£)[\s\x{00a0}]*`)
)

// nbspGrouped is "1 234,56": a no-break space between complete thousands groups.
var nbspGrouped = regexp.MustCompile(`^\d{1,3}(?:\x{00a0}\d{3})+(?:,\d+)?$`)

// ParseDecimal converts a German-formatted numeral ("1.234,56 EUR") into an exact decimal.
// A single currency code, currency symbol or percent sign at the edges is
// stripped; a leading "+" or "-" is kept as the sign. Any other whitespace
// inside the numeral makes it malformed. The value is never rounded.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = currencySuffix.ReplaceAllString(s, "")
	s = currencyPrefix.ReplaceAllString(s, "")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if nbspGrouped.MatchString(s) {
		s = strings.ReplaceAll(s, "\u00a0", ".")
	}

	if s == "" || s == "," || !germanNumber.MatchString(s) {
		return decimal.Zero, &FieldError{Raw: raw, Err: apperrors.ErrMalformedNumber}
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &FieldError{Raw: raw, Err: apperrors.ErrMalformedNumber}
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseMagnitude is ParseDecimal without the sign. Tax and fee lines are
// printed as debits ("-1,00 EUR") but are reported as positive amounts.
func ParseMagnitude(raw string) (decimal.Decimal, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Abs(), nil
}
