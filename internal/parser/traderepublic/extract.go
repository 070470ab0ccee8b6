package traderepublic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
)

// derivedPricePrecision is the number of decimal places kept when a per-share
// price is computed from an aggregate amount.
const derivedPricePrecision = 28

var (
	overviewStart   = parser.Pattern(`^ÜBERSICHT$`)
	settlementStart = parser.Pattern(`^ABRECHNUNG$`)
	bookingStart    = parser.Pattern(`^BUCHUNG$`)
	positionHeader  = parser.Pattern(`^POSITION ANZAHL`)
	accountHeader   = parser.Pattern(`^VERRECHNUNGSKONTO`)
	totalLabel      = parser.Pattern(`^GESAMT\b`)
	isinLabel       = parser.Literal("ISIN")

	buyDate     = parser.Literal("Kauf am")
	sellDate    = parser.Literal("Verkauf am")
	savingsDate = parser.Literal("Sparplanausführung am")

	feeLabel = parser.Pattern(`^(?:Fremdkostenzuschlag|Gebühr|Provision)\b`)
	taxLabel = parser.Pattern(`^(?:\S+ )?(?:Kapitalertrags?steuer|Solidaritätszuschlag|Kirchensteuer|Quellensteuer|Finanztransaktionssteuer)\b`)
)

var (
	// "3 Stk. 768,10 EUR 2.304,30 EUR"; dividends print only the gross amount.
	positionLine = regexp.MustCompile(`^([\d.,]+) Stk\.((?: -?[\d.,]+ EUR)*)$`)
	eurValue     = regexp.MustCompile(`-?[\d.,]+ EUR`)
	datePattern  = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
)

// position is the security block of the ÜBERSICHT section.
type position struct {
	company string
	isin    string
	shares  decimal.Decimal
	values  []string        // EUR figures printed after the share count
	total   decimal.Decimal // GESAMT of the overview, if printed
	hasSum  bool
}

// extract dispatches to the extractor of a classified variant.
func extract(v Variant, lines []string) (parser.Draft, error) {
	var (
		d   parser.Draft
		err error
	)
	switch v {
	case BuyLimit, BuyMarket:
		d, err = extractOrder(lines, model.ActivityBuy, buyDate)
	case BuySavingsPlan:
		d, err = extractSavingsPlan(lines)
	case Sell:
		d, err = extractOrder(lines, model.ActivitySell, sellDate)
	case Dividend:
		d, err = extractDividend(lines)
	default:
		return parser.Draft{}, apperrors.ErrUnrecognizedVariant
	}
	if err != nil {
		return parser.Draft{}, fmt.Errorf("%s: %w", v, err)
	}
	return d, nil
}

// extractOrder reads limit and market orders on either side of the book.
// The price is printed; the amount is the overview total when present,
// otherwise the position amount, otherwise shares times price.
func extractOrder(lines []string, typ model.ActivityType, dateAnchor parser.Anchor) (parser.Draft, error) {
	pos, err := readPosition(lines)
	if err != nil {
		return parser.Draft{}, err
	}
	if len(pos.values) == 0 {
		return parser.Draft{}, parser.Missing("price")
	}

	price, err := parser.ParseMagnitude(pos.values[0])
	if err != nil {
		return parser.Draft{}, parser.WithField(err, "price")
	}

	var amount decimal.Decimal
	switch {
	case pos.hasSum:
		amount = pos.total
	case len(pos.values) > 1:
		if amount, err = parser.ParseMagnitude(pos.values[1]); err != nil {
			return parser.Draft{}, parser.WithField(err, "amount")
		}
	default:
		amount = parser.RoundCurrency(pos.shares.Mul(price))
	}

	date, err := findDate(lines, dateAnchor)
	if err != nil {
		return parser.Draft{}, err
	}

	fee, tax, err := readCharges(lines)
	if err != nil {
		return parser.Draft{}, err
	}

	return parser.Draft{
		Type:    typ,
		Date:    date,
		ISIN:    pos.isin,
		Company: pos.company,
		Shares:  pos.shares,
		Price:   price,
		Amount:  amount,
		Fee:     fee,
		Tax:     tax,
	}, nil
}

// extractSavingsPlan reads a savings-plan execution. Only the invested amount
// and the fractional share count are authoritative, so the price is always
// derived from them; a printed average price is rounded and ignored.
func extractSavingsPlan(lines []string) (parser.Draft, error) {
	pos, err := readPosition(lines)
	if err != nil {
		return parser.Draft{}, err
	}

	amount := pos.total
	if !pos.hasSum {
		if len(pos.values) == 0 {
			return parser.Draft{}, parser.Missing("amount")
		}
		if amount, err = parser.ParseMagnitude(pos.values[len(pos.values)-1]); err != nil {
			return parser.Draft{}, parser.WithField(err, "amount")
		}
	}
	amount = parser.RoundCurrency(amount)

	date, err := findDate(lines, savingsDate)
	if err != nil {
		return parser.Draft{}, err
	}

	fee, tax, err := readCharges(lines)
	if err != nil {
		return parser.Draft{}, err
	}

	return parser.Draft{
		Type:    model.ActivityBuy,
		Date:    date,
		ISIN:    pos.isin,
		Company: pos.company,
		Shares:  pos.shares,
		Price:   amount.DivRound(pos.shares, derivedPricePrecision),
		Amount:  amount,
		Fee:     fee,
		Tax:     tax,
	}, nil
}

// extractDividend reads dividend and distribution advices. The amount is
// the net payout of the ABRECHNUNG section, tax the sum of the withholding
// lines and the per-share price is derived from amount and shares.
// Dividends carry no trading fee.
func extractDividend(lines []string) (parser.Draft, error) {
	pos, err := readPosition(lines)
	if err != nil {
		return parser.Draft{}, err
	}

	settlement := parser.Section(lines, settlementStart, bookingStart)
	raw, ok := parser.Find(settlement, totalLabel, 0)
	if !ok {
		return parser.Draft{}, parser.Missing("amount")
	}
	amount, err := parser.ParseMagnitude(raw)
	if err != nil {
		return parser.Draft{}, parser.WithField(err, "amount")
	}
	amount = parser.RoundCurrency(amount)

	_, tax, err := readCharges(lines)
	if err != nil {
		return parser.Draft{}, err
	}

	// The payout date is the valuta of the booking row right below the
	// account header; anything else in that position is not a booking row.
	booking := parser.Section(lines, bookingStart, parser.Literal("www.traderepublic.com"))
	line, _ := parser.Find(booking, accountHeader, 1)
	date := datePattern.FindString(line)
	if date == "" {
		return parser.Draft{}, parser.Missing("date")
	}

	return parser.Draft{
		Type:    model.ActivityDividend,
		Date:    date,
		ISIN:    pos.isin,
		Company: pos.company,
		Shares:  pos.shares,
		Price:   amount.DivRound(pos.shares, derivedPricePrecision),
		Amount:  amount,
		Fee:     decimal.Zero,
		Tax:     tax,
	}, nil
}

// readPosition reads company, ISIN and share count from the overview block:
//
//	POSITION ANZAHL KURS BETRAG
//	Tesla Inc.
//	Registered Shares DL-,001
//	ISIN: US88160R1014
//	3 Stk. 768,10 EUR 2.304,30 EUR
//	GESAMT 2.304,30 EUR
//
// Older documents omit the ISIN label and append the identifier to the
// security description line instead.
func readPosition(lines []string) (position, error) {
	overview := parser.Section(lines, overviewStart, settlementStart)
	header := parser.Index(overview, positionHeader)
	if header < 0 {
		return position{}, parser.Missing("position")
	}
	block := overview[header+1:]

	at := -1
	for i, l := range block {
		if positionLine.MatchString(parser.NormalizeLine(l)) {
			at = i
			break
		}
	}
	if at < 0 {
		return position{}, parser.Missing("shares")
	}
	if at == 0 {
		return position{}, parser.Missing("company")
	}

	pos := position{company: parser.NormalizeLine(block[0])}

	description := block[1:at]
	if v, ok := parser.Find(description, isinLabel, 0); ok {
		pos.isin = v
	} else {
		for _, l := range description {
			if ids := parser.ISINToken.FindAllString(l, -1); len(ids) > 0 {
				pos.isin = ids[len(ids)-1]
			}
		}
	}
	if pos.isin == "" {
		return position{}, parser.Missing("isin")
	}

	m := positionLine.FindStringSubmatch(parser.NormalizeLine(block[at]))
	shares, err := parser.ParseDecimal(m[1])
	if err != nil {
		return position{}, parser.WithField(err, "shares")
	}
	pos.shares = shares
	for _, v := range eurValue.FindAllString(m[2], -1) {
		pos.values = append(pos.values, strings.TrimSpace(v))
	}

	if raw, ok := parser.Find(block[at+1:], totalLabel, 0); ok {
		total, err := parser.ParseMagnitude(raw)
		if err != nil {
			return position{}, parser.WithField(err, "amount")
		}
		pos.total, pos.hasSum = total, true
	}

	return pos, nil
}

// readCharges sums the fee and tax lines of the ABRECHNUNG section.
// Both are reported as positive amounts; absent lines leave them at zero.
func readCharges(lines []string) (fee, tax decimal.Decimal, err error) {
	settlement := parser.Section(lines, settlementStart, bookingStart)

	for _, m := range parser.FindAll(settlement, feeLabel) {
		v, err := parser.ParseMagnitude(m.Value)
		if err != nil {
			return decimal.Zero, decimal.Zero, parser.WithField(err, "fee")
		}
		fee = fee.Add(v)
	}
	for _, m := range parser.FindAll(settlement, taxLabel) {
		v, err := parser.ParseMagnitude(m.Value)
		if err != nil {
			return decimal.Zero, decimal.Zero, parser.WithField(err, "tax")
		}
		tax = tax.Add(v)
	}
	return fee, tax, nil
}

// findDate returns the first DD.MM.YYYY date after the anchor.
func findDate(lines []string, anchor parser.Anchor) (string, error) {
	v, ok := parser.Find(lines, anchor, 0)
	if !ok {
		return "", parser.Missing("date")
	}
	return firstDate(v), nil
}

// firstDate picks the date out of a sentence; the whole text is returned
// when there is none so that the finalizer reports it as invalid.
func firstDate(s string) string {
	if d := datePattern.FindString(s); d != "" {
		return d
	}
	return s
}
