package traderepublic

import (
	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
)

// Variant is the closed set of document layouts this broker produces.
type Variant uint8

const (
	VariantUnknown Variant = iota
	BuyLimit
	BuyMarket
	BuySavingsPlan
	Sell
	Dividend
)

func (v Variant) String() string {
	switch v {
	case BuyLimit:
		return "buy-limit"
	case BuyMarket:
		return "buy-market"
	case BuySavingsPlan:
		return "buy-savings-plan"
	case Sell:
		return "sell"
	case Dividend:
		return "dividend"
	default:
		return "unknown"
	}
}

// All markers must be present: the letterhead and the footer link.
var brokerMarkers = []parser.Anchor{
	parser.Literal("TRADE REPUBLIC BANK GMBH"),
	parser.Literal("www.traderepublic.com"),
}

// variantRules are evaluated in order and the first match wins. Dividend
// and savings-plan markers override the generic order markers that may
// appear on the same document.
var variantRules = []struct {
	variant Variant
	anchors []parser.Anchor // any one matches
}{
	{Dividend, []parser.Anchor{
		parser.Pattern(`^(?:DIVIDENDE|AUSSCHÜTTUNG)$`),
		parser.Literal("mit dem Ex-Tag"),
	}},
	{BuySavingsPlan, []parser.Anchor{parser.Literal("Sparplanausführung")}},
	{Sell, []parser.Anchor{parser.Literal("Order Verkauf am")}},
	{BuyLimit, []parser.Anchor{parser.Pattern(`(?:^|[\s-])Limit-Order Kauf am`)}},
	{BuyMarket, []parser.Anchor{parser.Pattern(`(?:^|[\s-])Market-Order Kauf am`)}},
}

// CanParse reports whether every broker marker is present.
func CanParse(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for _, m := range brokerMarkers {
		if !parser.Contains(lines, m) {
			return false
		}
	}
	return true
}

// Classify decides which variant a document is.
// Returns ErrNotThisBroker when the markers are missing and
// ErrUnrecognizedVariant when no variant rule matches.
func Classify(lines []string) (Variant, error) {
	if !CanParse(lines) {
		return VariantUnknown, apperrors.ErrNotThisBroker
	}
	for _, rule := range variantRules {
		for _, a := range rule.anchors {
			if parser.Contains(lines, a) {
				return rule.variant, nil
			}
		}
	}
	return VariantUnknown, apperrors.ErrUnrecognizedVariant
}
