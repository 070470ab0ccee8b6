// Package traderepublic parses the text of Trade Republic trade confirmations
// and dividend advices into activities.
//
// Supported layouts: limit and market order buys (with or without a labelled
// ISIN, with or without financial-transaction tax), savings-plan executions,
// sells and dividend/distribution advices.
package traderepublic

import (
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
)

// Broker is the identifier stamped on every activity this package produces.
const Broker = "traderepublic"

// Parser implements parser.Parser for Trade Republic documents. It holds no
// state and may be shared between goroutines.
type Parser struct{}

// New creates a Trade Republic parser.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) Broker() string {
	return Broker
}

func (p *Parser) CanParse(lines []string) bool {
	return CanParse(lines)
}

// Classify names the document variant without extracting fields.
func (p *Parser) Classify(lines []string) (string, error) {
	v, err := Classify(lines)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Parse classifies the document, runs the variant's extractor and finalizes the record.
func (p *Parser) Parse(lines []string) (model.Activity, error) {
	v, err := Classify(lines)
	if err != nil {
		return model.Activity{}, err
	}

	draft, err := extract(v, lines)
	if err != nil {
		return model.Activity{}, err
	}

	return parser.Finalize(Broker, draft)
}

var _ parser.Parser = (*Parser)(nil)
var _ parser.Classifier = (*Parser)(nil)
