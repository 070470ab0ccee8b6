// Package parser holds the broker-agnostic parts of the document engine:
// the line matcher, the German-locale numeric normalizer, the record
// finalizer and the registry that routes a document to its broker parser.
//
// A document is the ordered sequence of text lines handed over by the PDF
// text extraction. Nothing in this package performs I/O or keeps state
// between calls, so parsers are safe for concurrent use.
package parser

import "github.com/ndewijer/Broker-Document-Importer/internal/model"

// Parser converts the text of one broker document into an Activity.
type Parser interface {
	// Broker returns the identifier stamped on every Activity the parser emits.
	Broker() string

	// CanParse reports whether the document was produced by this broker.
	CanParse(lines []string) bool

	// Parse extracts the Activity. It never returns a partially populated record.
	Parse(lines []string) (model.Activity, error)
}

// Classifier is implemented by parsers that can name the document variant
// without running extraction.
type Classifier interface {
	Classify(lines []string) (string, error)
}
