package parser

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
)

// Registry routes a document to the one parser whose markers it carries.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry over the given parsers.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// Brokers lists the identifiers of all registered parsers.
func (r *Registry) Brokers() []string {
	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		names = append(names, p.Broker())
	}
	return names
}

// Detect returns the parser that claims the document.
// Returns ErrNotThisBroker when none does and ErrAmbiguousBroker when more than one does.
func (r *Registry) Detect(lines []string) (Parser, error) {
	var found []Parser
	for _, p := range r.parsers {
		if p.CanParse(lines) {
			found = append(found, p)
		}
	}

	switch len(found) {
	case 0:
		return nil, apperrors.ErrNotThisBroker
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, p := range found {
			names[i] = p.Broker()
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAmbiguousBroker, strings.Join(names, ", "))
	}
}

// Parse detects the broker and parses the document with it.
func (r *Registry) Parse(lines []string) (model.Activity, error) {
	p, err := r.Detect(lines)
	if err != nil {
		return model.Activity{}, err
	}
	return p.Parse(lines)
}

// Classify detects the broker and, when the parser supports it, the document variant.
func (r *Registry) Classify(lines []string) (model.DetectResult, error) {
	p, err := r.Detect(lines)
	if err != nil {
		return model.DetectResult{CanParse: false}, err
	}

	result := model.DetectResult{CanParse: true, Broker: p.Broker()}
	if c, ok := p.(Classifier); ok {
		variant, err := c.Classify(lines)
		if err != nil {
			return result, err
		}
		result.Variant = variant
	}
	return result, nil
}
