// Package linkeddata converts Omeka S JSON-LD representations into RDF.
package linkeddata

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/piprate/json-gold/ld"
	"github.com/rs/zerolog"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

const formatNQuads = "application/n-quads"

// Converter turns item resources into N-Quads. Remote @context documents
// are fetched once per Converter.
type Converter struct {
	processor *ld.JsonLdProcessor
	loader    ld.DocumentLoader
	logger    zerolog.Logger
}

// NewConverter creates a converter that loads remote contexts with httpClient
func NewConverter(httpClient *http.Client, logger zerolog.Logger) *Converter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Converter{
		processor: ld.NewJsonLdProcessor(),
		loader:    ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(httpClient)),
		logger:    logger,
	}
}

// ToNQuads serializes the resources as N-Quads
func (c *Converter) ToNQuads(resources []omeka.Resource) (string, error) {
	docs := make([]any, 0, len(resources))
	for _, r := range resources {
		doc, err := toDocument(r)
		if err != nil {
			return "", fmt.Errorf("item %d: %w", r.ID(), err)
		}
		docs = append(docs, doc)
	}

	options := ld.NewJsonLdOptions("")
	options.Format = formatNQuads
	options.DocumentLoader = c.loader

	out, err := c.processor.ToRDF(docs, options)
	if err != nil {
		return "", fmt.Errorf("failed to convert to RDF: %w", err)
	}

	nquads, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected RDF output type %T", out)
	}

	c.logger.Debug().
		Int("items", len(resources)).
		Int("bytes", len(nquads)).
		Msg("Converted items to N-Quads")

	return nquads, nil
}

// toDocument re-decodes a resource into the generic form json-gold expects
func toDocument(r omeka.Resource) (any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
