package omeka

import "maps"

// FallbackTerm is the field written to when a property id cannot be
// resolved to a field name.
const FallbackTerm = "dcterms:hasVersion"

// Vocabulary maps property ids to their field names (terms)
type Vocabulary map[int]string

// DefaultVocabulary returns the Dublin Core terms as numbered by a
// default Omeka S installation.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		1:  "dcterms:title",
		2:  "dcterms:creator",
		3:  "dcterms:subject",
		4:  "dcterms:description",
		5:  "dcterms:publisher",
		6:  "dcterms:contributor",
		7:  "dcterms:date",
		8:  "dcterms:type",
		9:  "dcterms:format",
		10: "dcterms:identifier",
		11: "dcterms:source",
		12: "dcterms:language",
		13: "dcterms:relation",
		14: "dcterms:coverage",
		15: "dcterms:rights",
		27: "dcterms:isVersionOf",
		28: "dcterms:hasVersion",
		33: "dcterms:isPartOf",
		34: "dcterms:hasPart",
	}
}

// With returns a copy of the vocabulary with overrides applied
func (v Vocabulary) With(overrides map[int]string) Vocabulary {
	merged := make(Vocabulary, len(v)+len(overrides))
	maps.Copy(merged, v)
	for id, term := range overrides {
		if term != "" {
			merged[id] = term
		}
	}
	return merged
}

// Term returns the field name for a property id
func (v Vocabulary) Term(propertyID int) (string, bool) {
	term, ok := v[propertyID]
	return term, ok
}

// ResolveTerm picks the field a new value for propertyID belongs in.
//
// Order: an existing field of r whose first entry carries propertyID, then
// the vocabulary, then FallbackTerm.
func (v Vocabulary) ResolveTerm(r Resource, propertyID int) string {
	for _, term := range r.Terms() {
		values := r.Values(term)
		if len(values) > 0 && values[0].PropertyID == propertyID {
			return term
		}
	}
	if term, ok := v.Term(propertyID); ok {
		return term
	}
	return FallbackTerm
}
