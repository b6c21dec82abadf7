package omeka

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Resource is a raw Omeka S JSON-LD representation (item or media).
//
// Values are kept as raw JSON so that a fetched item can be written back
// with every key it had, including keys this package knows nothing about.
type Resource map[string]json.RawMessage

// PropertyValue is a single value attached to a property field.
//
// An entry may carry a literal, a linked resource reference, both, or
// neither; the optional fields are nil when the key is absent.
type PropertyValue struct {
	Type          string  `json:"type,omitempty"`
	PropertyID    int     `json:"property_id"`
	PropertyLabel string  `json:"property_label,omitempty"`
	Value         *string `json:"@value,omitempty"`
	ResourceID    *string `json:"@id,omitempty"`
	Label         *string `json:"o:label,omitempty"`
	Language      string  `json:"@language,omitempty"`
}

// UnmarshalJSON decodes a value entry. A number or boolean @value, as
// served by numeric data types, is kept as its JSON text.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	type plain PropertyValue
	var aux struct {
		plain
		Value json.RawMessage `json:"@value,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*v = PropertyValue(aux.plain)
	v.Value = nil

	literal, err := scalarText(aux.Value)
	if err != nil {
		return err
	}
	v.Value = literal
	return nil
}

// scalarText renders a JSON scalar as a string; nil for absent or null
func scalarText(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case '{', '[':
		return nil, fmt.Errorf("unsupported @value: %s", raw)
	}
	// number, true or false
	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid @value: %s", raw)
	}
	s := string(raw)
	return &s, nil
}

// HasValue reports whether the entry carries a literal value
func (v PropertyValue) HasValue() bool {
	return v.Value != nil
}

// HasReference reports whether the entry carries a linked resource reference
func (v PropertyValue) HasReference() bool {
	return v.ResourceID != nil
}

// ValueOrEmpty returns the literal value or ""
func (v PropertyValue) ValueOrEmpty() string {
	if v.Value == nil {
		return ""
	}
	return *v.Value
}

// ResourceIDOrEmpty returns the referenced resource id or ""
func (v PropertyValue) ResourceIDOrEmpty() string {
	if v.ResourceID == nil {
		return ""
	}
	return *v.ResourceID
}

// LabelOrEmpty returns the reference label or ""
func (v PropertyValue) LabelOrEmpty() string {
	if v.Label == nil {
		return ""
	}
	return *v.Label
}

// NewLiteral creates a literal value for the given property
func NewLiteral(propertyID int, value string) PropertyValue {
	return PropertyValue{
		Type:       "literal",
		PropertyID: propertyID,
		Value:      &value,
	}
}

// Reference is an embedded link to another resource, e.g. a media's item
type Reference struct {
	ID  int    `json:"o:id"`
	URL string `json:"@id,omitempty"`
}

// Media is the typed view of a media resource
type Media struct {
	ID          int       `json:"o:id"`
	Item        Reference `json:"o:item"`
	Title       string    `json:"o:title,omitempty"`
	Source      string    `json:"o:source,omitempty"`
	Filename    string    `json:"o:filename,omitempty"`
	MediaType   string    `json:"o:media_type,omitempty"`
	Size        int64     `json:"o:size,omitempty"`
	OriginalURL string    `json:"o:original_url,omitempty"`
}

// FileName returns the best available local file name for the media
func (m Media) FileName() string {
	if m.Source != "" && !strings.Contains(m.Source, "://") {
		return m.Source
	}
	if m.Filename != "" {
		return m.Filename
	}
	return fmt.Sprintf("%d", m.ID)
}

// ID returns the resource's o:id, or 0 if it has none
func (r Resource) ID() int {
	raw, ok := r["o:id"]
	if !ok {
		return 0
	}
	var id int
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0
	}
	return id
}

// String decodes a string-valued key, returning "" if absent or not a string
func (r Resource) String(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Values decodes the property values stored under a field name.
// It returns nil if the field is absent or is not a list. Entries that do
// not decode are skipped; the others are still returned.
func (r Resource) Values(term string) []PropertyValue {
	raw, ok := r[term]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	var values []PropertyValue
	for _, entry := range entries {
		var v PropertyValue
		if err := json.Unmarshal(entry, &v); err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// Terms returns the sorted names of all fields that look like property
// fields, i.e. namespaced keys outside Omeka's own "o:" namespace.
func (r Resource) Terms() []string {
	var terms []string
	for key := range r {
		if isPropertyTerm(key) {
			terms = append(terms, key)
		}
	}
	sort.Strings(terms)
	return terms
}

// AllValues returns the values of every property field in term order
func (r Resource) AllValues() []PropertyValue {
	var all []PropertyValue
	for _, term := range r.Terms() {
		all = append(all, r.Values(term)...)
	}
	return all
}

// ValuesFor returns every value whose property id matches, in term order
func (r Resource) ValuesFor(propertyID int) []PropertyValue {
	var matched []PropertyValue
	for _, v := range r.AllValues() {
		if v.PropertyID == propertyID {
			matched = append(matched, v)
		}
	}
	return matched
}

// Media decodes the resource as a media record
func (r Resource) Media() (Media, error) {
	var m Media
	if err := r.Decode(&m); err != nil {
		return Media{}, fmt.Errorf("failed to decode media: %w", err)
	}
	return m, nil
}

// Decode re-encodes the resource and unmarshals it into v
func (r Resource) Decode(v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func isPropertyTerm(key string) bool {
	if strings.HasPrefix(key, "o:") || strings.HasPrefix(key, "@") {
		return false
	}
	prefix, local, found := strings.Cut(key, ":")
	return found && prefix != "" && local != ""
}
