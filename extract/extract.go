// Package extract turns Omeka property values into flat strings.
package extract

import (
	"fmt"
	"strings"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

// Delimiter separates multiple values in the flat representation and is
// therefore escaped inside values.
const Delimiter = ";"

// escapedDelimiter replaces Delimiter inside values. It has no trailing ";"
// so escaped output never contains the delimiter.
const escapedDelimiter = "&#59"

// Mode selects how Property renders a matching value
type Mode int

const (
	// ModeValue returns the literal value
	ModeValue Mode = iota
	// ModeURI returns a markdown link "[label](id)"
	ModeURI
	// ModeLabel returns the reference label
	ModeLabel
)

// String returns the name of the mode
func (m Mode) String() string {
	switch m {
	case ModeURI:
		return "uri"
	case ModeLabel:
		return "label"
	default:
		return "value"
	}
}

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "value":
		return ModeValue, nil
	case "uri":
		return ModeURI, nil
	case "label":
		return ModeLabel, nil
	}
	return ModeValue, fmt.Errorf("unknown extraction mode: %s", s)
}

// Property returns the first value with the given property id, rendered
// according to mode. It returns "" if no value matches.
func Property(values []omeka.PropertyValue, propertyID int, mode Mode) string {
	for _, v := range values {
		if v.PropertyID != propertyID {
			continue
		}
		switch mode {
		case ModeURI:
			return fmt.Sprintf("[%s](%s)", v.LabelOrEmpty(), v.ResourceIDOrEmpty())
		case ModeLabel:
			return v.LabelOrEmpty()
		default:
			return v.ValueOrEmpty()
		}
	}
	return ""
}

// CombinedValues flattens values into one list: all literals first, then
// all references as HTML anchors. Delimiters inside values are escaped and
// entries with neither a literal nor a reference are dropped.
func CombinedValues(values []omeka.PropertyValue) []string {
	var literals, links []string

	for _, v := range values {
		if v.HasValue() {
			literals = append(literals, Escape(v.ValueOrEmpty()))
		}
		if v.HasReference() {
			links = append(links, fmt.Sprintf("<a href='%s'>%s</a>",
				Escape(v.ResourceIDOrEmpty()), Escape(v.LabelOrEmpty())))
		}
	}

	return append(literals, links...)
}

// Escape replaces the delimiter inside s
func Escape(s string) string {
	return strings.ReplaceAll(s, Delimiter, escapedDelimiter)
}

// Join flattens values and joins them with the delimiter
func Join(values []omeka.PropertyValue) string {
	return strings.Join(CombinedValues(values), Delimiter)
}
