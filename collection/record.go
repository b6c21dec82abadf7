package collection

import (
	"strconv"
	"strings"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/extract"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

// Dublin Core property ids of a default Omeka S installation
const (
	PropertyTitle       = 1
	PropertyCreator     = 2
	PropertySubject     = 3
	PropertyDescription = 4
	PropertyPublisher   = 5
	PropertyDate        = 7
	PropertyType        = 8
	PropertyFormat      = 9
	PropertyIdentifier  = 10
	PropertySource      = 11
	PropertyLanguage    = 12
	PropertyRelation    = 13
	PropertyRights      = 15
)

// Record is the flat textual representation of an item
type Record struct {
	ID          int         `json:"id"`
	Identifier  string      `json:"identifier"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Creators    []string    `json:"creators,omitempty"`
	Subjects    []string    `json:"subjects,omitempty"`
	Dates       []string    `json:"dates,omitempty"`
	Types       []string    `json:"types,omitempty"`
	Formats     []string    `json:"formats,omitempty"`
	Languages   []string    `json:"languages,omitempty"`
	Relations   []string    `json:"relations,omitempty"`
	Rights      []string    `json:"rights,omitempty"`
	Sources     []string    `json:"sources,omitempty"`
	Publishers  []string    `json:"publishers,omitempty"`
	Media       []MediaFile `json:"media,omitempty"`

	resource omeka.Resource
}

// MediaFile contains the media information needed for display and download
type MediaFile struct {
	ID        int    `json:"id"`
	Title     string `json:"title,omitempty"`
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type,omitempty"`
	Size      int64  `json:"size,omitempty"`
	URL       string `json:"url,omitempty"`
}

// NewRecord flattens an item resource into a Record
func NewRecord(item omeka.Resource) Record {
	values := item.AllValues()

	rec := Record{
		ID:          item.ID(),
		Identifier:  extract.Property(values, PropertyIdentifier, extract.ModeValue),
		Title:       extract.Property(values, PropertyTitle, extract.ModeValue),
		Description: extract.Property(values, PropertyDescription, extract.ModeValue),
		Creators:    extract.CombinedValues(item.ValuesFor(PropertyCreator)),
		Subjects:    extract.CombinedValues(item.ValuesFor(PropertySubject)),
		Dates:       extract.CombinedValues(item.ValuesFor(PropertyDate)),
		Types:       extract.CombinedValues(item.ValuesFor(PropertyType)),
		Formats:     extract.CombinedValues(item.ValuesFor(PropertyFormat)),
		Languages:   extract.CombinedValues(item.ValuesFor(PropertyLanguage)),
		Relations:   extract.CombinedValues(item.ValuesFor(PropertyRelation)),
		Rights:      extract.CombinedValues(item.ValuesFor(PropertyRights)),
		Sources:     extract.CombinedValues(item.ValuesFor(PropertySource)),
		Publishers:  extract.CombinedValues(item.ValuesFor(PropertyPublisher)),
		resource:    item,
	}

	// Fall back to Omeka's computed title
	if rec.Title == "" {
		rec.Title = item.String("o:title")
	}

	return rec
}

// NewMediaFile converts a media resource into a MediaFile
func NewMediaFile(m omeka.Media) MediaFile {
	return MediaFile{
		ID:        m.ID,
		Title:     m.Title,
		FileName:  m.FileName(),
		MediaType: m.MediaType,
		Size:      m.Size,
		URL:       m.OriginalURL,
	}
}

// Resource returns the raw item the record was built from
func (r Record) Resource() omeka.Resource {
	return r.resource
}

// Value returns the first literal of a property
func (r Record) Value(propertyID int) string {
	return extract.Property(r.resource.AllValues(), propertyID, extract.ModeValue)
}

// Label returns the label of the first value of a property
func (r Record) Label(propertyID int) string {
	return extract.Property(r.resource.AllValues(), propertyID, extract.ModeLabel)
}

// Link returns the first value of a property as a markdown link
func (r Record) Link(propertyID int) string {
	return extract.Property(r.resource.AllValues(), propertyID, extract.ModeURI)
}

// Values returns every value of a property, flattened
func (r Record) Values(propertyID int) []string {
	return extract.CombinedValues(r.resource.ValuesFor(propertyID))
}

// Folder returns the directory name used for the record's media
func (r Record) Folder() string {
	if name := sanitizeName(r.Identifier); name != "" {
		return name
	}
	return strconv.Itoa(r.ID)
}

// sanitizeName makes s safe to use as a single path element
func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}
