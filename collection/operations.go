package collection

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/extract"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

// ErrUpdateFailed is returned when an item could not be written back
var ErrUpdateFailed = errors.New("omeka item update failed")

// ListOptions contains options for listing records
type ListOptions struct {
	ItemSetID string
	WithMedia bool
	Filter    func(Record) bool
}

// WriteBackOptions describes a DSP URI write-back
type WriteBackOptions struct {
	ItemID     int
	PropertyID int
	URI        string
	DryRun     bool
}

// Operations handles listing, download and write-back against Omeka
type Operations struct {
	client omeka.API
	logger zerolog.Logger
}

// NewOperations creates a new Operations instance
func NewOperations(client omeka.API, logger zerolog.Logger) *Operations {
	return &Operations{
		client: client,
		logger: logger,
	}
}

// ListRecords returns the records of an item set matching the filter
func (o *Operations) ListRecords(ctx context.Context, opts ListOptions) []Record {
	items := o.client.GetItemsFromCollection(ctx, opts.ItemSetID)

	o.logger.Debug().
		Str("item_set_id", opts.ItemSetID).
		Int("count", len(items)).
		Msg("Retrieved items from Omeka")

	var results []Record
	for _, item := range items {
		rec := NewRecord(item)
		if opts.WithMedia {
			rec.Media = o.Media(ctx, rec.ID)
		}
		if opts.Filter != nil && !opts.Filter(rec) {
			continue
		}
		results = append(results, rec)
	}

	return results
}

// Record fetches a single item and its media
func (o *Operations) Record(ctx context.Context, itemID int) (Record, error) {
	item, err := o.client.GetItem(ctx, itemID)
	if err != nil {
		return Record{}, fmt.Errorf("failed to fetch item %d: %w", itemID, err)
	}

	rec := NewRecord(item)
	rec.Media = o.Media(ctx, itemID)
	return rec, nil
}

// Media returns the media files of an item
func (o *Operations) Media(ctx context.Context, itemID int) []MediaFile {
	var files []MediaFile
	for _, res := range o.client.GetMedia(ctx, itemID) {
		m, err := res.Media()
		if err != nil {
			o.logger.Warn().
				Err(err).
				Int("item_id", itemID).
				Int("media_id", res.ID()).
				Msg("Skipping undecodable media")
			continue
		}
		files = append(files, NewMediaFile(m))
	}
	return files
}

// DownloadResult contains the results of downloading a record's media
type DownloadResult struct {
	Requested  int
	Downloaded []string
	Bytes      int64
	Skipped    []MediaFile
	Failed     []error
}

// Err returns the joined download errors, or nil
func (r DownloadResult) Err() error {
	return errors.Join(r.Failed...)
}

// Add merges another result into r
func (r *DownloadResult) Add(other DownloadResult) {
	r.Requested += other.Requested
	r.Downloaded = append(r.Downloaded, other.Downloaded...)
	r.Bytes += other.Bytes
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Failed = append(r.Failed, other.Failed...)
}

// DownloadMedia downloads every media file of a record below dir.
//
// Files land in dir/<record folder>/<file name>. A failed download does not
// stop the remaining ones; failures are collected in the result.
func (o *Operations) DownloadMedia(ctx context.Context, rec Record, dir string) DownloadResult {
	result := DownloadResult{Requested: len(rec.Media)}

	for _, m := range rec.Media {
		if !extract.IsValidURL(m.URL) {
			o.logger.Warn().
				Int("item_id", rec.ID).
				Int("media_id", m.ID).
				Str("url", m.URL).
				Msg("Media has no valid file URL, skipping")
			result.Skipped = append(result.Skipped, m)
			continue
		}

		name := sanitizeName(filepath.Base(m.FileName))
		if name == "" {
			name = fmt.Sprintf("%d", m.ID)
		}
		dest := filepath.Join(dir, rec.Folder(), name)

		n, err := o.client.DownloadFile(ctx, m.URL, dest)
		if err != nil {
			result.Failed = append(result.Failed, err)
			continue
		}

		result.Downloaded = append(result.Downloaded, dest)
		result.Bytes += n
	}

	return result
}

// WriteBack adds a DSP URI to an item
func (o *Operations) WriteBack(ctx context.Context, opts WriteBackOptions) error {
	if !extract.IsValidURL(opts.URI) {
		return fmt.Errorf("invalid DSP URI: %q", opts.URI)
	}

	if opts.DryRun {
		o.logger.Info().
			Int("item_id", opts.ItemID).
			Int("property_id", opts.PropertyID).
			Str("uri", opts.URI).
			Msg("[DRY RUN] Would update Omeka item")
		return nil
	}

	if !o.client.UpdateItem(ctx, opts.ItemID, opts.PropertyID, opts.URI) {
		return fmt.Errorf("%w: item %d", ErrUpdateFailed, opts.ItemID)
	}
	return nil
}
