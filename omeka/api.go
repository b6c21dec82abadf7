package omeka

import (
	"context"
	"net/url"
)

// API defines the Omeka operations used by the rest of the application
type API interface {
	// TestConnection verifies the client can reach the API
	TestConnection(ctx context.Context) error

	// GetItem retrieves a single item
	GetItem(ctx context.Context, itemID int) (Resource, error)

	// GetItemsFromCollection retrieves every item of an item set
	GetItemsFromCollection(ctx context.Context, itemSetID string) []Resource

	// GetMedia retrieves the media attached to an item
	GetMedia(ctx context.Context, itemID int) []Resource

	// DownloadFile streams a remote file to a local path
	DownloadFile(ctx context.Context, rawURL, destPath string) (int64, error)

	// UpdateItem appends a literal value to an item and writes it back
	UpdateItem(ctx context.Context, itemID, propertyID int, uri string) bool
}

// PageFetcher follows paginated listings
type PageFetcher interface {
	GetPaginated(ctx context.Context, rawURL string, params url.Values) []Resource
}

var (
	_ API         = (*Client)(nil)
	_ PageFetcher = (*Client)(nil)
)
