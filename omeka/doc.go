// Package omeka provides a client for the Omeka S REST API.
//
// Omeka S is a web publishing platform for digital collections. Items, media
// and item sets are exposed as JSON-LD documents; property values live in
// namespaced fields such as "dcterms:title", each holding a list of value
// entries.
//
// # Architecture
//
//   - Client: request plumbing, credentials and rate limiting
//   - Pagination: follows rel="next" Link headers across listing pages
//   - Resource: raw JSON-LD representation that round-trips unknown keys
//   - Vocabulary: property id to field name table used for write-back
//   - Errors: RequestError and DownloadError
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := omeka.NewClient(
//		"https://omeka.example.org/api/",
//		omeka.Credentials{Identity: "id", Credential: "secret"},
//		logger,
//		omeka.WithPageSize(100),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	items := client.GetItemsFromCollection(ctx, "10780")
//	for _, item := range items {
//		for _, m := range client.GetMedia(ctx, item.ID()) {
//			// ...
//		}
//	}
//
// # Error Handling
//
// Listings never fail: a failed page is logged and the records fetched so
// far are returned. Downloads return a *DownloadError. UpdateItem reports a
// bool and logs the cause; AddValue returns the error instead.
//
// Request failures are *RequestError values and classify with errors.Is:
//
//	if errors.Is(err, omeka.ErrTransport) {
//		// DNS, connection reset, timeout
//	}
//
// There is no retry.
package omeka
