package omeka

import (
	"context"
	"encoding/json"
	"fmt"
)

// UpdateItem appends uri as a literal value of propertyID to an item and
// writes the item back. It reports success; failures are logged.
//
// Each call appends a new value, and a change made to the item between the
// read and the write is overwritten.
func (c *Client) UpdateItem(ctx context.Context, itemID, propertyID int, uri string) bool {
	if err := c.AddValue(ctx, itemID, propertyID, uri); err != nil {
		c.logger.Error().
			Err(err).
			Int("item_id", itemID).
			Msg("Failed to update Omeka item")
		return false
	}

	c.logger.Info().
		Int("item_id", itemID).
		Int("property_id", propertyID).
		Str("uri", uri).
		Msg("Successfully updated Omeka item")
	return true
}

// AddValue performs the read-modify-write behind UpdateItem and returns the
// first error encountered.
func (c *Client) AddValue(ctx context.Context, itemID, propertyID int, uri string) error {
	itemURL := c.itemURL(itemID)
	params := c.credentials.Params()

	var item Resource
	if _, err := c.getJSON(ctx, itemURL, params, &item); err != nil {
		return fmt.Errorf("failed to fetch item %d: %w", itemID, err)
	}
	if item == nil {
		return fmt.Errorf("item %d: empty response body", itemID)
	}

	if _, err := AppendValue(item, c.vocabulary, NewLiteral(propertyID, uri)); err != nil {
		return fmt.Errorf("failed to modify item %d: %w", itemID, err)
	}

	if err := c.putJSON(ctx, itemURL, params, item); err != nil {
		return fmt.Errorf("failed to write item %d: %w", itemID, err)
	}
	return nil
}

// AppendValue adds value to the field resolved for its property id, creating
// the field if it is missing or not a list. It returns the field name used.
// Existing entries are kept as raw JSON.
func AppendValue(item Resource, vocab Vocabulary, value PropertyValue) (string, error) {
	term := vocab.ResolveTerm(item, value.PropertyID)

	var entries []json.RawMessage
	if raw, ok := item[term]; ok {
		if err := json.Unmarshal(raw, &entries); err != nil {
			entries = nil
		}
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	entries = append(entries, encoded)

	field, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode field %s: %w", term, err)
	}
	item[term] = field

	return term, nil
}
