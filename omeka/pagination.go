package omeka

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetPaginated fetches every page of a listing, starting at rawURL.
//
// params apply to the first request only; later pages are requested by the
// server's rel="next" link as given. A failed request ends the traversal and
// the records collected so far are returned.
func (c *Client) GetPaginated(ctx context.Context, rawURL string, params url.Values) []Resource {
	var records []Resource
	visited := make(map[string]bool)
	page := 0

	for rawURL != "" {
		visited[rawURL] = true
		page++

		var batch []Resource
		header, err := c.getJSON(ctx, rawURL, params, &batch)
		if err != nil {
			c.logger.Error().
				Err(err).
				Int("page", page).
				Int("total", len(records)).
				Msg("Error fetching items")
			break
		}
		records = append(records, batch...)

		c.logger.Debug().
			Int("page", page).
			Int("count", len(batch)).
			Int("total", len(records)).
			Msg("Retrieved page from Omeka")

		next := nextLink(header, rawURL)
		if next != "" && visited[next] {
			c.logger.Warn().
				Str("url", redactRawURL(next)).
				Msg("Next page link points to a page already fetched, stopping")
			break
		}
		rawURL = next
		params = nil
	}

	return records
}

// GetItemsFromCollection fetches all items of an item set
func (c *Client) GetItemsFromCollection(ctx context.Context, itemSetID string) []Resource {
	params := c.credentials.Params()
	params.Set("item_set_id", itemSetID)
	params.Set("per_page", strconv.Itoa(c.pageSize))

	return c.GetPaginated(ctx, c.endpoint("items"), params)
}

// GetMedia fetches the media attached to an item
func (c *Client) GetMedia(ctx context.Context, itemID int) []Resource {
	return c.GetPaginated(ctx, c.endpoint("media?item_id="+strconv.Itoa(itemID)), c.credentials.Params())
}

// nextLink returns the absolute rel="next" target from Link headers, or ""
func nextLink(header http.Header, requestURL string) string {
	for _, value := range header.Values("Link") {
		for _, link := range parseLinkHeader(value) {
			if !link.hasRel("next") {
				continue
			}
			return resolveLink(requestURL, link.target)
		}
	}
	return ""
}

type linkValue struct {
	target string
	rels   []string
}

func (l linkValue) hasRel(rel string) bool {
	for _, r := range l.rels {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}

// parseLinkHeader splits an RFC 8288 Link header into its link values
func parseLinkHeader(value string) []linkValue {
	var links []linkValue

	for value != "" {
		value = strings.TrimLeft(value, " \t,")
		if !strings.HasPrefix(value, "<") {
			break
		}
		end := strings.IndexByte(value, '>')
		if end < 0 {
			break
		}
		link := linkValue{target: value[1:end]}
		value = value[end+1:]

		// Parameters run until the next comma outside quotes
		for {
			value = strings.TrimLeft(value, " \t")
			if !strings.HasPrefix(value, ";") {
				break
			}
			value = strings.TrimLeft(value[1:], " \t")

			var name, param string
			name, value = splitToken(value)
			value = strings.TrimLeft(value, " \t")
			if strings.HasPrefix(value, "=") {
				param, value = parseParamValue(strings.TrimLeft(value[1:], " \t"))
			}
			if strings.EqualFold(name, "rel") {
				link.rels = append(link.rels, strings.Fields(param)...)
			}
		}

		links = append(links, link)
	}

	return links
}

func splitToken(s string) (string, string) {
	i := strings.IndexAny(s, "=;, \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

func parseParamValue(s string) (string, string) {
	if !strings.HasPrefix(s, `"`) {
		i := strings.IndexAny(s, ";,")
		if i < 0 {
			return strings.TrimSpace(s), ""
		}
		return strings.TrimSpace(s[:i]), s[i:]
	}

	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
			}
		case '"':
			return sb.String(), s[i+1:]
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String(), ""
}

func resolveLink(base, target string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return baseURL.ResolveReference(ref).String()
}
