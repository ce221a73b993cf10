package lims

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Query searches the type's collection endpoint with the given filter
// parameters (UDF filters use the "udf.Name" convention of the API). Matches
// come back as unhydrated stubs: reading a field on one triggers its fetch,
// so callers wanting full data for many matches should follow up with
// BatchFetch instead of looping over field reads.
//
// The server pages large result sets; Query follows next-page links until
// the set is complete.
func (l *Lims) Query(ctx context.Context, typeTag string, filters url.Values) ([]*Entity, error) {
	uri := l.collectionURI(typeTag)
	if len(filters) > 0 {
		uri += "?" + filters.Encode()
	}

	var out []*Entity
	for uri != "" {
		res, err := l.rest.get(ctx, uri)
		if err != nil {
			return nil, err
		}
		if res.Status == http.StatusNotFound {
			return nil, &NotFoundError{URI: uri}
		}
		if !res.ok() {
			return nil, fmt.Errorf("query %s failed with status %d: %s", uri, res.Status, res.Body)
		}
		doc, err := parseBody(uri, res.Body)
		if err != nil {
			return nil, err
		}

		next := ""
		for _, c := range doc.Children {
			if c.Tag == "next-page" {
				next, _ = c.Attr("uri")
				continue
			}
			raw, ok := c.Attr("uri")
			if !ok {
				continue
			}
			canonical, err := canonicalURI(raw)
			if err != nil {
				return nil, &ParseError{URI: uri, Err: err}
			}
			out = append(out, l.getOrCreate(typeTag, canonical))
		}
		uri = next
	}
	return out, nil
}

// QueryOne runs Query and requires exactly one match. Zero matches yield an
// EmptyResultError, several an AmbiguousResultError; the first match is
// never picked silently.
func (l *Lims) QueryOne(ctx context.Context, typeTag string, filters url.Values) (*Entity, error) {
	matches, err := l.Query(ctx, typeTag, filters)
	if err != nil {
		return nil, err
	}
	what := fmt.Sprintf("%s query %s", typeTag, filters.Encode())
	switch len(matches) {
	case 0:
		return nil, &EmptyResultError{What: what}
	case 1:
		return matches[0], nil
	default:
		return nil, &AmbiguousResultError{What: what, Count: len(matches)}
	}
}
