// Package lims is a client for a LIMS REST API. A Lims session hands out
// Entity values backed by remote XML resources, guaranteeing one in-memory
// instance per resource, deferring fetch and parse cost until a field is
// actually read, and tracking local writes until an explicit save.
package lims

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// APIVersion is the REST API major version this client speaks.
const APIVersion = "v2"

// Lims is one client session. It owns the entity cache; there is no
// process-wide state. The cache is guarded so a session may be shared across
// goroutines for entity resolution, but individual Entity values are not
// safe for concurrent use.
type Lims struct {
	// BaseURI is the API root, e.g. "http://lims.example.com/api/v2".
	BaseURI string

	rest *restClient
	log  *zap.Logger

	mu    sync.Mutex
	cache map[string]*Entity
}

// Option configures a session.
type Option func(*Lims)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Lims) { l.rest.http = c }
}

// WithLogger attaches a logger to the session. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Lims) {
		l.log = log
		l.rest.log = log
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Lims) { l.rest.http.Timeout = d }
}

// New creates a session for the API rooted at baseURI, authenticating every
// request with the given credentials.
func New(baseURI, username, password string, opts ...Option) (*Lims, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return nil, fmt.Errorf("invalid base URI %q: %w", baseURI, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URI %q: scheme and host are required", baseURI)
	}

	l := &Lims{
		BaseURI: strings.TrimRight(baseURI, "/"),
		log:     zap.NewNop(),
		cache:   make(map[string]*Entity),
		rest: &restClient{
			username: username,
			password: password,
			http:     &http.Client{Timeout: 60 * time.Second},
			log:      zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// GetOrCreate returns the session's entity for the given type and id,
// creating an unhydrated stub on first reference. No request is issued.
func (l *Lims) GetOrCreate(typeTag, id string) *Entity {
	return l.getOrCreate(typeTag, l.resourceURI(typeTag, id))
}

// GetByURI returns the session's entity for the given resource URI, creating
// an unhydrated stub on first reference. The type tag is derived from the
// URI path. No request is issued.
func (l *Lims) GetByURI(uri string) (*Entity, error) {
	canonical, err := canonicalURI(uri)
	if err != nil {
		return nil, err
	}
	typeTag, err := typeTagFromURI(canonical)
	if err != nil {
		return nil, err
	}
	return l.getOrCreate(typeTag, canonical), nil
}

// getOrCreate is the single place entities are constructed. The lock covers
// lookup-or-create so two goroutines can never race a duplicate instance
// into existence for one URI.
func (l *Lims) getOrCreate(typeTag, canonical string) *Entity {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.cache[canonical]; ok {
		return e
	}
	e := &Entity{
		lims:    l,
		uri:     canonical,
		typeTag: typeTag,
		id:      idFromURI(canonical),
		state:   Uninitialized,
		changes: newChangeSet(),
	}
	l.cache[canonical] = e
	return e
}

// CheckVersion verifies that the remote API serves the major version this
// client speaks. The API root lists its versions as <version major=.../>
// elements.
func (l *Lims) CheckVersion(ctx context.Context) error {
	root := strings.TrimSuffix(l.BaseURI, "/"+APIVersion)
	res, err := l.rest.get(ctx, root)
	if err != nil {
		return err
	}
	if !res.ok() {
		return &NotFoundError{URI: root}
	}
	doc, err := parseBody(root, res.Body)
	if err != nil {
		return err
	}
	for _, v := range doc.FindAll("version") {
		if major, ok := v.Attr("major"); ok && major == APIVersion {
			return nil
		}
	}
	return fmt.Errorf("API at %s does not serve version %s", root, APIVersion)
}

// resourceURI builds the canonical URI for one resource.
func (l *Lims) resourceURI(typeTag, id string) string {
	return l.BaseURI + "/" + pluralize(typeTag) + "/" + id
}

// collectionURI builds the URI for a type's collection endpoint.
func (l *Lims) collectionURI(typeTag string) string {
	return l.BaseURI + "/" + pluralize(typeTag)
}

// canonicalURI reduces a resource URI to its identity: query parameters and
// fragments never distinguish resources (the server hands out state-qualified
// URIs for the same artifact), and neither does a trailing slash.
func canonicalURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid resource URI %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

// idFromURI returns the last path segment of a canonical URI.
func idFromURI(uri string) string {
	return uri[strings.LastIndex(uri, "/")+1:]
}

// typeTagFromURI derives the singular type tag from the collection segment
// of a canonical resource URI.
func typeTagFromURI(uri string) (string, error) {
	parts := strings.Split(strings.Trim(uri, "/"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("cannot derive resource type from URI %q", uri)
	}
	return singularize(parts[len(parts)-2]), nil
}

var irregularPlurals = map[string]string{
	"process": "processes",
}

func pluralize(typeTag string) string {
	if p, ok := irregularPlurals[typeTag]; ok {
		return p
	}
	return typeTag + "s"
}

func singularize(collection string) string {
	for tag, plural := range irregularPlurals {
		if collection == plural {
			return tag
		}
	}
	return strings.TrimSuffix(collection, "s")
}
