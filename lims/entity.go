package lims

import (
	"context"

	"github.com/nkongenelly/genologics/xmltree"
)

// HydrationState tracks how much of a remote resource an Entity holds.
type HydrationState int

const (
	// Uninitialized entities are stubs: identity only, no data fetched.
	Uninitialized HydrationState = iota
	// Hydrated entities hold the parsed resource body.
	Hydrated
	// Stale entities hold data but will re-fetch on the next read.
	Stale
)

// Entity is the in-memory handle to one remote resource. Within a session
// there is exactly one Entity per canonical URI, so two lookups of the same
// resource always share state. The resource body is fetched on first field
// access, never at construction.
//
// Entities are not safe for concurrent use.
type Entity struct {
	lims    *Lims
	uri     string
	typeTag string
	id      string

	state  HydrationState
	root   *xmltree.Node
	fields map[string]string
	udfs   map[string]Value

	changes *changeSet
}

// URI returns the entity's canonical resource URI.
func (e *Entity) URI() string { return e.uri }

// TypeTag returns the resource's category, e.g. "project" or "sample".
func (e *Entity) TypeTag() string { return e.typeTag }

// ID returns the resource identifier, the last segment of the URI.
func (e *Entity) ID() string { return e.id }

// State returns the entity's hydration state.
func (e *Entity) State() HydrationState { return e.state }

// PendingChanges returns the names of fields modified locally since the last
// hydration or successful save. UDF names carry a "udf:" prefix.
func (e *Entity) PendingChanges() []string { return e.changes.names() }

// Invalidate marks the entity stale so the next field access re-fetches the
// resource. The fresh body replaces local state, including pending writes.
func (e *Entity) Invalidate() {
	if e.state == Hydrated {
		e.state = Stale
	}
}

// hydrate fetches and parses the resource body unless it is already held.
// One fetch populates every field; subsequent reads are local.
func (e *Entity) hydrate(ctx context.Context) error {
	if e.state == Hydrated {
		return nil
	}
	res, err := e.lims.rest.get(ctx, e.uri)
	if err != nil {
		return err
	}
	if !res.ok() {
		return &NotFoundError{URI: e.uri}
	}
	root, err := parseBody(e.uri, res.Body)
	if err != nil {
		return err
	}
	return e.populate(root)
}

// populate replaces the entity's data with a parsed resource body and marks
// it Hydrated. Leaf children become raw fields; <field name=...> children
// become UDFs; children with their own structure stay in the tree and ride
// along on save.
func (e *Entity) populate(root *xmltree.Node) error {
	fields := make(map[string]string)
	udfs := make(map[string]Value)
	for _, c := range root.Children {
		if name, ok := c.Attr("name"); ok && c.Tag == "field" {
			typeAttr, _ := c.Attr("type")
			v, err := parseValue(typeAttr, c.Text)
			if err != nil {
				return &ParseError{URI: e.uri, Err: err}
			}
			udfs[name] = v
			continue
		}
		if len(c.Children) == 0 {
			fields[c.Tag] = c.Text
		}
	}
	e.root = root
	e.fields = fields
	e.udfs = udfs
	e.state = Hydrated
	e.changes.reset()
	return nil
}

// Field returns the named raw field, hydrating the entity on first access.
// A field absent from the resource reads as the empty string.
func (e *Entity) Field(ctx context.Context, name string) (string, error) {
	if err := e.hydrate(ctx); err != nil {
		return "", err
	}
	return e.fields[name], nil
}

// SetField records a local write to a raw field. Nothing is sent until Put.
// An uninitialized entity is hydrated first so that saving does not clobber
// fields that were never touched.
func (e *Entity) SetField(ctx context.Context, name, value string) error {
	if err := e.hydrate(ctx); err != nil {
		return err
	}
	old := e.fields[name]
	e.fields[name] = value

	n := e.root.Find(name)
	if n == nil {
		n = &xmltree.Node{Tag: name}
		e.root.AppendChild(n)
	}
	n.Text = value

	e.changes.record(name, old, value)
	return nil
}

// UDF returns the named user-defined field. A UDF absent from the resource
// is not an error: ok is false.
func (e *Entity) UDF(ctx context.Context, name string) (Value, bool, error) {
	if err := e.hydrate(ctx); err != nil {
		return Value{}, false, err
	}
	v, ok := e.udfs[name]
	return v, ok, nil
}

// UDFNames returns the names of all user-defined fields on the resource.
func (e *Entity) UDFNames(ctx context.Context) ([]string, error) {
	if err := e.hydrate(ctx); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(e.udfs))
	for name := range e.udfs {
		names = append(names, name)
	}
	return names, nil
}

// SetUDF records a local write to a user-defined field. Creating a UDF the
// resource does not carry yet is allowed; the remote schema may define
// dynamic fields per type.
func (e *Entity) SetUDF(ctx context.Context, name string, v Value) error {
	if err := e.hydrate(ctx); err != nil {
		return err
	}
	var old string
	if prev, ok := e.udfs[name]; ok {
		old = prev.String()
	}
	e.udfs[name] = v

	n := e.findUDFNode(name)
	if n == nil {
		n = &xmltree.Node{Tag: "field"}
		n.SetAttr("name", name)
		e.root.AppendChild(n)
	}
	n.SetAttr("type", v.typeAttr())
	n.Text = v.String()

	e.changes.record(udfPrefix+name, old, v.String())
	return nil
}

func (e *Entity) findUDFNode(name string) *xmltree.Node {
	for _, c := range e.root.FindAll("field") {
		if n, ok := c.Attr("name"); ok && n == name {
			return c
		}
	}
	return nil
}

// Put persists the entity by serializing the full current document and
// issuing a PUT; the remote format takes whole resources, not diffs. On
// success pending changes are cleared. On rejection the returned
// RemoteUpdateError carries status and body, and pending changes are left
// untouched so the caller can retry.
func (e *Entity) Put(ctx context.Context) error {
	// Saving a stub would write an empty document over the remote state.
	if e.state == Uninitialized {
		if err := e.hydrate(ctx); err != nil {
			return err
		}
	}
	res, err := e.lims.rest.put(ctx, e.uri, []byte(e.root.String()))
	if err != nil {
		return err
	}
	if !res.ok() {
		return &RemoteUpdateError{URI: e.uri, Status: res.Status, Body: string(res.Body)}
	}
	e.changes.reset()
	e.state = Hydrated
	return nil
}

// parseBody parses a resource body, wrapping failures with the URI they came
// from.
func parseBody(uri string, body []byte) (*xmltree.Node, error) {
	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, &ParseError{URI: uri, Err: err}
	}
	return root, nil
}
