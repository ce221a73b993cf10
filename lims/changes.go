package lims

import "sort"

// fieldChange records one local modification that has not been persisted.
type fieldChange struct {
	Name     string
	OldValue string
	NewValue string
}

// changeSet tracks fields modified locally since the last hydration or
// successful save. UDF names are kept in a namespace of their own so a raw
// field and a UDF with the same name never collide.
//
// A changeSet belongs to a single Entity and inherits its threading rules:
// entities are not safe for concurrent use.
type changeSet struct {
	changes map[string]*fieldChange
}

func newChangeSet() *changeSet {
	return &changeSet{changes: make(map[string]*fieldChange)}
}

const udfPrefix = "udf:"

// record notes that a field moved from old to new. Writing the original
// value back removes the entry, so a reverted field is not pending. Repeated
// writes keep the first old value; locally it is last-write-wins on the new
// value.
func (cs *changeSet) record(name, oldValue, newValue string) {
	if prev, ok := cs.changes[name]; ok {
		if prev.OldValue == newValue {
			delete(cs.changes, name)
			return
		}
		prev.NewValue = newValue
		return
	}
	if oldValue == newValue {
		return
	}
	cs.changes[name] = &fieldChange{Name: name, OldValue: oldValue, NewValue: newValue}
}

// changed reports whether the named field has a pending modification.
func (cs *changeSet) changed(name string) bool {
	_, ok := cs.changes[name]
	return ok
}

// names returns the pending field names, sorted for stable output. UDF
// entries keep their namespace prefix.
func (cs *changeSet) names() []string {
	out := make([]string, 0, len(cs.changes))
	for name := range cs.changes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (cs *changeSet) empty() bool {
	return len(cs.changes) == 0
}

// reset clears all pending changes. Called after a successful save.
func (cs *changeSet) reset() {
	cs.changes = make(map[string]*fieldChange)
}
