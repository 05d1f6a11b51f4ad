package engine

import "github.com/canvass-io/canvass/model"

// ChangeFunc observes every store mutation together with a snapshot of
// the full answer set. Hosts use it for autosave or analytics.
type ChangeFunc func(questionID string, value Value, snapshot map[string]Value)

// Store holds the answers of one response session. It is the single
// mutable piece of the runtime; every evaluation function only reads
// from it. All access happens on one goroutine.
type Store struct {
	values   map[string]Value
	onChange ChangeFunc
}

// NewStore seeds a store with the type-derived empty value of every
// question in the document, overlaid with the optional initial values
// (e.g. a resumed draft). Initial values win over defaults.
func NewStore(doc model.Survey, initial map[string]Value) *Store {
	values := map[string]Value{}
	for _, q := range doc.AllQuestions() {
		values[q.ID] = DefaultValue(q.Type)
	}
	for id, v := range initial {
		values[id] = v
	}
	return &Store{values: values}
}

// OnChange registers the mutation observer. Pass nil to detach.
func (s *Store) OnChange(fn ChangeFunc) {
	s.onChange = fn
}

// Get returns the current answer, or nil for an id the store has
// never seen.
func (s *Store) Get(questionID string) Value {
	return s.values[questionID]
}

// Set records an answer. It accepts any value for any id and triggers
// no validation or visibility evaluation; callers invoke those
// explicitly.
func (s *Store) Set(questionID string, value Value) {
	s.values[questionID] = value
	if s.onChange != nil {
		s.onChange(questionID, value, s.Snapshot())
	}
}

// Snapshot copies the answer map, detaching it from later mutation.
// Values are shared; readers must not modify Multi/Matrix contents.
func (s *Store) Snapshot() map[string]Value {
	snapshot := make(map[string]Value, len(s.values))
	for id, v := range s.values {
		snapshot[id] = v
	}
	return snapshot
}
