package sale

// Action classifies how a tracked entry was touched.
type Action int

const (
	// ActionCache: read but not modified.
	ActionCache Action = iota
	// ActionInsert: created by this operation.
	ActionInsert
	// ActionModify: modified by this operation.
	ActionModify
)

// trackedEntry holds the original and current bytes of one entry.
type trackedEntry struct {
	action   Action
	original []byte // nil for inserts
	current  []byte
}

// StateTable wraps a StateView and buffers every modification until
// Apply. An operation that fails simply drops its table, which is the
// rollback path: the base view is never touched by a failed operation.
type StateTable struct {
	base  StateView
	items map[Key]*trackedEntry
}

// AffectedEntry describes one committed change, for observability.
type AffectedEntry struct {
	Key    Key
	Action Action
}

// NewStateTable creates a table over the given base view.
func NewStateTable(base StateView) *StateTable {
	return &StateTable{
		base:  base,
		items: make(map[Key]*trackedEntry),
	}
}

// Read returns the entry as seen through pending modifications.
func (t *StateTable) Read(k Key) ([]byte, error) {
	if entry, ok := t.items[k]; ok {
		return entry.current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	if data != nil {
		t.items[k] = &trackedEntry{action: ActionCache, original: data, current: data}
	}
	return data, nil
}

// Exists reports entry presence through pending modifications.
func (t *StateTable) Exists(k Key) (bool, error) {
	if _, ok := t.items[k]; ok {
		return true, nil
	}
	return t.base.Exists(k)
}

// Write buffers an insert or replacement.
func (t *StateTable) Write(k Key, data []byte) error {
	if entry, ok := t.items[k]; ok {
		if entry.action == ActionCache {
			entry.action = ActionModify
		}
		entry.current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	action := ActionInsert
	if original != nil {
		action = ActionModify
	}
	t.items[k] = &trackedEntry{action: action, original: original, current: data}
	return nil
}

// Apply commits every buffered modification to the base view and
// returns the list of affected entries. Cached reads are not written
// back.
func (t *StateTable) Apply() ([]AffectedEntry, error) {
	affected := make([]AffectedEntry, 0, len(t.items))
	for k, entry := range t.items {
		if entry.action == ActionCache {
			continue
		}
		if err := t.base.Write(k, entry.current); err != nil {
			return nil, err
		}
		affected = append(affected, AffectedEntry{Key: k, Action: entry.action})
	}
	return affected, nil
}
